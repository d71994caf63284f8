package markup

import "github.com/microcosm-cc/bluemonday"

// WireAttrs are the attributes the wire format relies on.
var WireAttrs = []string{"class", "id", "data-type", "data-level", "data-style", "data-key", "data-id"}

// Policy returns the sanitizing policy for translated markup.  It keeps
// the elements and attributes of the wire format and drops everything
// else, such as scripts, styles and event handlers.
func Policy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"html", "head", "body", "meta",
		"div", "span", "p", "br",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"blockquote", "ul", "ol", "li",
		"strong", "b", "em", "i", "code", "u", "s", "del", "strike",
	)
	p.AllowAttrs(WireAttrs...).Globally()
	p.AllowAttrs("name", "content").OnElements("meta")
	return p
}

// Sanitize returns d stripped of everything but wire format markup.
func Sanitize(d []byte) []byte {
	return Policy().SanitizeBytes(d)
}

package encode

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/filter"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
	"github.com/signadot/transdoc/schema"
)

// Version is the wire format version written in the document head.
const Version = "3"

// Document is a serialized document.
type Document struct {
	// Name identifies the document to the translation service.
	Name    string
	Content string
	Root    *markup.Element
}

type EncState struct {
	level       Level
	baseLocale  string
	stop        schema.StopTypes
	schema      schema.Descriptor
	serializers Serializers
	log         *slog.Logger
}

func newEncState(opts []EncodeOption) *EncState {
	es := &EncState{
		baseLocale:  "en",
		serializers: NewSerializers(),
	}
	for _, opt := range opts {
		opt(es)
	}
	if es.stop == nil {
		es.stop = schema.DefaultStopTypes()
	}
	if es.schema == nil {
		es.schema = schema.None
	}
	if es.log == nil {
		es.log = slog.Default()
	}
	return es
}

// Serialize renders the translatable content of doc.
func Serialize(doc *ir.Node, opts ...EncodeOption) (*Document, error) {
	es := newEncState(opts)
	if doc == nil || doc.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: want object", ErrNotDocument)
	}
	var filtered *ir.Node
	switch es.level {
	case DocumentLevel:
		filtered = filter.Object(doc, es.schema, es.stop)
	case FieldLevel:
		filtered = filter.LanguageObjects(doc, es.baseLocale)
	case LocaleArrayLevel:
		filtered = filter.LocaleArrays(doc, es.baseLocale)
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadLevel, es.level)
	}
	if debug.Serialize() {
		debug.Logf("serialize %s at %s level:\n%v\n", doc.ID(), es.level, filtered)
	}

	root := es.object(filtered, doc.TypeTag())
	if root == nil {
		root = markup.New("div",
			markup.A("class", doc.TypeTag()),
			markup.A("id", doc.ID()),
			markup.A("data-type", "object"))
	}
	html := markup.New("html").Append(
		head(doc),
		markup.New("body").Append(root))
	return &Document{
		Name:    doc.ID(),
		Content: html.String(),
		Root:    html,
	}, nil
}

// Encode writes the serialization of doc to w.
func Encode(doc *ir.Node, w io.Writer, opts ...EncodeOption) error {
	d, err := Serialize(doc, opts...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, d.Content)
	return err
}

func head(doc *ir.Node) *markup.Element {
	h := markup.New("head")
	for _, f := range []string{ir.IDField, ir.TypeField, ir.RevField} {
		v := doc.StringField(f)
		if v == "" {
			continue
		}
		h.Append(meta(f, v))
	}
	return h.Append(meta("version", Version))
}

func meta(name, content string) *markup.Element {
	return markup.New("meta", markup.A("name", name), markup.A("content", content))
}

// Context gives serializers access to the default rendering.
type Context struct {
	es          *EncState
	serializers Serializers
}

// Object renders y as it would be rendered in place of the calling
// serializer's node, schema filtering and registered serializers
// included.
func (c *Context) Object(y *ir.Node) *markup.Element {
	return c.es.object(filter.Object(y, c.es.schema, c.es.stop), "")
}

// Fields renders the fields of y without an enclosing element.
func (c *Context) Fields(y *ir.Node) *markup.Element {
	return c.es.fields(y)
}

// Array renders the items of y without an enclosing element.
func (c *Context) Array(y *ir.Node) *markup.Element {
	return c.es.array(y)
}

// Serializers returns the serializers active for the node being rendered.
func (c *Context) Serializers() Serializers {
	return c.serializers
}

func (c *Context) Level() Level { return c.es.level }
func (c *Context) BaseLocale() string { return c.es.baseLocale }
func (c *Context) Logger() *slog.Logger { return c.es.log }

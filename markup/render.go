package markup

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

func (e *Element) String() string {
	buf := &strings.Builder{}
	e.render(buf)
	return buf.String()
}

// InnerString renders the children of e.
func (e *Element) InnerString() string {
	buf := &strings.Builder{}
	for _, c := range e.Children {
		c.render(buf)
	}
	return buf.String()
}

func (e *Element) Render(w io.Writer) error {
	_, err := io.WriteString(w, e.String())
	return err
}

func (e *Element) render(buf *strings.Builder) {
	switch e.Type {
	case TextNode:
		buf.WriteString(html.EscapeString(e.Text))
		return
	case FragmentNode:
		for _, c := range e.Children {
			c.render(buf)
		}
		return
	}
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteString(`="`)
		buf.WriteString(html.EscapeString(a.Val))
		buf.WriteByte('"')
	}
	buf.WriteByte('>')
	if IsVoid(e.Tag) {
		return
	}
	for _, c := range e.Children {
		c.render(buf)
	}
	buf.WriteString("</")
	buf.WriteString(e.Tag)
	buf.WriteByte('>')
}

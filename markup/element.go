// Package markup provides an explicit element tree for the HTML wire
// format: parsing, rendering and sanitizing.
package markup

import "strings"

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	FragmentNode
)

type Attr struct {
	Key, Val string
}

func A(k, v string) Attr {
	return Attr{Key: k, Val: v}
}

// Element is an element, a text node or a fragment (a list of nodes
// without an enclosing element).  Attribute order is preserved.
type Element struct {
	Type     NodeType
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string
}

// New creates an element.  Attributes with empty values are dropped.
func New(tag string, attrs ...Attr) *Element {
	e := &Element{Type: ElementNode, Tag: tag}
	for _, a := range attrs {
		if a.Val == "" {
			continue
		}
		e.Attrs = append(e.Attrs, a)
	}
	return e
}

func Text(s string) *Element {
	return &Element{Type: TextNode, Text: s}
}

func Fragment(children ...*Element) *Element {
	return (&Element{Type: FragmentNode}).Append(children...)
}

// Append adds children, skipping nil ones and splicing fragments.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Type == FragmentNode {
			e.Children = append(e.Children, c.Children...)
			continue
		}
		e.Children = append(e.Children, c)
	}
	return e
}

// IsEmpty reports whether e renders nothing.
func (e *Element) IsEmpty() bool {
	if e == nil {
		return true
	}
	switch e.Type {
	case TextNode:
		return e.Text == ""
	case FragmentNode:
		for _, c := range e.Children {
			if !c.IsEmpty() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (e *Element) Attr(k string) string {
	v, _ := e.LookupAttr(k)
	return v
}

func (e *Element) LookupAttr(k string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == k {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttr(k, v string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Key == k {
			e.Attrs[i].Val = v
			return e
		}
	}
	e.Attrs = append(e.Attrs, A(k, v))
	return e
}

func (e *Element) Class() string { return e.Attr("class") }
func (e *Element) ID() string { return e.Attr("id") }
func (e *Element) DataType() string { return e.Attr("data-type") }

// HasClass reports whether c is one of the classes of e.
func (e *Element) HasClass(c string) bool {
	for _, x := range strings.Fields(e.Class()) {
		if x == c {
			return true
		}
	}
	return false
}

// Elements returns the element children of e.
func (e *Element) Elements() []*Element {
	var res []*Element
	for _, c := range e.Children {
		if c.Type == ElementNode {
			res = append(res, c)
		}
	}
	return res
}

// FirstElement returns the first element child of e, or nil.
func (e *Element) FirstElement() *Element {
	for _, c := range e.Children {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// Find returns the first element below e, in document order, with tag.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.Children {
		if c.Type != ElementNode {
			continue
		}
		if c.Tag == tag {
			return c
		}
		if res := c.Find(tag); res != nil {
			return res
		}
	}
	return nil
}

// TextContent returns the concatenated text below e.
func (e *Element) TextContent() string {
	if e.Type == TextNode {
		return e.Text
	}
	buf := &strings.Builder{}
	e.textContent(buf)
	return buf.String()
}

func (e *Element) textContent(buf *strings.Builder) {
	for _, c := range e.Children {
		if c.Type == TextNode {
			buf.WriteString(c.Text)
			continue
		}
		c.textContent(buf)
	}
}

// HasElements reports whether e has element children.
func (e *Element) HasElements() bool {
	return e.FirstElement() != nil
}

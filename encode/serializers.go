package encode

import (
	"maps"
	"slices"

	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
)

// SerializeFunc renders a node of a registered type.  It fully owns the
// markup of the node.
type SerializeFunc func(y *ir.Node, c *Context) (*markup.Element, error)

// MarkFunc renders an annotation: the mark definition markDef applied to
// the already rendered children.
type MarkFunc func(markDef *ir.Node, children *markup.Element, c *Context) (*markup.Element, error)

// Serializers is an immutable set of rendering overrides.  The With
// methods return extended copies.
type Serializers struct {
	types  map[string]SerializeFunc
	marks  map[string]MarkFunc
	styles map[string]string
}

// DefaultStyles maps block styles to the elements rendering them.
var DefaultStyles = map[string]string{
	ir.StyleNormal: "p",
	"h1":           "h1",
	"h2":           "h2",
	"h3":           "h3",
	"h4":           "h4",
	"h5":           "h5",
	"h6":           "h6",
	"blockquote":   "blockquote",
}

// decorators maps decorator marks to elements.
var decorators = map[string]string{
	"strong":         "strong",
	"em":             "em",
	"code":           "code",
	"underline":      "u",
	"strike-through": "s",
}

func NewSerializers() Serializers {
	return Serializers{styles: DefaultStyles}
}

func (s Serializers) With(typeName string, fn SerializeFunc) Serializers {
	res := s
	res.types = maps.Clone(s.types)
	if res.types == nil {
		res.types = map[string]SerializeFunc{}
	}
	res.types[typeName] = fn
	return res
}

func (s Serializers) WithMark(markType string, fn MarkFunc) Serializers {
	res := s
	res.marks = maps.Clone(s.marks)
	if res.marks == nil {
		res.marks = map[string]MarkFunc{}
	}
	res.marks[markType] = fn
	return res
}

// WithStyle renders blocks of style with elements named tag.
func (s Serializers) WithStyle(style, tag string) Serializers {
	res := s
	res.styles = maps.Clone(s.styles)
	if res.styles == nil {
		res.styles = maps.Clone(DefaultStyles)
	}
	res.styles[style] = tag
	return res
}

func (s Serializers) Type(typeName string) (SerializeFunc, bool) {
	fn, ok := s.types[typeName]
	return fn, ok
}

func (s Serializers) Mark(markType string) (MarkFunc, bool) {
	fn, ok := s.marks[markType]
	return fn, ok
}

func (s Serializers) Style(style string) (string, bool) {
	styles := s.styles
	if styles == nil {
		styles = DefaultStyles
	}
	tag, ok := styles[style]
	return tag, ok
}

// Types returns the names of the types with serializers.
func (s Serializers) Types() []string {
	return slices.Sorted(maps.Keys(s.types))
}

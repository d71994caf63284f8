package parse

import (
	"github.com/signadot/transdoc/encode"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
)

// Next decodes child markup into spans and inline objects.
type Next func(nodes []*markup.Element) []*ir.Node

// BlockRule decodes elements it matches.  Inside a block the result is
// an inline object, a span, or an annotation made with Annotation.  At
// array level the result is the array item.  The first matching rule
// wins.
type BlockRule struct {
	Name        string
	Match       func(el *markup.Element) bool
	Deserialize func(el *markup.Element, next Next) (*ir.Node, error)
}

// Annotation builds the result of a rule applying the mark definition
// markDef to children.
func Annotation(markDef *ir.Node, children []*ir.Node) *ir.Node {
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.TypeField, Val: ir.FromString(ir.AnnotationType)},
		{Key: "markDef", Val: markDef},
		{Key: "children", Val: ir.FromSlice(children)},
	})
}

func (ps *parseState) match(el *markup.Element) *BlockRule {
	for i := range ps.rules {
		r := &ps.rules[i]
		if r.Match(el) {
			return r
		}
	}
	return nil
}

// apply runs a rule.  Errors and panics are logged and produce nothing.
func (ps *parseState) apply(r *BlockRule, el *markup.Element, next Next) (res *ir.Node) {
	defer func() {
		if x := recover(); x != nil {
			ps.log.Warn("block rule panicked", "rule", r.Name, "tag", el.Tag, "id", el.ID(), "panic", x)
			res = nil
		}
	}()
	y, err := r.Deserialize(el, next)
	if err != nil {
		ps.log.Warn("block rule failed", "rule", r.Name, "tag", el.Tag, "id", el.ID(), "error", err)
		return nil
	}
	return y
}

// defaultRules decode the default inline wrappers of encode.
func (ps *parseState) defaultRules() []BlockRule {
	return []BlockRule{
		{
			Name: "annotation",
			Match: func(el *markup.Element) bool {
				return el.Tag == "span" && el.HasClass(encode.AnnotationClass)
			},
			Deserialize: ps.annotation,
		},
		{
			Name: "inline-object",
			Match: func(el *markup.Element) bool {
				return el.Tag == "span" && el.HasClass(encode.ObjectClass)
			},
			Deserialize: ps.inlineObject,
		},
	}
}

func (ps *parseState) annotation(el *markup.Element, next Next) (*ir.Node, error) {
	var (
		obj      *ir.Node
		children []*ir.Node
	)
	for _, c := range el.Elements() {
		if c.HasClass(encode.ChildrenClass) {
			children = next(c.Children)
			continue
		}
		if obj == nil {
			obj = ps.value(c)
		}
	}
	return Annotation(typed(el, obj), children), nil
}

func (ps *parseState) inlineObject(el *markup.Element, _ Next) (*ir.Node, error) {
	var obj *ir.Node
	if inner := el.FirstElement(); inner != nil {
		obj = ps.value(inner)
	}
	return typed(el, obj), nil
}

// typed returns obj with the type and key given by the attributes of the
// wrapper el.
func typed(el *markup.Element, obj *ir.Node) *ir.Node {
	res := ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.TypeField, Val: ir.FromString(el.DataType())},
		{Key: ir.KeyField, Val: ir.FromString(el.ID())},
	})
	if obj == nil || obj.Type != ir.ObjectType {
		return res
	}
	for i, f := range obj.Fields {
		if f == ir.TypeField || f == ir.KeyField {
			continue
		}
		res.Set(f, obj.Values[i])
	}
	return res
}

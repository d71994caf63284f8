package parse

import (
	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/encode"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
)

// object decodes an object element.  Its class is the object type and
// its children are its fields, each named by the child's class.
func (ps *parseState) object(el *markup.Element) *ir.Node {
	res := ir.NewObject()
	if c := el.Class(); c != "" {
		res.Set(ir.TypeField, ir.FromString(c))
	}
	if id := el.Attr(encode.IDAttr); id != "" {
		res.Set(ir.IDField, ir.FromString(id))
	}
	for _, child := range el.Elements() {
		name := child.Class()
		if name == "" {
			ps.log.Warn("skipping unnamed field element", "tag", child.Tag, "in", el.Class())
			continue
		}
		switch {
		case child.Attr("data-level") == "field" || child.DataType() == "field":
			inner := child.FirstElement()
			if inner == nil {
				ps.log.Warn("skipping empty field wrapper", "field", name)
				continue
			}
			v := ps.value(inner)
			if v == nil {
				continue
			}
			setItemKey(inner, v)
			res.Set(name, v)
		case child.DataType() == "array":
			res.Set(name, ps.array(child))
		case child.Tag == "span":
			res.Set(name, ir.FromString(text(child)))
		default:
			if fn, ok := ps.types.Type(name); ok {
				if v := ps.call(fn, child); v != nil {
					res.Set(name, v)
				}
				continue
			}
			ps.log.Warn("skipping unrecognized element", "tag", child.Tag, "class", name)
		}
	}
	if debug.Deserialize() {
		debug.Logf("deserialize: object %q with %d fields\n", el.Class(), len(res.Fields))
	}
	return res
}

// setItemKey keys the object v decoded from el by the id of el, unless
// the id is the _id of the object.
func setItemKey(el *markup.Element, v *ir.Node) {
	id := el.ID()
	if id == "" || id == el.Attr(encode.IDAttr) || v.Type != ir.ObjectType || v.Has(ir.KeyField) {
		return
	}
	v.InsertField(0, ir.KeyField, ir.FromString(id))
}

// array decodes an array element.  Items are bare strings (spans),
// nested arrays, objects keyed by their element ids or rich text blocks.
func (ps *parseState) array(el *markup.Element) *ir.Node {
	res := ir.NewArray()
	for _, child := range el.Elements() {
		switch {
		case child.Tag == "ul" || child.Tag == "ol":
			kind := ir.ListBullet
			if child.Tag == "ol" {
				kind = ir.ListNumber
			}
			for _, li := range child.Elements() {
				if li.Tag != "li" {
					ps.log.Warn("skipping list child", "tag", li.Tag)
					continue
				}
				if b := ps.block(li, kind); b != nil {
					res.Append(b)
				}
			}
		case child.Tag == "span" && child.Class() == "" && child.DataType() == "":
			res.Append(ir.FromString(text(child)))
		case child.DataType() == "array" && child.Class() == "":
			res.Append(ps.array(child))
		case child.DataType() == "object" || hasType(ps.types, child):
			v := ps.value(child)
			if v == nil {
				continue
			}
			setItemKey(child, v)
			res.Append(v)
		default:
			b := ps.block(child, "")
			if b == nil {
				ps.log.Warn("skipping unrecognized array item", "tag", child.Tag, "id", child.ID())
				continue
			}
			res.Append(b)
		}
	}
	return res
}

func hasType(d Deserializers, el *markup.Element) bool {
	_, ok := d.Type(el.Class())
	return ok
}

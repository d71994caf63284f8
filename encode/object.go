package encode

import (
	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/filter"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
)

// object renders an object.  Objects of stop types render nothing, and
// so do objects without translatable content.  An object of a type with
// a registered serializer is rendered by it.  Otherwise its fields are
// rendered inside an element whose class is class, or the object type if
// class is empty.  The element id is the object key, or its _id if it has
// no key, and an _id is also kept in data-id.
func (es *EncState) object(y *ir.Node, class string) *markup.Element {
	tag := y.TypeTag()
	if es.stop.Has(tag) {
		if debug.Serialize() {
			debug.Logf("serialize: skipping %s of stop type %q\n", y.Path(), tag)
		}
		return nil
	}
	sers := es.serializers
	if _, ok := sers.Type(tag); !ok && y.Kind() == ir.ObjectKind {
		inner := es.fields(y)
		if inner.IsEmpty() {
			return nil
		}
		if class == "" {
			class = tag
		}
		id := y.Key()
		if id == "" {
			id = y.ID()
		}
		wrapped := markup.New("div",
			markup.A("class", class),
			markup.A("id", id),
			markup.A(IDAttr, y.ID()),
			markup.A("data-type", "object")).Append(inner)
		// the wrapper renders this object only
		sers = sers.With(tag, func(*ir.Node, *Context) (*markup.Element, error) {
			return wrapped, nil
		})
	}
	return es.render(y, sers)
}

// render dispatches y to the block renderer or to the serializer of its
// type in sers.
func (es *EncState) render(y *ir.Node, sers Serializers) *markup.Element {
	if y.Kind() == ir.BlockKind {
		return es.block(y, sers)
	}
	fn, ok := sers.Type(y.TypeTag())
	if !ok {
		return unknownType(y)
	}
	return es.call(fn, y, sers)
}

func unknownType(y *ir.Node) *markup.Element {
	return markup.New("div", markup.A("class", y.TypeTag()))
}

// call runs a serializer.  Errors and panics are logged and the node
// renders nothing.
func (es *EncState) call(fn SerializeFunc, y *ir.Node, sers Serializers) (res *markup.Element) {
	defer func() {
		if r := recover(); r != nil {
			es.log.Warn("serializer panicked", "type", y.TypeTag(), "path", y.Path(), "panic", r)
			res = nil
		}
	}()
	el, err := fn(y, &Context{es: es, serializers: sers})
	if err != nil {
		es.log.Warn("serializer failed", "type", y.TypeTag(), "path", y.Path(), "error", err)
		return nil
	}
	return el
}

// fields renders the non internal fields of y.
func (es *EncState) fields(y *ir.Node) *markup.Element {
	frag := markup.Fragment()
	for i, k := range y.Fields {
		if ir.IsInternal(k) {
			continue
		}
		frag.Append(es.field(k, y.Values[i]))
	}
	return frag
}

func (es *EncState) field(name string, v *ir.Node) *markup.Element {
	switch v.Kind() {
	case ir.ScalarKind:
		if v.String == "" {
			return nil
		}
		return markup.New("span", markup.A("class", name)).Append(markup.Text(v.String))
	case ir.LeafKind:
		return nil
	case ir.BlockKind:
		inner := es.object(v, "")
		if inner.IsEmpty() {
			return nil
		}
		return markup.New("div",
			markup.A("class", name),
			markup.A("data-level", "field")).Append(inner)
	case ir.ArrayKind:
		inner := es.array(v)
		if inner.IsEmpty() {
			return nil
		}
		return markup.New("div",
			markup.A("class", name),
			markup.A("data-type", "array")).Append(inner)
	default:
		inner := es.object(filter.Object(v, es.schema, es.stop), "")
		if inner.IsEmpty() {
			return nil
		}
		return markup.New("div",
			markup.A("class", name),
			markup.A("data-level", "field")).Append(inner)
	}
}

// array renders the items of arr.  Runs of list blocks of the same kind
// share a list element.
func (es *EncState) array(arr *ir.Node) *markup.Element {
	frag := markup.Fragment()
	var list *markup.Element
	listKind := ""
	flush := func() {
		if list != nil {
			frag.Append(list)
		}
		list, listKind = nil, ""
	}
	_, customBlocks := es.serializers.Type(ir.BlockType)
	for _, item := range arr.Values {
		switch item.Kind() {
		case ir.ScalarKind:
			flush()
			if item.String == "" {
				continue
			}
			frag.Append(markup.New("span").Append(markup.Text(item.String)))
		case ir.LeafKind:
			if debug.Serialize() {
				debug.Logf("serialize: skipping %s item %s\n", item.Kind(), item.Path())
			}
		case ir.ArrayKind:
			flush()
			inner := es.array(item)
			if inner.IsEmpty() {
				continue
			}
			frag.Append(markup.New("div", markup.A("data-type", "array")).Append(inner))
		case ir.BlockKind:
			b, _ := ir.AsBlock(item)
			if b.ListItem == "" || customBlocks {
				flush()
				frag.Append(es.object(item, ""))
				continue
			}
			if list == nil || listKind != b.ListItem {
				flush()
				list, listKind = markup.New(listTag(b.ListItem)), b.ListItem
			}
			list.Append(es.listItem(b, es.serializers))
		default:
			flush()
			frag.Append(es.object(filter.Object(item, es.schema, es.stop), ""))
		}
	}
	flush()
	return frag
}

func listTag(kind string) string {
	if kind == ir.ListNumber {
		return "ol"
	}
	return "ul"
}

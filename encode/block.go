package encode

import (
	"strconv"
	"strings"

	"github.com/signadot/transdoc/filter"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
)

// Class names of the default inline wrappers.
const (
	ObjectClass     = "default-serialized-object"
	AnnotationClass = "default-serialized-annotation"
	ChildrenClass   = "default-serialized-children"

	// UnknownStyle marks a block whose style has no element.
	UnknownStyle = "unknown-block-style"

	// SpanKeyAttr carries the key of a span on its wrapper.
	SpanKeyAttr = "data-key"
	// IDAttr carries the _id of an object.
	IDAttr = "data-id"
)

func (es *EncState) block(y *ir.Node, sers Serializers) *markup.Element {
	if fn, ok := sers.Type(ir.BlockType); ok {
		return es.call(fn, y, sers)
	}
	b, _ := ir.AsBlock(y)
	if b.ListItem != "" {
		// a list item outside of an array
		return markup.New(listTag(b.ListItem)).Append(es.listItem(b, sers))
	}
	return es.styled(b, b.Key, es.inline(b, sers), sers)
}

func (es *EncState) styled(b *ir.Block, id string, content *markup.Element, sers Serializers) *markup.Element {
	tag, ok := sers.Style(b.Style)
	if !ok {
		return markup.New("p",
			markup.A("id", id),
			markup.A("data-type", UnknownStyle),
			markup.A("data-style", b.Style)).Append(content)
	}
	return markup.New(tag, markup.A("id", id)).Append(content)
}

func (es *EncState) listItem(b *ir.Block, sers Serializers) *markup.Element {
	lvl := b.Level
	if lvl == 0 {
		lvl = 1
	}
	li := markup.New("li",
		markup.A("id", b.Key),
		markup.A("data-level", strconv.Itoa(lvl)))
	content := es.inline(b, sers)
	if b.Style == ir.StyleNormal {
		return li.Append(content)
	}
	return li.Append(es.styled(b, "", content, sers))
}

// inline renders the children of a block.
func (es *EncState) inline(b *ir.Block, sers Serializers) *markup.Element {
	frag := markup.Fragment()
	for _, c := range b.Children {
		switch c.Kind() {
		case ir.SpanKind:
			frag.Append(es.span(b, c, sers))
		case ir.ObjectKind:
			frag.Append(es.inlineObject(c, sers))
		}
	}
	return frag
}

// span renders the text of a span inside its marks, the first mark
// outermost.  Line breaks become br elements.  A keyed span is wrapped in
// a span element carrying the key.
func (es *EncState) span(b *ir.Block, s *ir.Node, sers Serializers) *markup.Element {
	var el *markup.Element
	lines := strings.Split(s.StringField("text"), "\n")
	if len(lines) == 1 {
		el = markup.Text(lines[0])
	} else {
		el = markup.Fragment()
		for i, ln := range lines {
			if i != 0 {
				el.Append(markup.New("br"))
			}
			el.Append(markup.Text(ln))
		}
	}
	marks := s.Marks()
	for i := len(marks) - 1; i >= 0; i-- {
		m := marks[i]
		if tag, ok := decorators[m]; ok {
			el = markup.New(tag).Append(el)
			continue
		}
		md := b.MarkDef(m)
		if md == nil {
			es.log.Debug("dropping undefined mark", "mark", m, "block", b.Key)
			continue
		}
		el = es.annotation(md, el, sers)
	}
	if k := s.Key(); k != "" {
		el = markup.New("span", markup.A(SpanKeyAttr, k)).Append(el)
	}
	return el
}

// annotation renders children annotated with the mark definition md.  A
// failing mark serializer leaves the children unannotated.
func (es *EncState) annotation(md *ir.Node, children *markup.Element, sers Serializers) (res *markup.Element) {
	if fn, ok := sers.Mark(md.TypeTag()); ok {
		defer func() {
			if r := recover(); r != nil {
				es.log.Warn("mark serializer panicked", "type", md.TypeTag(), "key", md.Key(), "panic", r)
				res = children
			}
		}()
		el, err := fn(md, children, &Context{es: es, serializers: sers})
		if err != nil {
			es.log.Warn("mark serializer failed", "type", md.TypeTag(), "key", md.Key(), "error", err)
			return children
		}
		return el
	}
	return markup.New("span",
		markup.A("class", AnnotationClass),
		markup.A("id", md.Key()),
		markup.A("data-type", md.TypeTag())).Append(
		markup.New("span", markup.A("class", ChildrenClass)).Append(children),
		es.object(filter.Object(md, es.schema, es.stop), ""))
}

func (es *EncState) inlineObject(y *ir.Node, sers Serializers) *markup.Element {
	tag := y.TypeTag()
	if fn, ok := sers.Type(tag); ok {
		return es.call(fn, y, sers)
	}
	wrapper := markup.New("span",
		markup.A("class", ObjectClass),
		markup.A("id", y.Key()),
		markup.A("data-type", tag))
	if es.stop.Has(tag) {
		return wrapper
	}
	return wrapper.Append(es.object(filter.Object(y, es.schema, es.stop), ""))
}

package parse

import (
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/transdoc/encode"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
)

// decorators maps inline elements to decorator marks.
var decorators = map[string]string{
	"strong": "strong",
	"b":      "strong",
	"em":     "em",
	"i":      "em",
	"code":   "code",
	"u":      "underline",
	"s":      "strike-through",
	"del":    "strike-through",
	"strike": "strike-through",
}

// block decodes a block element: a paragraph, heading, block quote or
// list item of the given list kind.  Block rules matching el take
// precedence.  It returns nil if el is not a block element.
func (ps *parseState) block(el *markup.Element, listKind string) *ir.Node {
	if r := ps.match(el); r != nil {
		y := ps.apply(r, el, ps.next())
		if y != nil && y.Type == ir.ObjectType && !y.Has(ir.KeyField) && el.ID() != "" {
			y.InsertField(0, ir.KeyField, ir.FromString(el.ID()))
		}
		return y
	}
	b := &ir.Block{Key: el.ID()}
	content := el
	switch {
	case el.Tag == "li":
		b.ListItem = listKind
		if b.ListItem == "" {
			b.ListItem = ir.ListBullet
		}
		b.Level = 1
		if lvl, err := strconv.Atoi(el.Attr("data-level")); err == nil && lvl > 0 {
			b.Level = lvl
		}
		b.Style = ir.StyleNormal
		if inner := soleElement(el); inner != nil {
			if style, ok := ps.style(inner); ok {
				b.Style = style
				content = inner
			}
		}
	default:
		style, ok := ps.style(el)
		if !ok {
			return nil
		}
		b.Style = style
	}
	b.Children, b.MarkDefs = ps.inline(content.Children, b.Key)
	return b.Node()
}

// style returns the block style el stands for.
func (ps *parseState) style(el *markup.Element) (string, bool) {
	if el.Tag == "p" && el.DataType() == encode.UnknownStyle {
		return el.Attr("data-style"), true
	}
	style, ok := ps.styles[el.Tag]
	return style, ok
}

// soleElement returns the only child of el if it is an element and el
// holds no other text.
func soleElement(el *markup.Element) *markup.Element {
	var res *markup.Element
	for _, c := range el.Children {
		switch c.Type {
		case markup.TextNode:
			if strings.TrimSpace(c.Text) != "" {
				return nil
			}
		case markup.ElementNode:
			if res != nil {
				return nil
			}
			res = c
		}
	}
	return res
}

// run is a decoded inline node: a run of text or an inline object.
type run struct {
	key   string
	text  string
	marks []string
	obj   *ir.Node
}

type inlineState struct {
	ps       *parseState
	blockKey string
	// key is the span key of the enclosing key wrapper.
	key      string
	runs     []*run
	markDefs *[]*ir.Node
}

// inline decodes the inline content of a block.  Adjacent text with the
// same marks and span key forms one span.  Spans without a key of their
// own are keyed by the block key and their position.
func (ps *parseState) inline(nodes []*markup.Element, blockKey string) (children, markDefs []*ir.Node) {
	mds := []*ir.Node{}
	is := &inlineState{ps: ps, blockKey: blockKey, markDefs: &mds}
	is.walk(nodes, nil)
	if len(is.runs) == 0 {
		is.runs = append(is.runs, &run{})
	}
	return is.nodes(), mds
}

func (is *inlineState) nodes() []*ir.Node {
	res := make([]*ir.Node, 0, len(is.runs))
	seen := map[string]bool{}
	for i, r := range is.runs {
		if r.obj != nil {
			res = append(res, r.obj)
			continue
		}
		key := r.key
		if key == "" || seen[key] {
			key = strconv.Itoa(i)
			if is.blockKey != "" {
				key = is.blockKey + "-" + key
			}
		}
		seen[key] = true
		res = append(res, ir.NewSpan(key, r.text, r.marks))
	}
	return res
}

func (is *inlineState) text(s string, marks []string) {
	if s == "" {
		return
	}
	if n := len(is.runs); n > 0 {
		last := is.runs[n-1]
		if last.obj == nil && last.key == is.key && slices.Equal(last.marks, marks) {
			last.text += s
			return
		}
	}
	is.runs = append(is.runs, &run{key: is.key, text: s, marks: slices.Clone(marks)})
}

// addMarkDef records md, keying it by the block key and its position if
// it has no key.
func (is *inlineState) addMarkDef(md *ir.Node) {
	if md.Key() == "" {
		key := "m" + strconv.Itoa(len(*is.markDefs))
		if is.blockKey != "" {
			key = is.blockKey + "-" + key
		}
		setKey(md, key)
	}
	for _, x := range *is.markDefs {
		if x.Key() == md.Key() {
			return
		}
	}
	*is.markDefs = append(*is.markDefs, md)
}

// setKey sets the _key of obj, after its _type.
func setKey(obj *ir.Node, key string) {
	if obj.Has(ir.KeyField) {
		obj.Set(ir.KeyField, ir.FromString(key))
		return
	}
	i := 0
	if len(obj.Fields) > 0 && obj.Fields[0] == ir.TypeField {
		i = 1
	}
	obj.InsertField(i, ir.KeyField, ir.FromString(key))
}

func (is *inlineState) walk(nodes []*markup.Element, marks []string) {
	for _, n := range nodes {
		if n.Type == markup.TextNode {
			is.text(normalize(n.Text), marks)
			continue
		}
		if n.Type != markup.ElementNode {
			continue
		}
		if r := is.ps.match(n); r != nil {
			is.add(is.ps.apply(r, n, is.next()), marks)
			continue
		}
		if n.Tag == "br" {
			is.text("\n", marks)
			continue
		}
		if k, ok := n.LookupAttr(encode.SpanKeyAttr); ok && n.Tag == "span" {
			outer := is.key
			is.key = k
			is.walk(n.Children, marks)
			is.key = outer
			continue
		}
		if m, ok := decorators[n.Tag]; ok {
			is.walk(n.Children, append(slices.Clone(marks), m))
			continue
		}
		is.walk(n.Children, marks)
	}
}

// add adds the result of a block rule under marks.
func (is *inlineState) add(y *ir.Node, marks []string) {
	if y == nil {
		return
	}
	switch {
	case y.TypeTag() == ir.AnnotationType:
		md := y.Get("markDef")
		inner := marks
		if md != nil && md.Type == ir.ObjectType {
			is.addMarkDef(md)
			inner = append(slices.Clone(marks), md.Key())
		}
		if cs := y.Get("children"); cs != nil {
			for _, c := range cs.Values {
				is.add(c, inner)
			}
		}
	case y.Kind() == ir.SpanKind:
		outer := is.key
		if k := y.Key(); k != "" {
			is.key = k
		}
		is.text(y.StringField("text"), append(slices.Clone(marks), y.Marks()...))
		is.key = outer
	case y.Type == ir.StringType:
		is.text(y.String, marks)
	default:
		is.runs = append(is.runs, &run{obj: y})
	}
}

// next returns the continuation given to block rules: it decodes child
// nodes into unmarked spans and inline objects, collecting mark
// definitions into the enclosing block.
func (is *inlineState) next() Next {
	return func(nodes []*markup.Element) []*ir.Node {
		sub := &inlineState{ps: is.ps, blockKey: is.blockKey, markDefs: is.markDefs}
		sub.walk(nodes, nil)
		res := make([]*ir.Node, 0, len(sub.runs))
		for _, r := range sub.runs {
			if r.obj != nil {
				res = append(res, r.obj)
				continue
			}
			res = append(res, ir.NewSpan(r.key, r.text, r.marks))
		}
		return res
	}
}

// next returns a continuation for rules applied to block level
// elements.
func (ps *parseState) next() Next {
	mds := []*ir.Node{}
	is := &inlineState{ps: ps, markDefs: &mds}
	return is.next()
}

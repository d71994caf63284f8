package parse

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
)

// Version is the newest wire format version understood.
const Version = 3

// defaultStyles maps block elements to block styles.
var defaultStyles = map[string]string{
	"p":          ir.StyleNormal,
	"h1":         "h1",
	"h2":         "h2",
	"h3":         "h3",
	"h4":         "h4",
	"h5":         "h5",
	"h6":         "h6",
	"blockquote": "blockquote",
}

type parseState struct {
	types    Deserializers
	rules    []BlockRule
	styles   map[string]string
	sanitize bool
	log      *slog.Logger
}

func newParseState(opts []ParseOption) *parseState {
	ps := &parseState{styles: defaultStyles}
	for _, opt := range opts {
		opt(ps)
	}
	if ps.log == nil {
		ps.log = slog.Default()
	}
	ps.rules = append(ps.rules, ps.defaultRules()...)
	return ps
}

// Parse decodes a serialized document.  Identity fields are taken from
// the document head.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	ps := newParseState(opts)
	if ps.sanitize {
		d = markup.Sanitize(d)
	}
	root, err := markup.Parse(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	body := root.Find("body")
	if body == nil {
		return nil, ErrNoBody
	}
	metas, err := ps.head(root.Find("head"))
	if err != nil {
		return nil, err
	}

	var res *ir.Node
	if el := body.FirstElement(); el != nil {
		res = ps.value(el)
	}
	if res == nil || res.Type != ir.ObjectType {
		ps.log.Warn("document body holds no object")
		res = ir.NewObject()
	}
	for _, f := range []string{ir.RevField, ir.IDField, ir.TypeField} {
		v, ok := metas[f]
		if !ok {
			continue
		}
		res.InsertField(0, f, ir.FromString(v))
	}
	if debug.Deserialize() {
		debug.Logf("deserialized %s:\n%v\n", res.ID(), res)
	}
	return res, nil
}

func (ps *parseState) head(h *markup.Element) (map[string]string, error) {
	metas := map[string]string{}
	if h == nil {
		ps.log.Warn("document has no head")
		return metas, nil
	}
	for _, el := range h.Elements() {
		if el.Tag != "meta" {
			continue
		}
		name, ok := el.LookupAttr("name")
		if !ok {
			continue
		}
		metas[name] = el.Attr("content")
	}
	if v, ok := metas["version"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n > Version {
			return nil, fmt.Errorf("%w: %q", ErrVersion, v)
		}
	}
	delete(metas, "version")
	return metas, nil
}

// value decodes an element standing for a field value or array item.
func (ps *parseState) value(el *markup.Element) *ir.Node {
	if el.Attr("data-level") == "field" || el.DataType() == "field" {
		inner := el.FirstElement()
		if inner == nil {
			return nil
		}
		return ps.value(inner)
	}
	if fn, ok := ps.types.Type(el.Class()); ok {
		return ps.call(fn, el)
	}
	switch el.DataType() {
	case "object":
		return ps.object(el)
	case "array":
		return ps.array(el)
	}
	if b := ps.loneBlock(el); b != nil {
		return b
	}
	ps.log.Warn("skipping unrecognized element", "tag", el.Tag, "class", el.Class())
	return nil
}

// loneBlock decodes a block standing alone as a field value.  A list
// block comes in a list of one item.
func (ps *parseState) loneBlock(el *markup.Element) *ir.Node {
	if el.Tag != "ul" && el.Tag != "ol" {
		return ps.block(el, "")
	}
	li := el.FirstElement()
	if li == nil || li.Tag != "li" {
		return nil
	}
	kind := ir.ListBullet
	if el.Tag == "ol" {
		kind = ir.ListNumber
	}
	return ps.block(li, kind)
}

// call runs a custom deserializer.  Errors and panics are logged and
// produce nothing.
func (ps *parseState) call(fn DeserializeFunc, el *markup.Element) (res *ir.Node) {
	defer func() {
		if r := recover(); r != nil {
			ps.log.Warn("deserializer panicked", "class", el.Class(), "id", el.ID(), "panic", r)
			res = nil
		}
	}()
	y, err := fn(el, &Context{ps: ps})
	if err != nil {
		ps.log.Warn("deserializer failed", "class", el.Class(), "id", el.ID(), "error", err)
		return nil
	}
	return y
}

// Context gives custom deserializers access to the default decoding.
type Context struct {
	ps *parseState
}

// Value decodes el as an object or array element.
func (c *Context) Value(el *markup.Element) *ir.Node {
	return c.ps.value(el)
}

// Object decodes the fields of an object element.
func (c *Context) Object(el *markup.Element) *ir.Node {
	return c.ps.object(el)
}

// Inline decodes inline markup into block children and the mark
// definitions they refer to.
func (c *Context) Inline(nodes []*markup.Element, blockKey string) (children, markDefs []*ir.Node) {
	return c.ps.inline(nodes, blockKey)
}

func (c *Context) Logger() *slog.Logger {
	return c.ps.log
}

// text returns the text below el with non-breaking spaces normalized.
func text(el *markup.Element) string {
	return normalize(el.TextContent())
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\u00a0", " ")
}

package ir

// List item kinds.
const (
	ListBullet = "bullet"
	ListNumber = "number"
)

// StyleNormal is the style of a plain paragraph.
const StyleNormal = "normal"

// AnnotationType tags the transient node a block rule returns to denote an
// annotation, a mark definition applied to the rule's children.
const AnnotationType = "__annotation"

// Block is a typed view of a rich text block object.
type Block struct {
	Key      string
	Style    string
	ListItem string
	Level    int
	Children []*Node
	MarkDefs []*Node
}

// AsBlock returns the block view of y, if y is a block.
func AsBlock(y *Node) (*Block, bool) {
	if y == nil || y.Kind() != BlockKind {
		return nil, false
	}
	b := &Block{
		Key:      y.Key(),
		Style:    y.StringField("style"),
		ListItem: y.StringField("listItem"),
	}
	if b.Style == "" {
		b.Style = StyleNormal
	}
	if lvl, ok := y.Get("level").Int(); ok {
		b.Level = int(lvl)
	}
	if cs := y.Get("children"); cs != nil && cs.Type == ArrayType {
		b.Children = cs.Values
	}
	if mds := y.Get("markDefs"); mds != nil && mds.Type == ArrayType {
		b.MarkDefs = mds.Values
	}
	return b, true
}

// MarkDef returns the mark definition with key k, or nil.
func (b *Block) MarkDef(k string) *Node {
	for _, md := range b.MarkDefs {
		if md.Key() == k {
			return md
		}
	}
	return nil
}

// Node builds the block object.  Children and mark definitions are
// attached, not copied.
func (b *Block) Node() *Node {
	res := FromKeyVals([]KeyVal{
		{Key: TypeField, Val: FromString(BlockType)},
	})
	if b.Key != "" {
		res.Set(KeyField, FromString(b.Key))
	}
	style := b.Style
	if style == "" {
		style = StyleNormal
	}
	res.Set("style", FromString(style))
	if b.ListItem != "" {
		res.Set("listItem", FromString(b.ListItem))
		lvl := b.Level
		if lvl == 0 {
			lvl = 1
		}
		res.Set("level", FromInt(int64(lvl)))
	}
	res.Set("markDefs", FromSlice(orEmpty(b.MarkDefs)))
	res.Set("children", FromSlice(orEmpty(b.Children)))
	return res
}

func orEmpty(ns []*Node) []*Node {
	if ns == nil {
		return []*Node{}
	}
	return ns
}

// NewSpan creates a span object.
func NewSpan(key, text string, marks []string) *Node {
	ms := make([]*Node, len(marks))
	for i, m := range marks {
		ms[i] = FromString(m)
	}
	res := FromKeyVals([]KeyVal{
		{Key: TypeField, Val: FromString(SpanType)},
	})
	if key != "" {
		res.Set(KeyField, FromString(key))
	}
	res.Set("text", FromString(text))
	res.Set("marks", FromSlice(ms))
	return res
}

// Marks returns the mark names of a span.
func (y *Node) Marks() []string {
	ms := y.Get("marks")
	if ms == nil || ms.Type != ArrayType {
		return nil
	}
	res := make([]string, 0, len(ms.Values))
	for _, m := range ms.Values {
		if m.Type == StringType {
			res = append(res, m.String)
		}
	}
	return res
}

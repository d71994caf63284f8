package ir

// Kind classifies a node by its role in translatable content.
type Kind int

const (
	// LeafKind is a null, number or boolean. Leaves are never translated.
	LeafKind Kind = iota
	// ScalarKind is a string.
	ScalarKind
	ObjectKind
	ArrayKind
	// BlockKind is an object with _type "block", a rich text paragraph.
	BlockKind
	// SpanKind is an object with _type "span", a run of text in a block.
	SpanKind
)

func (k Kind) String() string {
	switch k {
	case LeafKind:
		return "leaf"
	case ScalarKind:
		return "scalar"
	case ObjectKind:
		return "object"
	case ArrayKind:
		return "array"
	case BlockKind:
		return "block"
	case SpanKind:
		return "span"
	default:
		return "<unknown kind>"
	}
}

func (y *Node) Kind() Kind {
	switch y.Type {
	case StringType:
		return ScalarKind
	case ArrayType:
		return ArrayKind
	case ObjectType:
		switch y.TypeTag() {
		case BlockType:
			return BlockKind
		case SpanType:
			return SpanKind
		}
		return ObjectKind
	default:
		return LeafKind
	}
}

// IsText reports whether y is a block or a span, the nodes whose text
// content is replaced as a whole when merged.
func (y *Node) IsText() bool {
	k := y.Kind()
	return k == BlockKind || k == SpanKind
}

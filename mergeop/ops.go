package mergeop

import (
	"fmt"
	"strconv"

	"github.com/signadot/transdoc/ir"
)

type Kind int

const (
	Insert Kind = iota
	Replace
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Replace:
		return "replace"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Op inserts Item into the array at Path before Index, or replaces the
// item at Index.
type Op struct {
	Kind  Kind
	Path  string
	Index int
	Item  *ir.Node
}

func (o Op) String() string {
	return fmt.Sprintf("%s %s[%d] %s", o.Kind, o.Path, o.Index, o.Item.Key())
}

type Ops []Op

// JSONPatch renders ops as "add" and "replace" operations.
func (ops Ops) JSONPatch() ([]byte, error) {
	res := ir.NewArray()
	for _, o := range ops {
		segs, err := ir.ParseKPath(o.Path)
		if err != nil {
			return nil, err
		}
		ptr := segs.Append(ir.IndexSegment(o.Index)).JSONPointer()
		switch o.Kind {
		case Insert:
			res.Append(jsonOp("add", ptr, o.Item))
		case Replace:
			res.Append(jsonOp("replace", ptr, o.Item))
		default:
			return nil, fmt.Errorf("unknown op kind %s", o.Kind)
		}
	}
	return ir.ToJSON(res), nil
}

// Apply returns a copy of doc with ops applied in order.  Indices of
// later operations refer to the array as modified by earlier ones.
func (ops Ops) Apply(doc *ir.Node) (*ir.Node, error) {
	p, err := ops.JSONPatch()
	if err != nil {
		return nil, err
	}
	res, err := Apply(doc, p)
	if err != nil {
		return nil, fmt.Errorf("applying array ops to %s: %w", doc.ID(), err)
	}
	return res, nil
}

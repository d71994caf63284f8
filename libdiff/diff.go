// Package libdiff computes and prints the differences between documents.
package libdiff

import (
	"strconv"

	"github.com/signadot/transdoc/ir"
)

type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Changed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	}
	return "ChangeKind(" + strconv.Itoa(int(k)) + ")"
}

// Change is a difference at Path.  From is nil for additions and To is
// nil for removals.
type Change struct {
	Path string
	Kind ChangeKind
	From *ir.Node
	To   *ir.Node
}

// Diff returns the changes turning from into to.  Objects are compared
// by field.  Arrays whose items all have a _key are compared by key,
// other arrays by index.  Paths of array items are positions in to,
// except for removed items.
func Diff(from, to *ir.Node) []Change {
	var res []Change
	diff(&res, from, to, nil)
	return res
}

func diff(cs *[]Change, from, to *ir.Node, segs ir.Segments) {
	switch {
	case from == nil && to == nil:
		return
	case from == nil:
		*cs = append(*cs, Change{Path: segs.String(), Kind: Added, To: to})
		return
	case to == nil:
		*cs = append(*cs, Change{Path: segs.String(), Kind: Removed, From: from})
		return
	case from.Type != to.Type:
		*cs = append(*cs, Change{Path: segs.String(), Kind: Changed, From: from, To: to})
		return
	}
	switch from.Type {
	case ir.ObjectType:
		for i, f := range from.Fields {
			diff(cs, from.Values[i], to.Get(f), segs.Append(ir.FieldSegment(f)))
		}
		for i, f := range to.Fields {
			if !from.Has(f) {
				diff(cs, nil, to.Values[i], segs.Append(ir.FieldSegment(f)))
			}
		}
	case ir.ArrayType:
		if keyed(from) && keyed(to) {
			diffKeyed(cs, from, to, segs)
			return
		}
		n := max(len(from.Values), len(to.Values))
		for i := range n {
			var f, t *ir.Node
			if i < len(from.Values) {
				f = from.Values[i]
			}
			if i < len(to.Values) {
				t = to.Values[i]
			}
			diff(cs, f, t, segs.Append(ir.IndexSegment(i)))
		}
	default:
		if !ir.Equal(from, to) {
			*cs = append(*cs, Change{Path: segs.String(), Kind: Changed, From: from, To: to})
		}
	}
}

func diffKeyed(cs *[]Change, from, to *ir.Node, segs ir.Segments) {
	for i, f := range from.Values {
		if to.IndexOfKey(f.Key()) == -1 {
			diff(cs, f, nil, segs.Append(ir.IndexSegment(i)))
		}
	}
	for i, t := range to.Values {
		var f *ir.Node
		if j := from.IndexOfKey(t.Key()); j != -1 {
			f = from.Values[j]
		}
		diff(cs, f, t, segs.Append(ir.IndexSegment(i)))
	}
}

func keyed(arr *ir.Node) bool {
	if len(arr.Values) == 0 {
		return false
	}
	for _, v := range arr.Values {
		if v.Key() == "" {
			return false
		}
	}
	return true
}

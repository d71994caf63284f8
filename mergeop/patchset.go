package mergeop

import (
	"fmt"

	"github.com/signadot/transdoc/ir"
)

// SetPatch sets the value at Path.
type SetPatch struct {
	Path  string
	Value *ir.Node
}

// PatchSet is an ordered set of patches with distinct paths.
type PatchSet []SetPatch

// Set adds a patch, replacing any previous patch of path.
func (ps *PatchSet) Set(path string, v *ir.Node) {
	for i := range *ps {
		if (*ps)[i].Path == path {
			(*ps)[i].Value = v
			return
		}
	}
	*ps = append(*ps, SetPatch{Path: path, Value: v})
}

// Get returns the value set at path, or nil.
func (ps PatchSet) Get(path string) *ir.Node {
	for _, p := range ps {
		if p.Path == path {
			return p.Value
		}
	}
	return nil
}

func (ps PatchSet) Paths() []string {
	res := make([]string, len(ps))
	for i, p := range ps {
		res[i] = p.Path
	}
	return res
}

// Node renders ps as an object from path to value.
func (ps PatchSet) Node() *ir.Node {
	kvs := make([]ir.KeyVal, len(ps))
	for i, p := range ps {
		kvs[i] = ir.KeyVal{Key: p.Path, Val: p.Value.Clone()}
	}
	return ir.FromKeyVals(kvs)
}

// JSONPatch renders ps as "add" operations.  Patches of document
// identity fields are left out.
func (ps PatchSet) JSONPatch() ([]byte, error) {
	ops := ir.NewArray()
	for _, p := range ps {
		if ir.IsMetaField(p.Path) {
			continue
		}
		segs, err := ir.ParseKPath(p.Path)
		if err != nil {
			return nil, err
		}
		ops.Append(jsonOp("add", segs.JSONPointer(), p.Value))
	}
	return ir.ToJSON(ops), nil
}

// Apply returns a copy of doc with ps applied.
func (ps PatchSet) Apply(doc *ir.Node) (*ir.Node, error) {
	p, err := ps.JSONPatch()
	if err != nil {
		return nil, err
	}
	res, err := Apply(doc, p)
	if err != nil {
		return nil, fmt.Errorf("applying field patches to %s: %w", doc.ID(), err)
	}
	return res, nil
}

func jsonOp(op, path string, v *ir.Node) *ir.Node {
	kvs := []ir.KeyVal{
		{Key: "op", Val: ir.FromString(op)},
		{Key: "path", Val: ir.FromString(path)},
	}
	if v != nil {
		kvs = append(kvs, ir.KeyVal{Key: "value", Val: v.Clone()})
	}
	return ir.FromKeyVals(kvs)
}

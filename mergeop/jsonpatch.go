package mergeop

import (
	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/ir"

	jsonpatch "github.com/evanphx/json-patch"
)

// Apply applies the RFC 6902 patch p to a copy of doc.
func Apply(doc *ir.Node, p []byte) (*ir.Node, error) {
	if debug.Patch() {
		debug.Logf("json patch on %s: %s\n", doc.ID(), p)
	}
	ops, err := jsonpatch.DecodePatch(p)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(ir.ToJSON(doc))
	if err != nil {
		return nil, err
	}
	return ir.FromJSON(out)
}

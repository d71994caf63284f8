package debug

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/transdoc/ir"

	j "github.com/goccy/go-json"
)

var out io.Writer = os.Stderr

// Logf writes a debug line.  Nodes, maps and slices are rendered as
// indented JSON, so format them with %v.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any:
			d, err := j.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *ir.Node:
			if x == nil {
				args[i] = "<nil>"
				continue
			}
			args[i] = string(ir.ToJSONIndent(x, "  "))
		default:
		}
	}
	fmt.Fprintf(out, msg, args...)
}

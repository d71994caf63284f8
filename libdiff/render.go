package libdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/transdoc/ir"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Colors struct {
	Added   func(string, ...any) string
	Removed func(string, ...any) string
	Path    func(string, ...any) string
}

func NewColors() *Colors {
	c := &Colors{
		Added:   color.RGB(8, 196, 16).SprintfFunc(),
		Removed: color.RGB(196, 32, 32).SprintfFunc(),
		Path:    color.RGB(128, 168, 196).SprintfFunc(),
	}
	for _, f := range []*func(string, ...any) string{&c.Added, &c.Removed, &c.Path} {
		g := *f
		*f = func(v string, _ ...any) string {
			return g(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return c
}

// NoColors marks up changes without terminal escapes.
func NoColors() *Colors {
	return &Colors{Added: colorDefault, Removed: colorDefault, Path: colorDefault}
}

func colorDefault(v string, _ ...any) string { return v }

// Render writes one line per change.  Changed strings are shown as word
// level diffs with deletions in [-...-] and insertions in {+...+}.
func Render(w io.Writer, changes []Change, c *Colors) error {
	if c == nil {
		c = NoColors()
	}
	for _, ch := range changes {
		var line string
		path := c.Path(ch.Path)
		switch ch.Kind {
		case Added:
			line = c.Added("+ ") + path + ": " + c.Added(value(ch.To))
		case Removed:
			line = c.Removed("- ") + path + ": " + c.Removed(value(ch.From))
		default:
			line = "~ " + path + ": " + changed(ch.From, ch.To, c)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func value(y *ir.Node) string {
	return string(ir.ToJSON(y))
}

func changed(from, to *ir.Node, c *Colors) string {
	if from.Type != ir.StringType || to.Type != ir.StringType {
		return c.Removed(value(from)) + " -> " + c.Added(value(to))
	}
	buf := &strings.Builder{}
	for _, d := range StringDiff(from.String, to.String) {
		switch d.Type {
		case diffpatch.DiffEqual:
			buf.WriteString(d.Text)
		case diffpatch.DiffDelete:
			buf.WriteString(c.Removed("[-" + d.Text + "-]"))
		case diffpatch.DiffInsert:
			buf.WriteString(c.Added("{+" + d.Text + "+}"))
		}
	}
	return buf.String()
}

// StringDiff diffs two strings, with the edits merged for readability.
func StringDiff(from, to string) []diffpatch.Diff {
	dmp := diffpatch.New()
	multiLine := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	diffs := dmp.DiffMain(from, to, multiLine)
	return dmp.DiffCleanupSemantic(diffs)
}

// Package rules declares block rules in YAML.  Each rule has an expr
// predicate over the element it is tried on and builds either an inline
// object or an annotation:
//
//	rules:
//	- name: highlight
//	  match: tag == "mark"
//	  kind: annotation
//	  type: highlight
//	  attrs: [data-color]
//	- name: figure
//	  match: tag == "figure" && "wide" in classes
//	  kind: object
//	  type: figure
//	  field: caption
//
// The predicate sees tag, class, classes, id, dataType, attrs and text.
package rules

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
	"github.com/signadot/transdoc/parse"
)

var ErrRule = errors.New("rule error")

type Kind string

const (
	ObjectKind     Kind = "object"
	AnnotationKind Kind = "annotation"
)

// Spec is a rule as declared.
type Spec struct {
	Name  string `json:"name"`
	Match string `json:"match"`
	Kind  Kind   `json:"kind"`
	// Type is the _type of the built object or mark definition.
	Type string `json:"type"`
	// Field holds the element text of an object.  Defaults to "text".
	Field string `json:"field,omitempty"`
	// Attrs are element attributes copied into the mark definition.
	Attrs []string `json:"attrs,omitempty"`
}

type file struct {
	Rules []Spec `json:"rules"`
}

// Parse reads rule declarations.
func Parse(d []byte) ([]Spec, error) {
	f := &file{}
	if err := yaml.Unmarshal(d, f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRule, err)
	}
	return f.Rules, nil
}

// Compile reads and compiles rule declarations.
func Compile(d []byte) ([]parse.BlockRule, error) {
	specs, err := Parse(d)
	if err != nil {
		return nil, err
	}
	res := make([]parse.BlockRule, 0, len(specs))
	for i := range specs {
		r, err := specs[i].Compile()
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}

func Load(path string) ([]parse.BlockRule, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rs, err := Compile(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Compile compiles s into a block rule.
func (s *Spec) Compile() (parse.BlockRule, error) {
	name := s.Name
	if name == "" {
		name = s.Type
	}
	if s.Type == "" {
		return parse.BlockRule{}, fmt.Errorf("%w: rule %q has no type", ErrRule, name)
	}
	prg, err := expr.Compile(s.Match, expr.Env(env(nil)), expr.AsBool())
	if err != nil {
		return parse.BlockRule{}, fmt.Errorf("%w: rule %q: %w", ErrRule, name, err)
	}
	r := parse.BlockRule{
		Name:  name,
		Match: matcher(name, prg),
	}
	switch s.Kind {
	case ObjectKind, "":
		r.Deserialize = s.object
	case AnnotationKind:
		r.Deserialize = s.annotation
	default:
		return parse.BlockRule{}, fmt.Errorf("%w: rule %q has unknown kind %q", ErrRule, name, s.Kind)
	}
	return r, nil
}

func matcher(name string, prg *vm.Program) func(*markup.Element) bool {
	return func(el *markup.Element) bool {
		if el.Type != markup.ElementNode {
			return false
		}
		res, err := expr.Run(prg, env(el))
		if err != nil {
			if debug.Deserialize() {
				debug.Logf("rule %s on <%s>: %v\n", name, el.Tag, err)
			}
			return false
		}
		ok, _ := res.(bool)
		return ok
	}
}

// env is the predicate environment of el.  A nil el gives the zero
// environment used for type checking.
func env(el *markup.Element) map[string]any {
	m := map[string]any{
		"tag":      "",
		"class":    "",
		"classes":  []string{},
		"id":       "",
		"dataType": "",
		"attrs":    map[string]string{},
		"text":     "",
	}
	if el == nil {
		return m
	}
	attrs := make(map[string]string, len(el.Attrs))
	for _, a := range el.Attrs {
		attrs[a.Key] = a.Val
	}
	m["tag"] = el.Tag
	m["class"] = el.Class()
	m["classes"] = strings.Fields(el.Class())
	m["id"] = el.ID()
	m["dataType"] = el.DataType()
	m["attrs"] = attrs
	m["text"] = el.TextContent()
	return m
}

func (s *Spec) object(el *markup.Element, _ parse.Next) (*ir.Node, error) {
	field := s.Field
	if field == "" {
		field = "text"
	}
	kvs := []ir.KeyVal{{Key: ir.TypeField, Val: ir.FromString(s.Type)}}
	if id := el.ID(); id != "" {
		kvs = append(kvs, ir.KeyVal{Key: ir.KeyField, Val: ir.FromString(id)})
	}
	kvs = append(kvs, ir.KeyVal{Key: field, Val: ir.FromString(el.TextContent())})
	return ir.FromKeyVals(kvs), nil
}

// annotation builds a mark definition keyed by the element id.  Without
// an id, the enclosing block assigns the key.
func (s *Spec) annotation(el *markup.Element, next parse.Next) (*ir.Node, error) {
	md := ir.FromKeyVals([]ir.KeyVal{{Key: ir.TypeField, Val: ir.FromString(s.Type)}})
	if id := el.ID(); id != "" {
		md.Set(ir.KeyField, ir.FromString(id))
	}
	for _, a := range s.Attrs {
		if v, ok := el.LookupAttr(a); ok {
			md.Set(a, ir.FromString(v))
		}
	}
	return parse.Annotation(md, next(el.Children)), nil
}

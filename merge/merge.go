// Package merge reconciles translated documents with the documents they
// were serialized from.
//
// The base document is authoritative for structure.  Translated strings
// overwrite base strings, objects merge field by field and arrays of
// objects merge item by item, matched by _key.  Translated items whose
// key is missing from the base are dropped, and rich text blocks and
// spans are replaced whole.  Base documents are never modified.
package merge

import (
	"log/slog"

	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/ir"
)

type Merger struct {
	log *slog.Logger
}

type Option func(*Merger)

func WithLogger(l *slog.Logger) Option {
	return func(m *Merger) { m.log = l }
}

func New(opts ...Option) *Merger {
	m := &Merger{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Merger) logger() *slog.Logger {
	if m == nil || m.log == nil {
		return slog.Default()
	}
	return m.log
}

var std = New()

// DocumentLevel returns base with the content of translated merged in.
func (m *Merger) DocumentLevel(translated, base *ir.Node) *ir.Node {
	return m.ReconcileObject(base, translated)
}

// ReconcileObject returns a copy of base with the truthy, non internal
// fields of translated merged in.  Strings overwrite, arrays and objects
// are reconciled recursively and other values are ignored.  A base which
// is not an object is replaced by one.
func (m *Merger) ReconcileObject(base, translated *ir.Node) *ir.Node {
	if translated == nil || translated.Type != ir.ObjectType || len(translated.Fields) == 0 {
		if base == nil {
			return ir.NewObject()
		}
		return base.Clone()
	}
	res := ir.NewObject()
	if base != nil && base.Type == ir.ObjectType {
		res = base.Clone()
	}
	for i, k := range translated.Fields {
		v := translated.Values[i]
		if ir.IsInternal(k) || !ir.Truth(v) {
			continue
		}
		switch v.Type {
		case ir.StringType:
			res.Set(k, v.Clone())
		case ir.ArrayType:
			res.Set(k, m.ReconcileArray(res.Get(k), v))
		case ir.ObjectType:
			res.Set(k, m.ReconcileObject(res.Get(k), v))
		default:
			if debug.Merge() {
				debug.Logf("merge: ignoring %s value at %s\n", v.Type, v.Path())
			}
		}
	}
	return res
}

// ReconcileArray returns a copy of base with the keyed items of
// translated merged into the base items of the same key.  A translated
// array holding bare strings has no identities to merge by and replaces
// base.
func (m *Merger) ReconcileArray(base, translated *ir.Node) *ir.Node {
	res := ir.NewArray()
	if base != nil && base.Type == ir.ArrayType {
		res = base.Clone()
	}
	if translated == nil || translated.Type != ir.ArrayType {
		return res
	}
	for _, item := range translated.Values {
		if item.Type == ir.StringType {
			return translated.Clone()
		}
	}
	for _, item := range translated.Values {
		key := item.Key()
		if key == "" {
			if debug.Merge() {
				debug.Logf("merge: skipping unkeyed item %s\n", item.Path())
			}
			continue
		}
		i := res.IndexOfKey(key)
		if i == -1 {
			m.logger().Warn("translated item no longer exists in base, was it removed?",
				"key", key, "type", item.TypeTag(), "path", item.Path())
			continue
		}
		switch orig := res.Values[i]; orig.Kind() {
		case ir.BlockKind, ir.SpanKind:
			res.Replace(i, item.Clone())
		case ir.ArrayKind:
			res.Replace(i, m.ReconcileArray(orig, item))
		default:
			res.Replace(i, m.ReconcileObject(orig, item))
		}
	}
	return res
}

// value reconciles a value found in a translated locale slot with its
// base counterpart.  It returns nil for values which merge to nothing.
func (m *Merger) value(base, translated *ir.Node) *ir.Node {
	if translated == nil {
		return nil
	}
	switch translated.Type {
	case ir.StringType:
		return translated.Clone()
	case ir.ArrayType:
		return m.ReconcileArray(base, translated)
	case ir.ObjectType:
		return m.ReconcileObject(base, translated)
	}
	return nil
}

func DocumentLevel(translated, base *ir.Node) *ir.Node {
	return std.DocumentLevel(translated, base)
}

func ReconcileObject(base, translated *ir.Node) *ir.Node {
	return std.ReconcileObject(base, translated)
}

func ReconcileArray(base, translated *ir.Node) *ir.Node {
	return std.ReconcileArray(base, translated)
}

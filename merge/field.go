package merge

import (
	"strings"

	"github.com/signadot/transdoc/filter"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/mergeop"
)

// FieldLevel merges the locale objects of translated, the objects with a
// baseLocale field, into their base counterparts.  Each reconciled
// baseLocale value becomes a patch of the targetLocale field of the base
// locale object.  Patch paths address base positions: array items are
// matched by _key, or by index when unkeyed.  Dashes in targetLocale
// become underscores.  The _rev, _id and _type fields of translated are
// passed through.
func (m *Merger) FieldLevel(translated, base *ir.Node, targetLocale, baseLocale string) mergeop.PatchSet {
	ps := mergeop.PatchSet{}
	if translated == nil || translated.Type != ir.ObjectType {
		return ps
	}
	for _, f := range []string{ir.RevField, ir.IDField, ir.TypeField} {
		if v := translated.Get(f); v != nil {
			ps.Set(f, v.Clone())
		}
	}
	fs := &fieldState{
		m:          m,
		ps:         &ps,
		baseLocale: baseLocale,
		locale:     strings.ReplaceAll(targetLocale, "-", "_"),
	}
	fs.walk(translated, base, nil)
	return ps
}

func FieldLevel(translated, base *ir.Node, targetLocale, baseLocale string) mergeop.PatchSet {
	return std.FieldLevel(translated, base, targetLocale, baseLocale)
}

type fieldState struct {
	m          *Merger
	ps         *mergeop.PatchSet
	baseLocale string
	locale     string
}

func (fs *fieldState) walk(t, b *ir.Node, segs ir.Segments) {
	switch t.Type {
	case ir.ObjectType:
		if len(segs) != 0 && filter.IsLocaleObject(t, fs.baseLocale) {
			fs.localeObject(t, b, segs)
			return
		}
		for i, k := range t.Fields {
			if ir.IsInternal(k) {
				continue
			}
			fs.walk(t.Values[i], field(b, k), segs.Append(ir.FieldSegment(k)))
		}
	case ir.ArrayType:
		for j, item := range t.Values {
			if item.Type != ir.ObjectType {
				continue
			}
			bi := matchIndex(b, item, j)
			if bi == -1 {
				fs.m.logger().Warn("translated item no longer exists in base, was it removed?",
					"key", item.Key(), "path", segs.Append(ir.IndexSegment(j)).String())
				continue
			}
			fs.walk(item, b.Values[bi], segs.Append(ir.IndexSegment(bi)))
		}
	}
}

func (fs *fieldState) localeObject(t, b *ir.Node, segs ir.Segments) {
	if b == nil || b.Type != ir.ObjectType {
		fs.m.logger().Warn("translated field no longer exists in base", "path", segs.String())
		return
	}
	v := fs.m.value(b.Get(fs.baseLocale), t.Get(fs.baseLocale))
	if v == nil {
		return
	}
	fs.ps.Set(segs.Append(ir.FieldSegment(fs.locale)).String(), v)
}

func field(y *ir.Node, k string) *ir.Node {
	if y == nil || y.Type != ir.ObjectType {
		return nil
	}
	return y.Get(k)
}

// matchIndex returns the index of the item of base matching the j'th
// translated item: the one with the same _key, or the j'th one if item
// has no key.
func matchIndex(base, item *ir.Node, j int) int {
	if base == nil || base.Type != ir.ArrayType {
		return -1
	}
	if k := item.Key(); k != "" {
		return base.IndexOfKey(k)
	}
	if j < len(base.Values) {
		return j
	}
	return -1
}

package merge

import (
	"errors"
	"fmt"

	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/filter"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/mergeop"
)

var ErrPosition = errors.New("invalid insert position")

// Position is where a new locale entry goes in a locale array.
type Position int

const (
	AfterBase Position = iota
	BeforeBase
	First
	Last
)

var positionNames = []string{"after", "before", "first", "last"}

func (p Position) String() string {
	if p < 0 || int(p) >= len(positionNames) {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

func ParsePosition(s string) (Position, error) {
	for i, n := range positionNames {
		if n == s {
			return Position(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrPosition, s)
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(d []byte) error {
	v, err := ParsePosition(string(d))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// index returns the insert index in an array of n items whose base
// locale entry is at bi.
func (p Position) index(bi, n int) int {
	switch p {
	case BeforeBase:
		return bi
	case First:
		return 0
	case Last:
		return n
	}
	return bi + 1
}

// LocaleArray merges the locale arrays of translated, arrays holding
// one {_key: locale, value} entry per locale, into base.  For each, the
// baseLocale entry value is reconciled with that of base and yields a
// targetLocale entry which replaces the existing one or is inserted at
// pos.
func (m *Merger) LocaleArray(translated, base *ir.Node, targetLocale, baseLocale string, pos Position) mergeop.Ops {
	ls := &localeState{m: m, baseLocale: baseLocale, locale: targetLocale, pos: pos}
	if translated != nil {
		ls.walk(translated, base, nil)
	}
	return ls.ops
}

func LocaleArray(translated, base *ir.Node, targetLocale, baseLocale string, pos Position) mergeop.Ops {
	return std.LocaleArray(translated, base, targetLocale, baseLocale, pos)
}

type localeState struct {
	m          *Merger
	baseLocale string
	locale     string
	pos        Position
	ops        mergeop.Ops
}

func (ls *localeState) walk(t, b *ir.Node, segs ir.Segments) {
	switch t.Type {
	case ir.ObjectType:
		for i, k := range t.Fields {
			if ir.IsInternal(k) {
				continue
			}
			ls.walk(t.Values[i], field(b, k), segs.Append(ir.FieldSegment(k)))
		}
	case ir.ArrayType:
		if filter.IsLocaleArray(t, ls.baseLocale) {
			ls.localeArray(t, b, segs)
			return
		}
		for j, item := range t.Values {
			if item.Type != ir.ObjectType {
				continue
			}
			bi := matchIndex(b, item, j)
			if bi == -1 {
				ls.m.logger().Warn("translated item no longer exists in base, was it removed?",
					"key", item.Key(), "path", segs.Append(ir.IndexSegment(j)).String())
				continue
			}
			ls.walk(item, b.Values[bi], segs.Append(ir.IndexSegment(bi)))
		}
	}
}

func (ls *localeState) localeArray(t, b *ir.Node, segs ir.Segments) {
	path := segs.String()
	bi := b.IndexOfKey(ls.baseLocale)
	if bi == -1 {
		ls.m.logger().Warn("locale array no longer has a base locale entry", "path", path, "locale", ls.baseLocale)
		return
	}
	orig := b.Values[bi]
	v := ls.m.value(orig.Get("value"), t.Values[t.IndexOfKey(ls.baseLocale)].Get("value"))
	if v == nil {
		return
	}
	item := orig.Clone()
	item.Set(ir.KeyField, ir.FromString(ls.locale))
	item.Set("value", v)

	op := mergeop.Op{Kind: mergeop.Replace, Path: path, Item: item}
	if ti := b.IndexOfKey(ls.locale); ti != -1 {
		op.Index = ti
	} else {
		op.Kind = mergeop.Insert
		op.Index = ls.pos.index(bi, len(b.Values))
	}
	if debug.Merge() {
		debug.Logf("merge: %s\n", op)
	}
	ls.ops = append(ls.ops, op)
}

package filter

import (
	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/ir"
)

// LanguageObjects reduces doc to its locale objects, the objects holding
// one field per locale, keeping only the baseLocale field of each.  Locale
// objects are found at any depth, including inside arrays of objects.
func LanguageObjects(doc *ir.Node, baseLocale string) *ir.Node {
	res := ir.NewObject()
	copyMeta(res, doc)
	for i, k := range doc.Fields {
		if ir.IsMetaField(k) {
			continue
		}
		if v := languageValue(doc.Values[i], baseLocale); v != nil {
			res.Set(k, v)
		}
	}
	return res
}

// IsLocaleObject reports whether y is an object with a truthy
// baseLocale field.
func IsLocaleObject(y *ir.Node, baseLocale string) bool {
	return y.Type == ir.ObjectType && ir.Truth(y.Get(baseLocale))
}

func languageValue(v *ir.Node, baseLocale string) *ir.Node {
	switch v.Type {
	case ir.ObjectType:
		if IsLocaleObject(v, baseLocale) {
			lo := ir.NewObject()
			copyMeta(lo, v)
			lo.Set(baseLocale, v.Get(baseLocale).Clone())
			if debug.Filter() {
				debug.Logf("filter: locale object at %s\n", v.Path())
			}
			return lo
		}
		if v.Kind() != ir.ObjectKind {
			return nil
		}
		nested := LanguageObjects(v, baseLocale)
		if !hasContent(nested) {
			return nil
		}
		return nested
	case ir.ArrayType:
		var items []*ir.Node
		for _, item := range v.Values {
			if item.Kind() == ir.BlockKind {
				items = append(items, item.Clone())
				continue
			}
			if fv := languageValue(item, baseLocale); fv != nil {
				items = append(items, fv)
			}
		}
		if len(items) == 0 {
			return nil
		}
		return ir.FromSlice(items)
	default:
		return nil
	}
}

// IsLocaleArray reports whether y stores one entry per locale: a
// non-empty array of objects each with a _key and a value, one of which
// is keyed baseLocale.
func IsLocaleArray(y *ir.Node, baseLocale string) bool {
	if y.Type != ir.ArrayType || len(y.Values) == 0 {
		return false
	}
	found := false
	for _, item := range y.Values {
		if item.Type != ir.ObjectType || item.Key() == "" || !item.Has("value") {
			return false
		}
		if item.Key() == baseLocale {
			found = true
		}
	}
	return found
}

// LocaleArrays reduces doc to its locale arrays, keeping only the
// baseLocale entry of each.
func LocaleArrays(doc *ir.Node, baseLocale string) *ir.Node {
	res := ir.NewObject()
	copyMeta(res, doc)
	for i, k := range doc.Fields {
		if ir.IsMetaField(k) {
			continue
		}
		if v := localeArrayValue(doc.Values[i], baseLocale); v != nil {
			res.Set(k, v)
		}
	}
	return res
}

func localeArrayValue(v *ir.Node, baseLocale string) *ir.Node {
	switch v.Type {
	case ir.ArrayType:
		if IsLocaleArray(v, baseLocale) {
			entry := v.Values[v.IndexOfKey(baseLocale)]
			if !ir.Truth(entry.Get("value")) {
				return nil
			}
			if debug.Filter() {
				debug.Logf("filter: locale array at %s\n", v.Path())
			}
			return ir.FromSlice([]*ir.Node{entry.Clone()})
		}
		var items []*ir.Node
		for _, item := range v.Values {
			if item.Kind() != ir.ObjectKind {
				continue
			}
			if fv := localeArrayValue(item, baseLocale); fv != nil {
				items = append(items, fv)
			}
		}
		if len(items) == 0 {
			return nil
		}
		return ir.FromSlice(items)
	case ir.ObjectType:
		if v.Kind() != ir.ObjectKind {
			return nil
		}
		nested := LocaleArrays(v, baseLocale)
		if !hasContent(nested) {
			return nil
		}
		return nested
	default:
		return nil
	}
}

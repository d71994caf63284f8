package transdoc

import (
	"context"
	"errors"
	"fmt"

	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/encode"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/merge"
	"github.com/signadot/transdoc/mergeop"
	"github.com/signadot/transdoc/store"
)

// LangField records the locale of a document level translation.
const LangField = "_lang"

// Patcher merges translated documents into the documents of a store.
type Patcher struct {
	Store  *store.Store
	Merger *merge.Merger
}

func NewPatcher(s *store.Store, m *merge.Merger) *Patcher {
	if m == nil {
		m = merge.New()
	}
	return &Patcher{Store: s, Merger: m}
}

// Target names the locales a translation goes from and to.
type Target struct {
	Locale     string
	BaseLocale string
	// Position places new entries of locale arrays.
	Position merge.Position
}

// TranslationID is the id of the document level translation of id into
// locale.
func TranslationID(id, locale string) string {
	return "i18n." + id + "." + locale
}

// Patch merges translated into document id at level l and returns the
// stored revision.
func (p *Patcher) Patch(ctx context.Context, l encode.Level, translated *ir.Node, id string, t Target) (string, error) {
	switch l {
	case encode.DocumentLevel:
		return p.DocumentLevelPatch(ctx, translated, id, t.Locale)
	case encode.FieldLevel:
		return p.FieldLevelPatch(ctx, translated, id, t.Locale, t.BaseLocale)
	case encode.LocaleArrayLevel:
		return p.LocaleArrayPatch(ctx, translated, id, t.Locale, t.BaseLocale, t.Position)
	}
	return "", fmt.Errorf("%w: %d", encode.ErrBadLevel, l)
}

// base returns the document translated was serialized from: the revision
// it names, or else the latest draft of id.
func (p *Patcher) base(ctx context.Context, translated *ir.Node, id string) (*ir.Node, error) {
	rev := translated.Rev()
	if rev == "" {
		return p.Store.LatestDraft(ctx, id)
	}
	doc, err := p.Store.AtRevision(ctx, id, rev)
	if errors.Is(err, store.ErrNotFound) {
		// the revision may belong to the draft
		return p.Store.AtRevision(ctx, store.DraftPrefix+id, rev)
	}
	return doc, err
}

// FieldLevelPatch sets the locale fields of document id to the
// translations of their base locale fields.
func (p *Patcher) FieldLevelPatch(ctx context.Context, translated *ir.Node, id, locale, baseLocale string) (string, error) {
	base, err := p.base(ctx, translated, id)
	if err != nil {
		return "", err
	}
	ps := p.Merger.FieldLevel(translated, base, locale, baseLocale)
	if debug.Patch() {
		debug.Logf("field patch of %s:\n%v\n", base.ID(), ps.Node())
	}
	return p.Store.Commit(ctx, base.ID(), ps)
}

// LocaleArrayPatch adds or replaces the locale entries of the locale
// arrays of document id.
func (p *Patcher) LocaleArrayPatch(ctx context.Context, translated *ir.Node, id, locale, baseLocale string, pos merge.Position) (string, error) {
	base, err := p.base(ctx, translated, id)
	if err != nil {
		return "", err
	}
	ops := p.Merger.LocaleArray(translated, base, locale, baseLocale, pos)
	if len(ops) == 0 {
		return base.Rev(), nil
	}
	return p.Store.ApplyOps(ctx, base.ID(), ops)
}

// DocumentLevelPatch stores the translation of document id into locale
// as a document of its own.  An existing translation has its translated
// fields replaced.  Otherwise a draft translation is created.
func (p *Patcher) DocumentLevelPatch(ctx context.Context, translated *ir.Node, id, locale string) (string, error) {
	targetID := TranslationID(id, locale)
	i18n, err := p.Store.LatestDraft(ctx, targetID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	var base *ir.Node
	if translated.Rev() != "" {
		base, err = p.base(ctx, translated, id)
	} else {
		base, err = p.Store.LatestDraft(ctx, id)
		if errors.Is(err, store.ErrNotFound) && i18n != nil {
			base, err = i18n, nil
		}
	}
	if err != nil {
		return "", err
	}

	merged := p.Merger.DocumentLevel(translated, base)
	if i18n != nil {
		ps := mergeop.PatchSet{}
		for _, k := range translated.Fields {
			if ir.IsInternal(k) || !merged.Has(k) {
				continue
			}
			ps.Set(ir.Segments{ir.FieldSegment(k)}.String(), merged.Get(k))
		}
		return p.Store.Commit(ctx, i18n.ID(), ps)
	}
	merged.Set(ir.IDField, ir.FromString(store.DraftPrefix+targetID))
	merged.Set(LangField, ir.FromString(locale))
	merged.Delete(ir.RevField)
	return p.Store.Create(ctx, merged)
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/transdoc"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/store"

	"github.com/scott-cotton/cli"
)

func storePut(cfg *StorePutConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Put.Parse(cc, args)
	if err != nil {
		cfg.Put.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	s, err := cfg.open()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()
	put := s.Put
	if cfg.Create {
		put = s.Create
	}
	for _, arg := range inputs(args) {
		doc, err := getDocFile(cc, arg)
		if err != nil {
			return err
		}
		rev, err := put(ctx, doc)
		if err != nil {
			return fmt.Errorf("error storing %s: %w", arg, err)
		}
		fmt.Fprintf(cc.Out, "%s\t%s\n", doc.ID(), rev)
	}
	return nil
}

func storeGet(cfg *StoreGetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: get requires one argument, a document id", cli.ErrUsage)
	}
	if count(cfg.Rev != "", cfg.Draft, cfg.Revs) > 1 {
		return fmt.Errorf("%w: must specify at most one of -rev -draft -revs", cli.ErrUsage)
	}
	s, err := cfg.open()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()
	id := args[0]
	if cfg.Revs {
		revs, err := s.Revisions(ctx, id)
		if err != nil {
			return err
		}
		if len(revs) == 0 {
			return fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		_, err = io.WriteString(cc.Out, strings.Join(revs, "\n")+"\n")
		return err
	}
	var doc *ir.Node
	switch {
	case cfg.Rev != "":
		doc, err = s.AtRevision(ctx, id, cfg.Rev)
	case cfg.Draft:
		doc, err = s.LatestDraft(ctx, id)
	default:
		doc, err = s.Get(ctx, id)
	}
	if err != nil {
		return err
	}
	return writeDoc(cfg.MainConfig, cc.Out, doc)
}

func storePatch(cfg *StorePatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: patch requires one argument, a translation", cli.ErrUsage)
	}
	if cfg.Locale == "" {
		return fmt.Errorf("%w: -locale is required", cli.ErrUsage)
	}
	c, err := cfg.config()
	if err != nil {
		return err
	}
	pos, err := cfg.position(cfg.Position)
	if err != nil {
		return err
	}
	translated, err := getTranslated(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	id := cfg.ID
	if id == "" {
		id = strings.TrimPrefix(translated.ID(), store.DraftPrefix)
	}
	if id == "" {
		return fmt.Errorf("%w: %s has no _id, use -id", cli.ErrUsage, args[0])
	}
	s, err := cfg.open()
	if err != nil {
		return err
	}
	defer s.Close()

	p := transdoc.NewPatcher(s, cfg.merger())
	rev, err := p.Patch(context.Background(), c.EncodeLevel(), translated, id, transdoc.Target{
		Locale:     cfg.Locale,
		BaseLocale: c.BaseLocale,
		Position:   pos,
	})
	if err != nil {
		return fmt.Errorf("error patching %s: %w", id, err)
	}
	fmt.Fprintln(cc.Out, rev)
	return nil
}

func count(vs ...bool) int {
	ttl := 0
	for _, v := range vs {
		if v {
			ttl++
		}
	}
	return ttl
}

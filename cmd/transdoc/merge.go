package main

import (
	"fmt"

	"github.com/signadot/transdoc/config"
	"github.com/signadot/transdoc/encode"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/libdiff"

	"github.com/scott-cotton/cli"
)

func mergeDocs(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		cfg.Merge.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: merge requires 2 args, got %v", cli.ErrUsage, args)
	}
	if cfg.Diff && cfg.Patch {
		return fmt.Errorf("%w: must specify at most one of -d -p", cli.ErrUsage)
	}
	c, err := cfg.config()
	if err != nil {
		return err
	}
	translated, err := getTranslated(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	base, err := getDocFile(cc, args[1])
	if err != nil {
		return err
	}
	res, patch, err := cfg.merge(c, translated, base)
	if err != nil {
		return err
	}
	switch {
	case cfg.Patch:
		d, err := patch()
		if err != nil {
			return err
		}
		_, err = cc.Out.Write(append(d, '\n'))
		return err
	case cfg.Diff:
		return libdiff.Render(cc.Out, libdiff.Diff(base, res), cfg.colors(cc.Out))
	default:
		return writeDoc(cfg.MainConfig, cc.Out, res)
	}
}

// merge returns the merged document and a function producing the JSON
// patch from base to it, nil at document level.
func (cfg *MergeConfig) merge(c *config.Config, translated, base *ir.Node) (*ir.Node, func() ([]byte, error), error) {
	m := cfg.merger()
	level := c.EncodeLevel()
	if level == encode.DocumentLevel {
		if cfg.Patch {
			return nil, nil, fmt.Errorf("%w: -p is not available at document level", cli.ErrUsage)
		}
		return m.DocumentLevel(translated, base), nil, nil
	}
	if cfg.Locale == "" {
		return nil, nil, fmt.Errorf("%w: -locale is required at %s level", cli.ErrUsage, level)
	}
	if level == encode.FieldLevel {
		ps := m.FieldLevel(translated, base, cfg.Locale, c.BaseLocale)
		res, err := ps.Apply(base)
		return res, ps.JSONPatch, err
	}
	pos, err := cfg.position(cfg.Position)
	if err != nil {
		return nil, nil, err
	}
	ops := m.LocaleArray(translated, base, cfg.Locale, c.BaseLocale, pos)
	res, err := ops.Apply(base)
	return res, ops.JSONPatch, err
}

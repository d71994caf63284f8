package main

import (
	"fmt"

	"github.com/signadot/transdoc/config"
	"github.com/signadot/transdoc/encode"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/libdiff"
	"github.com/signadot/transdoc/merge"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/scott-cotton/cli"
)

func roundTrip(cfg *RoundTripConfig, cc *cli.Context, args []string) error {
	args, err := cfg.RoundTrip.Parse(cc, args)
	if err != nil {
		cfg.RoundTrip.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	c, err := cfg.config()
	if err != nil {
		return err
	}
	encOpts, err := cfg.encOpts()
	if err != nil {
		return err
	}
	parseOpts, err := cfg.parseOpts()
	if err != nil {
		return err
	}
	m := cfg.merger()
	failed := 0
	for _, arg := range inputs(args) {
		doc, err := getDocFile(cc, arg)
		if err != nil {
			return err
		}
		sd, err := reg.Serialize(doc, encOpts...)
		if err != nil {
			return fmt.Errorf("error serializing %s: %w", arg, err)
		}
		back, err := reg.Deserialize([]byte(sd.Content), parseOpts...)
		if err != nil {
			return fmt.Errorf("error decoding serialized %s: %w", arg, err)
		}
		res, err := restore(m, c, back, doc)
		if err != nil {
			return fmt.Errorf("error merging %s: %w", arg, err)
		}
		changes := libdiff.Diff(doc, res)
		if len(changes) == 0 {
			if !cfg.Quiet {
				fmt.Fprintf(cc.Out, "%s: ok, %s serialized\n", arg, humanize.Bytes(uint64(len(sd.Content))))
			}
			continue
		}
		failed++
		fmt.Fprintf(cc.Out, "%s: %s\n", arg, english.Plural(len(changes), "change", ""))
		if err := libdiff.Render(cc.Out, changes, cfg.colors(cc.Out)); err != nil {
			return err
		}
	}
	if failed != 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// restore merges back, the deserialization of doc, into doc as a
// translation into the base locale.  The result equals doc if nothing
// was lost.
func restore(m *merge.Merger, c *config.Config, back, doc *ir.Node) (*ir.Node, error) {
	switch c.EncodeLevel() {
	case encode.FieldLevel:
		return m.FieldLevel(back, doc, c.BaseLocale, c.BaseLocale).Apply(doc)
	case encode.LocaleArrayLevel:
		return m.LocaleArray(back, doc, c.BaseLocale, c.BaseLocale, c.Position()).Apply(doc)
	}
	return m.DocumentLevel(back, doc), nil
}

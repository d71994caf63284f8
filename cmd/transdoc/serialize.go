package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/transdoc/encode"

	"github.com/dustin/go-humanize"
	"github.com/scott-cotton/cli"
)

func serialize(cfg *SerializeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Serialize.Parse(cc, args)
	if err != nil {
		cfg.Serialize.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	opts, err := cfg.encOpts()
	if err != nil {
		return err
	}
	level := encode.LevelFromOpts(opts...)
	for i, arg := range inputs(args) {
		doc, err := getDocFile(cc, arg)
		if err != nil {
			return err
		}
		d, err := reg.Serialize(doc, opts...)
		if err != nil {
			return fmt.Errorf("error serializing %s: %w", arg, err)
		}
		if cfg.Stat {
			fmt.Fprintf(cc.Out, "%s\t%s\t%s\n", d.Name, level, humanize.Bytes(uint64(len(d.Content))))
			continue
		}
		if i > 0 {
			io.WriteString(cc.Out, "\n")
		}
		content := d.Content
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if _, err := io.WriteString(cc.Out, content); err != nil {
			return err
		}
	}
	return nil
}

func deserialize(cfg *DeserializeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Deserialize.Parse(cc, args)
	if err != nil {
		cfg.Deserialize.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	opts, err := cfg.parseOpts()
	if err != nil {
		return err
	}
	for i, arg := range inputs(args) {
		d, err := readFile(cc, arg)
		if err != nil {
			return err
		}
		y, err := reg.Deserialize(d, opts...)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		if i > 0 && cfg.Y {
			io.WriteString(cc.Out, "---\n")
		}
		if err := writeDoc(cfg.MainConfig, cc.Out, y); err != nil {
			return err
		}
	}
	return nil
}

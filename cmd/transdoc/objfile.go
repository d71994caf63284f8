package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/signadot/transdoc/ir"

	"github.com/scott-cotton/cli"
)

func readFile(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

// getDocFile reads a JSON or YAML document.
func getDocFile(cc *cli.Context, path string) (*ir.Node, error) {
	d, err := readFile(cc, path)
	if err != nil {
		return nil, err
	}
	return decodeDoc(d, path)
}

func decodeDoc(d []byte, path string) (*ir.Node, error) {
	y, err := ir.FromYAML(d)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	if y.Type != ir.ObjectType {
		return nil, fmt.Errorf("%s: not a document (%s)", path, y.Type)
	}
	return y, nil
}

// getTranslated reads a translation: serialized HTML or a decoded
// document.
func getTranslated(cfg *MainConfig, cc *cli.Context, path string) (*ir.Node, error) {
	d, err := readFile(cc, path)
	if err != nil {
		return nil, err
	}
	if !isMarkup(d) {
		return decodeDoc(d, path)
	}
	opts, err := cfg.parseOpts()
	if err != nil {
		return nil, err
	}
	y, err := reg.Deserialize(d, opts...)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return y, nil
}

func isMarkup(d []byte) bool {
	d = bytes.TrimSpace(d)
	return len(d) != 0 && d[0] == '<'
}

func writeDoc(cfg *MainConfig, w io.Writer, y *ir.Node) error {
	if cfg.Y {
		d, err := ir.ToYAML(y)
		if err != nil {
			return err
		}
		_, err = w.Write(d)
		return err
	}
	d := append(ir.ToJSONIndent(y, "  "), '\n')
	_, err := w.Write(d)
	return err
}

// inputs returns args, or stdin if there are none.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

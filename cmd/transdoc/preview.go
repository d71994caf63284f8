package main

import (
	"fmt"
	"io"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/scott-cotton/cli"
)

func preview(cfg *PreviewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Preview.Parse(cc, args)
	if err != nil {
		cfg.Preview.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	for i, arg := range inputs(args) {
		content, err := previewContent(cfg, cc, arg)
		if err != nil {
			return err
		}
		md, err := conv.ConvertString(content)
		if err != nil {
			return fmt.Errorf("error converting %s: %w", arg, err)
		}
		if i > 0 {
			io.WriteString(cc.Out, "\n---\n\n")
		}
		if _, err := io.WriteString(cc.Out, md+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// previewContent returns the serialized HTML of path, serializing it
// first if it is a document.
func previewContent(cfg *PreviewConfig, cc *cli.Context, path string) (string, error) {
	d, err := readFile(cc, path)
	if err != nil {
		return "", err
	}
	if isMarkup(d) {
		return string(d), nil
	}
	doc, err := decodeDoc(d, path)
	if err != nil {
		return "", err
	}
	opts, err := cfg.encOpts()
	if err != nil {
		return "", err
	}
	sd, err := reg.Serialize(doc, opts...)
	if err != nil {
		return "", fmt.Errorf("error serializing %s: %w", path, err)
	}
	return sd.Content, nil
}

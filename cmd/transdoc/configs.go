package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/transdoc/config"
	"github.com/signadot/transdoc/encode"
	"github.com/signadot/transdoc/libdiff"
	"github.com/signadot/transdoc/merge"
	"github.com/signadot/transdoc/parse"
	"github.com/signadot/transdoc/store"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Dir        string `cli:"name=C desc='configuration directory (default .)'"`
	Level      string `cli:"name=level desc='translation level: document, field or locale-array'"`
	BaseLocale string `cli:"name=base desc='base locale'"`
	Color      bool   `cli:"name=color desc='show changes in color'"`
	Y          bool   `cli:"name=y aliases=yaml desc='output documents in yaml'"`

	Out      string
	CloseOut func() error

	Main *cli.Command

	conf *config.Config
}

// config loads the configuration once, with command line overrides.
func (cfg *MainConfig) config() (*config.Config, error) {
	if cfg.conf != nil {
		return cfg.conf, nil
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	c, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if cfg.Level != "" {
		c.Level = cfg.Level
	}
	if cfg.BaseLocale != "" {
		c.BaseLocale = cfg.BaseLocale
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.conf = c
	return c, nil
}

func (cfg *MainConfig) encOpts() ([]encode.EncodeOption, error) {
	c, err := cfg.config()
	if err != nil {
		return nil, err
	}
	opts, err := c.EncodeOptions()
	if err != nil {
		return nil, err
	}
	return append(opts, encode.Logger(theLog)), nil
}

func (cfg *MainConfig) parseOpts() ([]parse.ParseOption, error) {
	c, err := cfg.config()
	if err != nil {
		return nil, err
	}
	opts, err := c.ParseOptions()
	if err != nil {
		return nil, err
	}
	return append(opts, parse.Logger(theLog)), nil
}

func (cfg *MainConfig) merger() *merge.Merger {
	return merge.New(merge.WithLogger(theLog))
}

// colors returns the colors of changes written to w: those asked for
// with -color, or else colors if w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) *libdiff.Colors {
	if cfg.Color {
		return libdiff.NewColors()
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return libdiff.NoColors()
	}
	f, ok := w.(*os.File)
	if !ok {
		return libdiff.NoColors()
	}
	if isatty.IsTerminal(f.Fd()) {
		return libdiff.NewColors()
	}
	return libdiff.NoColors()
}

type SerializeConfig struct {
	*MainConfig
	Stat bool `cli:"name=s aliases=stat desc='show the name and size of serialized documents'"`

	Serialize *cli.Command
}

type DeserializeConfig struct {
	*MainConfig

	Deserialize *cli.Command
}

type MergeConfig struct {
	*MainConfig
	Locale   string `cli:"name=locale desc='target locale, required at field and locale-array level'"`
	Position string `cli:"name=pos desc='position of new locale array entries: after, before, first or last'"`
	Diff     bool   `cli:"name=d aliases=diff desc='show the changes to the base document'"`
	Patch    bool   `cli:"name=p aliases=patch desc='output a JSON patch of the changes'"`

	Merge *cli.Command
}

// position returns the insert position named s, or the configured one.
func (cfg *MainConfig) position(s string) (merge.Position, error) {
	if s == "" {
		c, err := cfg.config()
		if err != nil {
			return 0, err
		}
		return c.Position(), nil
	}
	p, err := merge.ParsePosition(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return p, nil
}

type PreviewConfig struct {
	*MainConfig

	Preview *cli.Command
}

type RoundTripConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='only report documents which do not round trip'"`

	RoundTrip *cli.Command
}

type StoreConfig struct {
	*MainConfig
	DB string `cli:"name=db desc='store database (default from configuration)'"`

	Store *cli.Command
}

func (cfg *StoreConfig) open() (*store.Store, error) {
	c, err := cfg.config()
	if err != nil {
		return nil, err
	}
	path := cfg.DB
	if path == "" {
		path = c.Path(c.Store)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no store configured, use -db", cli.ErrUsage)
	}
	return store.Open(path, store.WithMkdirAll(), store.WithLogger(theLog))
}

type StorePutConfig struct {
	*StoreConfig
	Create bool `cli:"name=c aliases=create desc='fail if the document exists'"`

	Put *cli.Command
}

type StoreGetConfig struct {
	*StoreConfig
	Rev   string `cli:"name=rev desc='revision to get (default latest)'"`
	Draft bool   `cli:"name=draft desc='prefer the latest draft'"`
	Revs  bool   `cli:"name=revs desc='list revisions instead'"`

	Get *cli.Command
}

type StorePatchConfig struct {
	*StoreConfig
	ID       string `cli:"name=id desc='document to patch (default the _id of the translation)'"`
	Locale   string `cli:"name=locale desc='target locale'"`
	Position string `cli:"name=pos desc='position of new locale array entries: after, before, first or last'"`

	Patch *cli.Command
}

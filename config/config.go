// Package config reads the transdoc configuration of a directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/signadot/transdoc/debug"
	"github.com/signadot/transdoc/encode"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/merge"
	"github.com/signadot/transdoc/mergeop"
	"github.com/signadot/transdoc/parse"
	"github.com/signadot/transdoc/rules"
	"github.com/signadot/transdoc/schema"

	"github.com/goccy/go-yaml"
)

var ErrNotFound = errors.New("no configuration")

const Name = "transdoc"

type Config struct {
	Root           string   `json:"-"`
	BaseLocale     string   `json:"baseLocale,omitempty"`
	Level          string   `json:"level,omitempty"`
	StopTypes      []string `json:"stopTypes,omitempty"`
	Schema         string   `json:"schema,omitempty"`
	Rules          string   `json:"rules,omitempty"`
	InsertPosition string   `json:"insertPosition,omitempty"`
	Store          string   `json:"store,omitempty"`
	Sanitize       bool     `json:"sanitize,omitempty"`
}

func Default() *Config {
	return &Config{
		Root:           ".",
		BaseLocale:     "en",
		Level:          encode.DocumentLevel.String(),
		InsertPosition: merge.AfterBase.String(),
	}
}

// Open reads transdoc.yaml or transdoc.json in dir.  Fields of env
// override those of the file.
func Open(dir string, env map[string]any) (*Config, error) {
	var (
		path string
		d    []byte
	)
	for _, ext := range []string{".yaml", ".json"} {
		candidate := filepath.Join(dir, Name+ext)
		var err error
		d, err = os.ReadFile(candidate)
		if err == nil {
			path = candidate
			break
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("could not read %q: %w", candidate, err)
		}
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no %s.{yaml,json} in %q", ErrNotFound, Name, dir)
	}
	y, err := ir.FromYAML(d)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}
	if y.Type == ir.NullType {
		y = ir.NewObject()
	}
	if y.Type != ir.ObjectType {
		return nil, fmt.Errorf("%s: wrong type %s (want object)", path, y.Type)
	}
	return fromNode(y, dir, env)
}

// Load reads the configuration of dir with the overrides of
// $TRANSDOC_ENV.  Without a configuration file the defaults are used.
func Load(dir string) (*Config, error) {
	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	cfg, err := Open(dir, env)
	if errors.Is(err, ErrNotFound) {
		return fromNode(ir.NewObject(), dir, env)
	}
	return cfg, err
}

func fromNode(y *ir.Node, dir string, env map[string]any) (*Config, error) {
	if len(env) != 0 {
		ps := mergeop.PatchSet{}
		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v, err := ir.FromAny(env[k])
			if err != nil {
				return nil, fmt.Errorf("env %s: %w", k, err)
			}
			ps.Set(ir.Segments{ir.FieldSegment(k)}.String(), v)
		}
		var err error
		if y, err = ps.Apply(y); err != nil {
			return nil, fmt.Errorf("error applying env: %w", err)
		}
	}
	cfg := Default()
	if err := yaml.Unmarshal(ir.ToJSON(y), cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.Root = dir
	if debug.Config() {
		debug.Logf("config %s: %s\n", dir, ir.ToJSON(y))
	}
	return cfg, cfg.Validate()
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	if _, err := encode.ParseLevel(c.Level); err != nil {
		return err
	}
	if _, err := merge.ParsePosition(c.InsertPosition); err != nil {
		return err
	}
	return nil
}

// Path resolves p relative to the configuration directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c *Config) EncodeLevel() encode.Level {
	l, _ := encode.ParseLevel(c.Level)
	return l
}

func (c *Config) Position() merge.Position {
	p, _ := merge.ParsePosition(c.InsertPosition)
	return p
}

// StopTypeSet returns the configured stop types, or the default ones.
func (c *Config) StopTypeSet() schema.StopTypes {
	if len(c.StopTypes) == 0 {
		return schema.DefaultStopTypes()
	}
	return schema.NewStopTypes(c.StopTypes...)
}

// Descriptor loads the configured schema.
func (c *Config) Descriptor() (schema.Descriptor, error) {
	if c.Schema == "" {
		return schema.None, nil
	}
	return schema.Load(c.Path(c.Schema))
}

// BlockRules loads the configured block rules.
func (c *Config) BlockRules() ([]parse.BlockRule, error) {
	if c.Rules == "" {
		return nil, nil
	}
	return rules.Load(c.Path(c.Rules))
}

// EncodeOptions returns the serializer options c configures.
func (c *Config) EncodeOptions() ([]encode.EncodeOption, error) {
	desc, err := c.Descriptor()
	if err != nil {
		return nil, err
	}
	return []encode.EncodeOption{
		encode.EncodeLevel(c.EncodeLevel()),
		encode.BaseLocale(c.BaseLocale),
		encode.StopTypes(c.StopTypeSet()),
		encode.Schema(desc),
	}, nil
}

// ParseOptions returns the deserializer options c configures.
func (c *Config) ParseOptions() ([]parse.ParseOption, error) {
	rs, err := c.BlockRules()
	if err != nil {
		return nil, err
	}
	return []parse.ParseOption{
		parse.WithRules(rs...),
		parse.Sanitize(c.Sanitize),
	}, nil
}

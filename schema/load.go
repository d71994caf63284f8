package schema

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

type file struct {
	Types []*Type `json:"types"`
}

// Parse reads type descriptors from YAML or JSON of the form
//
//	types:
//	- name: post
//	  fields:
//	  - {name: title, type: string}
//	  - {name: slug, type: slug, localize: false}
func Parse(d []byte) (*Registry, error) {
	f := &file{}
	if err := yaml.Unmarshal(d, f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return NewRegistry(f.Types...)
}

func Load(path string) (*Registry, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

package schema

import (
	"maps"
	"slices"
)

// StopTypes is a set of type names whose values are never translated.
type StopTypes map[string]struct{}

func NewStopTypes(names ...string) StopTypes {
	res := make(StopTypes, len(names))
	for _, n := range names {
		res[n] = struct{}{}
	}
	return res
}

// DefaultStopTypes returns the types which carry no translatable text.
func DefaultStopTypes() StopTypes {
	return NewStopTypes(
		"reference",
		"date",
		"datetime",
		"file",
		"geopoint",
		"image",
		"number",
		"crop",
		"hotspot",
		"boolean",
		"url",
	)
}

func (s StopTypes) Has(name string) bool {
	if name == "" {
		return false
	}
	_, ok := s[name]
	return ok
}

func (s StopTypes) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

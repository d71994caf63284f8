// Package schema describes document types: which fields a type declares,
// their types and whether they are localized.
package schema

import "errors"

var (
	ErrDuplicate = errors.New("duplicate type")
	ErrSchema    = errors.New("schema error")
)

type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Localize *bool  `json:"localize,omitempty"`
}

// Localized reports whether the field takes part in translation.  Fields
// are localized unless marked otherwise.
func (f Field) Localized() bool {
	return f.Localize == nil || *f.Localize
}

// IsText reports whether the field holds translatable text.
func (f Field) IsText() bool {
	return f.Type == "string" || f.Type == "text"
}

type Type struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Field returns the field named name, if declared.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Descriptor answers which fields a type declares.
type Descriptor interface {
	Fields(typeName string) ([]Field, bool)
}

// None describes no types.  With it every key of every object is
// considered translatable.
var None Descriptor = none{}

type none struct{}

func (none) Fields(string) ([]Field, bool) { return nil, false }

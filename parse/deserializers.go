package parse

import (
	"maps"

	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/markup"
)

// DeserializeFunc decodes an element produced by a custom serializer.
type DeserializeFunc func(el *markup.Element, c *Context) (*ir.Node, error)

// Deserializers maps element classes to custom decoders.  It is
// immutable, With returns an extended copy.
type Deserializers struct {
	types map[string]DeserializeFunc
}

func NewDeserializers() Deserializers {
	return Deserializers{}
}

func (d Deserializers) With(class string, fn DeserializeFunc) Deserializers {
	res := Deserializers{types: maps.Clone(d.types)}
	if res.types == nil {
		res.types = map[string]DeserializeFunc{}
	}
	res.types[class] = fn
	return res
}

func (d Deserializers) Type(class string) (DeserializeFunc, bool) {
	if class == "" {
		return nil, false
	}
	fn, ok := d.types[class]
	return fn, ok
}

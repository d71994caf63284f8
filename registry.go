package transdoc

import (
	"github.com/signadot/transdoc/encode"
	"github.com/signadot/transdoc/ir"
	"github.com/signadot/transdoc/parse"
)

// Registry holds custom serializers, deserializers and block rules.
type Registry struct {
	Serializers   encode.Serializers
	Deserializers parse.Deserializers
	Rules         []parse.BlockRule
}

func DefaultRegistry() *Registry {
	return &Registry{
		Serializers:   encode.NewSerializers(),
		Deserializers: parse.NewDeserializers(),
	}
}

// Register installs the conversions of objects of type typeName.
// Either may be nil.
func (r *Registry) Register(typeName string, ser encode.SerializeFunc, de parse.DeserializeFunc) *Registry {
	if ser != nil {
		r.Serializers = r.Serializers.With(typeName, ser)
	}
	if de != nil {
		r.Deserializers = r.Deserializers.With(typeName, de)
	}
	return r
}

// RegisterMark installs the serializer of annotations of type typeName.
func (r *Registry) RegisterMark(typeName string, f encode.MarkFunc) *Registry {
	r.Serializers = r.Serializers.WithMark(typeName, f)
	return r
}

// AddRules adds block rules tried before those already registered.
func (r *Registry) AddRules(rules ...parse.BlockRule) *Registry {
	r.Rules = append(rules[:len(rules):len(rules)], r.Rules...)
	return r
}

// Serialize serializes doc with the serializers of r.  Later options
// take precedence.
func (r *Registry) Serialize(doc *ir.Node, opts ...encode.EncodeOption) (*encode.Document, error) {
	opts = append([]encode.EncodeOption{encode.WithSerializers(r.Serializers)}, opts...)
	return encode.Serialize(doc, opts...)
}

// Deserialize decodes serialized markup with the deserializers and rules
// of r.
func (r *Registry) Deserialize(d []byte, opts ...parse.ParseOption) (*ir.Node, error) {
	opts = append([]parse.ParseOption{
		parse.WithDeserializers(r.Deserializers),
		parse.WithRules(r.Rules...),
	}, opts...)
	return parse.Parse(d, opts...)
}

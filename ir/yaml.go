package ir

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
)

// FromYAML decodes a YAML document keeping mapping order.
func FromYAML(d []byte) (*Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return FromAny(v)
}

func ToYAML(y *Node) ([]byte, error) {
	return yaml.Marshal(toYAML(y))
}

func toYAML(y *Node) any {
	switch y.Type {
	case ObjectType:
		res := make(yaml.MapSlice, len(y.Fields))
		for i, f := range y.Fields {
			res[i] = yaml.MapItem{Key: f, Value: toYAML(y.Values[i])}
		}
		return res
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = toYAML(v)
		}
		return res
	default:
		return ToAny(y)
	}
}

// FromAny converts decoded Go values to a node.  Plain maps produce
// objects with sorted fields.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x.Clone(), nil
	case string:
		return FromString(x), nil
	case bool:
		return FromBool(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint64:
		return FromNumber(strconv.FormatUint(x, 10)), nil
	case float64:
		return FromFloat(x), nil
	case yaml.MapSlice:
		res := NewObject()
		for _, item := range x {
			k, ok := item.Key.(string)
			if !ok {
				k = fmt.Sprint(item.Key)
			}
			val, err := FromAny(item.Value)
			if err != nil {
				return nil, err
			}
			res.Set(k, val)
		}
		return res, nil
	case map[string]any:
		res := NewObject()
		for _, k := range slices.Sorted(maps.Keys(x)) {
			val, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			res.Set(k, val)
		}
		return res, nil
	case []any:
		res := NewArray()
		for _, e := range x {
			val, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			res.Append(val)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value of type %T", ErrParse, v)
	}
}

// ToAny converts y to plain Go values.
func ToAny(y *Node) any {
	switch y.Type {
	case NullType:
		return nil
	case BoolType:
		return y.Bool
	case StringType:
		return y.String
	case NumberType:
		if i, err := strconv.ParseInt(y.Number, 10, 64); err == nil {
			return i
		}
		f, _ := strconv.ParseFloat(y.Number, 64)
		return f
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			res[f] = ToAny(y.Values[i])
		}
		return res
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = ToAny(v)
		}
		return res
	default:
		panic("type")
	}
}

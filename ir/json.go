package ir

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	j "github.com/goccy/go-json"
)

// FromJSON decodes d keeping object field order and number literals.
func FromJSON(d []byte) (*Node, error) {
	dec := j.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	y, err := decodeJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after value", ErrParse)
	}
	return y, nil
}

func decodeJSON(dec *j.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			res := NewObject()
			for dec.More() {
				kTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				k, ok := kTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", kTok)
				}
				val, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				res.Set(k, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return res, nil
		case '[':
			res := NewArray()
			for dec.More() {
				val, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				res.Append(val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return res, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		return FromString(v), nil
	case j.Number:
		return FromNumber(string(v)), nil
	case float64:
		return FromFloat(v), nil
	case bool:
		return FromBool(v), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v (%T)", tok, tok)
	}
}

// ToJSON encodes y compactly.
func ToJSON(y *Node) []byte {
	buf := &bytes.Buffer{}
	encodeJSON(buf, y, "", "")
	return buf.Bytes()
}

// ToJSONIndent encodes y with one line per field or element.
func ToJSONIndent(y *Node, indent string) []byte {
	buf := &bytes.Buffer{}
	encodeJSON(buf, y, "\n", indent)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func encodeJSON(buf *bytes.Buffer, y *Node, nl, indent string) {
	if y == nil {
		buf.WriteString("null")
		return
	}
	sep := ":"
	if indent != "" {
		sep = ": "
	}
	switch y.Type {
	case NullType:
		buf.WriteString("null")
	case BoolType:
		if y.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case NumberType:
		buf.WriteString(y.Number)
	case StringType:
		buf.Write(quote(y.String))
	case ObjectType:
		if len(y.Fields) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		inner := nl + indent
		for i, f := range y.Fields {
			if i != 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(inner)
			buf.Write(quote(f))
			buf.WriteString(sep)
			encodeJSON(buf, y.Values[i], inner, indent)
		}
		buf.WriteString(nl)
		buf.WriteByte('}')
	case ArrayType:
		if len(y.Values) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		inner := nl + indent
		for i, v := range y.Values {
			if i != 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(inner)
			encodeJSON(buf, v, inner, indent)
		}
		buf.WriteString(nl)
		buf.WriteByte(']')
	}
}

func quote(s string) []byte {
	d, err := j.MarshalNoEscape(s)
	if err != nil {
		return []byte(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
	}
	return d
}

func (y *Node) MarshalJSON() ([]byte, error) {
	return ToJSON(y), nil
}

func (y *Node) UnmarshalJSON(d []byte) error {
	res, err := FromJSON(d)
	if err != nil {
		return err
	}
	res.CloneTo(y)
	return nil
}

package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Path returns the location of y relative to its root, such as $.a.b[0].
func (y *Node) Path() string {
	return "$" + y.relPath(true)
}

// KPath returns the location of y relative to its root in patch key
// form, such as a.b[0].
func (y *Node) KPath() string {
	return y.relPath(false)
}

func (y *Node) relPath(dot bool) string {
	if y.Parent == nil {
		return ""
	}
	switch y.Parent.Type {
	case ObjectType:
		prefix := y.Parent.relPath(dot)
		if prefix != "" || dot {
			prefix += "."
		}
		return prefix + pathString(y.ParentField)
	case ArrayType:
		return y.Parent.relPath(dot) + "[" + strconv.Itoa(y.ParentIndex) + "]"
	default:
		panic("parent but not in container")
	}
}

func pathString(f string) string {
	if f != "" && strings.IndexAny(f, "'.[]") == -1 {
		return f
	}
	return "'" + strings.ReplaceAll(f, "'", "\\'") + "'"
}

// Segment is one step of a KPath: a field name or an array index.
type Segment struct {
	Field   string
	Index   int
	IsIndex bool
}

func FieldSegment(f string) Segment { return Segment{Field: f} }
func IndexSegment(i int) Segment    { return Segment{Index: i, IsIndex: true} }

type Segments []Segment

// Append returns a copy of ss extended with s.
func (ss Segments) Append(s Segment) Segments {
	res := make(Segments, len(ss), len(ss)+1)
	copy(res, ss)
	return append(res, s)
}

func (ss Segments) String() string {
	buf := &strings.Builder{}
	for i, s := range ss {
		if s.IsIndex {
			buf.WriteString("[" + strconv.Itoa(s.Index) + "]")
			continue
		}
		if i != 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(pathString(s.Field))
	}
	return buf.String()
}

// JSONPointer renders ss as an RFC 6901 pointer.
func (ss Segments) JSONPointer() string {
	buf := &strings.Builder{}
	for _, s := range ss {
		buf.WriteByte('/')
		if s.IsIndex {
			buf.WriteString(strconv.Itoa(s.Index))
			continue
		}
		f := strings.ReplaceAll(s.Field, "~", "~0")
		buf.WriteString(strings.ReplaceAll(f, "/", "~1"))
	}
	return buf.String()
}

// ParseKPath parses a path such as a.b[0].'c.d'.
func ParseKPath(p string) (Segments, error) {
	var res Segments
	frag := p
	first := true
	for len(frag) > 0 {
		switch frag[0] {
		case '[':
			i := strings.IndexByte(frag, ']')
			if i == -1 {
				return nil, fmt.Errorf("%w: expected ']' in %q", ErrPath, p)
			}
			idx, err := strconv.Atoi(frag[1:i])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrPath, frag[1:i], p)
			}
			res = append(res, IndexSegment(idx))
			frag = frag[i+1:]
		case '.':
			if first {
				return nil, fmt.Errorf("%w: leading '.' in %q", ErrPath, p)
			}
			frag = frag[1:]
			fallthrough
		default:
			field, rest, err := parseField(frag)
			if err != nil {
				return nil, fmt.Errorf("%w: %w in %q", ErrPath, err, p)
			}
			res = append(res, FieldSegment(field))
			frag = rest
		}
		first = false
	}
	return res, nil
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == 0 {
			return "", "", fmt.Errorf("empty field")
		}
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch {
		case c == '\\' && !escaped:
			escaped = true
		case c == '\'' && !escaped:
			return string(res), frag[i+1:], nil
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// GetKPath returns the node at p below y, or nil if there is none.
func (y *Node) GetKPath(p string) (*Node, error) {
	segs, err := ParseKPath(p)
	if err != nil {
		return nil, err
	}
	return y.GetSegments(segs), nil
}

func (y *Node) GetSegments(segs Segments) *Node {
	res := y
	for _, s := range segs {
		if res == nil {
			return nil
		}
		if s.IsIndex {
			if res.Type != ArrayType || s.Index >= len(res.Values) {
				return nil
			}
			res = res.Values[s.Index]
			continue
		}
		res = res.Get(s.Field)
	}
	return res
}

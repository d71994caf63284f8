package ir

import (
	"maps"
	"slices"
	"strconv"
)

// Node is a structured content value.  Objects keep their field order:
// Fields[i] names Values[i].
type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []string
	Values      []*Node

	String string
	Bool   bool
	Number string
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Type = y.Type
	dst.String = y.String
	dst.Bool = y.Bool
	dst.Number = y.Number
	dst.Fields = nil
	if y.Fields != nil {
		dst.Fields = slices.Clone(y.Fields)
	}
	dst.Values = nil
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
	}
	for i, yv := range y.Values {
		dstI := &Node{}
		yv.CloneTo(dstI)
		dstI.Parent = dst
		dstI.ParentIndex = i
		dst.Values[i] = dstI
	}
	return dst
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

// FromNumber creates a number node from its literal text.
func FromNumber(lit string) *Node {
	return &Node{Type: NumberType, Number: lit}
}

func FromInt(v int64) *Node {
	return FromNumber(strconv.FormatInt(v, 10))
}

func FromFloat(f float64) *Node {
	return FromNumber(strconv.FormatFloat(f, 'g', -1, 64))
}

func Null() *Node {
	return &Node{Type: NullType}
}

// Int returns the integer value of a number node.
func (y *Node) Int() (int64, bool) {
	if y == nil || y.Type != NumberType {
		return 0, false
	}
	i, err := strconv.ParseInt(y.Number, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(y.Number, 64)
		if ferr != nil {
			return 0, false
		}
		return int64(f), float64(int64(f)) == f
	}
	return i, true
}

type KeyVal struct {
	Key string
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]string, 0, len(kvs))
	res.Values = make([]*Node, 0, len(kvs))
	for _, kv := range kvs {
		res.Set(kv.Key, kv.Val)
	}
	return res
}

// FromMap creates an object with fields in sorted key order.
func FromMap(yMap map[string]*Node) *Node {
	res := &Node{Type: ObjectType}
	for _, key := range slices.Sorted(maps.Keys(yMap)) {
		res.Set(key, yMap[key])
	}
	return res
}

func ToMap(node *Node) map[string]*Node {
	if node.Type != ObjectType {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i, f := range node.Fields {
		res[f] = node.Values[i]
	}
	return res
}

func NewObject() *Node {
	return &Node{Type: ObjectType, Fields: []string{}, Values: []*Node{}}
}

func NewArray() *Node {
	return &Node{Type: ArrayType, Values: []*Node{}}
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type:   ArrayType,
		Values: make([]*Node, len(ySlice)),
	}
	for i, y := range ySlice {
		res.Values[i] = y
		y.Parent = res
		y.ParentIndex = i
		y.ParentField = ""
	}
	return res
}

// Index returns the position of field in an object, or -1.
func (y *Node) Index(field string) int {
	if y == nil || y.Type != ObjectType {
		return -1
	}
	return slices.Index(y.Fields, field)
}

// Get returns the value of field in an object, or nil.
func (y *Node) Get(field string) *Node {
	i := y.Index(field)
	if i == -1 {
		return nil
	}
	return y.Values[i]
}

// Has reports whether an object declares field.
func (y *Node) Has(field string) bool {
	return y.Index(field) != -1
}

// Set replaces the value of field, or appends the field when absent.
func (y *Node) Set(field string, v *Node) *Node {
	i := y.Index(field)
	if i == -1 {
		i = len(y.Fields)
		y.Fields = append(y.Fields, field)
		y.Values = append(y.Values, v)
	} else {
		y.Values[i] = v
	}
	v.Parent = y
	v.ParentIndex = i
	v.ParentField = field
	return y
}

func (y *Node) Delete(field string) bool {
	i := y.Index(field)
	if i == -1 {
		return false
	}
	y.Fields = slices.Delete(y.Fields, i, i+1)
	y.Values = slices.Delete(y.Values, i, i+1)
	y.reparent(i)
	return true
}

func (y *Node) Append(vs ...*Node) *Node {
	for _, v := range vs {
		v.Parent = y
		v.ParentIndex = len(y.Values)
		v.ParentField = ""
		y.Values = append(y.Values, v)
	}
	return y
}

// Replace replaces the i'th element of an array.
func (y *Node) Replace(i int, v *Node) {
	v.Parent = y
	v.ParentIndex = i
	v.ParentField = ""
	y.Values[i] = v
}

// Insert inserts v before position i of an array.
func (y *Node) Insert(i int, v *Node) {
	y.Values = slices.Insert(y.Values, i, v)
	v.Parent = y
	y.reparent(i)
}

// InsertField inserts field before position i of an object, replacing
// any previous value of the field.
func (y *Node) InsertField(i int, field string, v *Node) {
	y.Delete(field)
	i = min(i, len(y.Fields))
	y.Fields = slices.Insert(y.Fields, i, field)
	y.Values = slices.Insert(y.Values, i, v)
	v.Parent = y
	y.reparent(i)
}

func (y *Node) reparent(from int) {
	for j := from; j < len(y.Values); j++ {
		y.Values[j].ParentIndex = j
		if y.Type == ObjectType {
			y.Values[j].ParentField = y.Fields[j]
		}
	}
}

// IndexOfKey returns the position of the array element whose _key is key,
// or -1.
func (y *Node) IndexOfKey(key string) int {
	if y == nil || y.Type != ArrayType || key == "" {
		return -1
	}
	for i, v := range y.Values {
		if v.Key() == key {
			return i
		}
	}
	return -1
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

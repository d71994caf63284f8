package ir

import "strings"

const (
	TypeField = "_type"
	KeyField  = "_key"
	IDField   = "_id"
	RevField  = "_rev"

	BlockType = "block"
	SpanType  = "span"
)

// MetaFields are the identity fields carried verbatim through every stage.
var MetaFields = []string{KeyField, TypeField, IDField, RevField}

func IsMetaField(name string) bool {
	switch name {
	case KeyField, TypeField, IDField, RevField:
		return true
	}
	return false
}

// IsInternal reports whether name carries the system sigil.  Internal
// fields are never overwritten by merges.
func IsInternal(name string) bool {
	return strings.HasPrefix(name, "_")
}

func (y *Node) stringField(name string) string {
	if y == nil || y.Type != ObjectType {
		return ""
	}
	v := y.Get(name)
	if v == nil || v.Type != StringType {
		return ""
	}
	return v.String
}

// TypeTag returns the _type field of an object, or "".
func (y *Node) TypeTag() string {
	return y.stringField(TypeField)
}

// Key returns the _key field of an object, or "".
func (y *Node) Key() string {
	return y.stringField(KeyField)
}

// ID returns the _id field of an object, or "".
func (y *Node) ID() string {
	return y.stringField(IDField)
}

// Rev returns the _rev field of an object, or "".
func (y *Node) Rev() string {
	return y.stringField(RevField)
}

// StringField returns the string value of field name or "".
func (y *Node) StringField(name string) string {
	return y.stringField(name)
}

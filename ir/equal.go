package ir

// Equal reports whether a and b hold the same content.  Object field
// order is not significant, array order is.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case StringType:
		return a.String == b.String
	case NumberType:
		if a.Number == b.Number {
			return true
		}
		ai, aok := a.Int()
		bi, bok := b.Int()
		return aok && bok && ai == bi
	case ArrayType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case ObjectType:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i, f := range a.Fields {
			if !Equal(a.Values[i], b.Get(f)) {
				return false
			}
		}
		return true
	default:
		panic("type")
	}
}

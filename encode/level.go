package encode

import "fmt"

// Level is the granularity at which a document is translated.
type Level int

const (
	// DocumentLevel translates a whole document into a separate document.
	DocumentLevel Level = iota
	// FieldLevel translates locale objects, objects holding one field per
	// locale, in place.
	FieldLevel
	// LocaleArrayLevel translates locale arrays, arrays holding one entry
	// per locale keyed by locale, in place.
	LocaleArrayLevel
)

func (l Level) String() string {
	switch l {
	case DocumentLevel:
		return "document"
	case FieldLevel:
		return "field"
	case LocaleArrayLevel:
		return "internationalizedArray"
	default:
		return "<unknown level>"
	}
}

func ParseLevel(s string) (Level, error) {
	switch s {
	case "document", "d", "":
		return DocumentLevel, nil
	case "field", "f":
		return FieldLevel, nil
	case "internationalizedArray", "locale-array", "a":
		return LocaleArrayLevel, nil
	default:
		return DocumentLevel, fmt.Errorf("%w: %q", ErrBadLevel, s)
	}
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(d []byte) error {
	ll, err := ParseLevel(string(d))
	if err != nil {
		return err
	}
	*l = ll
	return nil
}

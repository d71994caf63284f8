package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse   = errors.New("parse error")
	ErrNoBody  = fmt.Errorf("%w: no body element", ErrParse)
	ErrVersion = fmt.Errorf("%w: unsupported wire format version", ErrParse)
)

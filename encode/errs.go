package encode

import "errors"

var (
	ErrEncoding    = errors.New("encoding error")
	ErrNotDocument = errors.New("not a document")
	ErrBadLevel    = errors.New("bad translation level")
)

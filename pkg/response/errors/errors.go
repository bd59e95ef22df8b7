package errors

import "errors"

var (
	ErrNilRequest        = errors.New("nil request")
	ErrNilCookie         = errors.New("nil cookie")
	ErrNilWriter         = errors.New("nil writer")
	ErrNilStreamResponse = errors.New("nil stream response")
)

package errors

import "errors"

var (
	ErrNilStreamResponse      = errors.New("nil stream response")
	ErrNilFileHandle          = errors.New("nil file handle")
	ErrNilCompressionWriter   = errors.New("nil compression writer")
	ErrNonPositiveChunkSize   = errors.New("non-positive chunk size")
	ErrUnknownCompressionType = errors.New("unknown compression type")
)

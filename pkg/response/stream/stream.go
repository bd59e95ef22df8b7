package stream

import (
	"bytes"
	"context"
)

// MinimumFramingSize is the smallest payload some downstream transports can
// frame. Files shorter than this are padded up to it when padding is enabled
// on the file producer.
const MinimumFramingSize = 1024

// The historical padding fill is the '0' character, not NUL.
const paddingByte = '0'

// StreamBuffer is one produced chunk. It is never mutated after creation;
// ownership passes to the consumer.
type StreamBuffer struct {
	Data []byte
}

func (streamBuffer *StreamBuffer) Size() int {
	return len(streamBuffer.Data)
}

// StreamResponse produces a finite, non-restartable sequence of buffers.
// NextBuffer returns (nil, nil) at end of stream; every call after that also
// returns (nil, nil). Close releases the producer's resources and must be
// called on every exit path, including early termination.
type StreamResponse interface {
	Initialize() error
	NextBuffer(ctx context.Context) (*StreamBuffer, error)
	Identifier() string
	Close() error
}

func makePaddingBuffer(numPadding uint64) *StreamBuffer {
	return &StreamBuffer{Data: bytes.Repeat([]byte{paddingByte}, int(numPadding))}
}

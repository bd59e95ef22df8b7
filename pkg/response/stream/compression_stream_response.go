package stream

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	motmedelContext "github.com/Motmedel/utils_go/pkg/context"
	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"

	streamErrors "github.com/Motmedel/httpcore_go/pkg/response/stream/errors"
)

type CompressionType int

const (
	CompressionType_Gzip CompressionType = iota
	CompressionType_Deflate
)

// CompressionStreamResponse wraps an inner producer and compresses its output
// on the fly. The deflate coding uses zlib framing, which is what clients
// decode in practice.
//
// Compressed bytes that did not fit in the returned buffer are retained in
// outputBuffer until the next pull; dropping them would corrupt the stream.
type CompressionStreamResponse struct {
	inner           StreamResponse
	chunkSize       int
	compressionType CompressionType

	outputBuffer   bytes.Buffer
	writer         io.WriteCloser
	innerExhausted bool
	finished       bool
}

func NewCompressionStreamResponse(
	inner StreamResponse,
	chunkSize int,
	compressionType CompressionType,
) *CompressionStreamResponse {
	return &CompressionStreamResponse{inner: inner, chunkSize: chunkSize, compressionType: compressionType}
}

func (compressionStreamResponse *CompressionStreamResponse) Initialize() error {
	inner := compressionStreamResponse.inner
	if inner == nil {
		return motmedelErrors.NewWithTrace(streamErrors.ErrNilStreamResponse)
	}

	if compressionStreamResponse.chunkSize <= 0 {
		return motmedelErrors.NewWithTrace(streamErrors.ErrNonPositiveChunkSize, compressionStreamResponse.chunkSize)
	}

	if err := inner.Initialize(); err != nil {
		return motmedelErrors.New(fmt.Errorf("initialize (inner stream): %w", err), inner.Identifier())
	}

	switch compressionStreamResponse.compressionType {
	case CompressionType_Gzip:
		writer, err := gzip.NewWriterLevel(&compressionStreamResponse.outputBuffer, gzip.BestCompression)
		if err != nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("gzip new writer level: %w", err))
		}
		compressionStreamResponse.writer = writer
	case CompressionType_Deflate:
		writer, err := zlib.NewWriterLevel(&compressionStreamResponse.outputBuffer, zlib.BestCompression)
		if err != nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("zlib new writer level: %w", err))
		}
		compressionStreamResponse.writer = writer
	default:
		return motmedelErrors.NewWithTrace(
			streamErrors.ErrUnknownCompressionType,
			compressionStreamResponse.compressionType,
		)
	}

	return nil
}

func (compressionStreamResponse *CompressionStreamResponse) NextBuffer(ctx context.Context) (*StreamBuffer, error) {
	if compressionStreamResponse.finished {
		return nil, nil
	}

	writer := compressionStreamResponse.writer
	if writer == nil {
		return nil, motmedelErrors.NewWithTrace(streamErrors.ErrNilCompressionWriter)
	}

	// Feed the compressor until it yields output or the inner stream ends;
	// the compressor may need several chunks of input before emitting
	// anything.
	for compressionStreamResponse.outputBuffer.Len() == 0 && !compressionStreamResponse.innerExhausted {
		innerBuffer, err := compressionStreamResponse.inner.NextBuffer(ctx)
		if err != nil {
			wrappedErr := motmedelErrors.New(
				fmt.Errorf("next buffer (inner stream): %w", err),
				compressionStreamResponse.Identifier(),
			)
			compressionStreamResponse.logStreamError(ctx, wrappedErr)
			return nil, wrappedErr
		}

		if innerBuffer == nil {
			// No more input; flush the remainder and the stream trailer.
			compressionStreamResponse.innerExhausted = true
			if err := writer.Close(); err != nil {
				wrappedErr := motmedelErrors.New(
					fmt.Errorf("compression writer close: %w", err),
					compressionStreamResponse.Identifier(),
				)
				compressionStreamResponse.logStreamError(ctx, wrappedErr)
				return nil, wrappedErr
			}
			break
		}

		if innerBuffer.Size() == 0 {
			continue
		}

		if _, err := writer.Write(innerBuffer.Data); err != nil {
			wrappedErr := motmedelErrors.New(
				fmt.Errorf("compression writer write: %w", err),
				compressionStreamResponse.Identifier(),
			)
			compressionStreamResponse.logStreamError(ctx, wrappedErr)
			return nil, wrappedErr
		}
	}

	outputLength := compressionStreamResponse.outputBuffer.Len()
	if outputLength == 0 {
		compressionStreamResponse.finished = true
		return nil, nil
	}

	numOutput := min(compressionStreamResponse.chunkSize, outputLength)
	data := make([]byte, numOutput)
	numRead, _ := compressionStreamResponse.outputBuffer.Read(data)

	if compressionStreamResponse.innerExhausted && compressionStreamResponse.outputBuffer.Len() == 0 {
		compressionStreamResponse.finished = true
	}

	return &StreamBuffer{Data: data[:numRead]}, nil
}

func (compressionStreamResponse *CompressionStreamResponse) logStreamError(ctx context.Context, err error) {
	slog.ErrorContext(
		motmedelContext.WithErrorContextValue(ctx, err),
		fmt.Sprintf("Could not compress %q.", compressionStreamResponse.Identifier()),
	)
}

func (compressionStreamResponse *CompressionStreamResponse) Identifier() string {
	if inner := compressionStreamResponse.inner; inner != nil {
		return inner.Identifier()
	}
	return ""
}

func (compressionStreamResponse *CompressionStreamResponse) Close() error {
	var errs []error

	if writer := compressionStreamResponse.writer; writer != nil && !compressionStreamResponse.innerExhausted {
		compressionStreamResponse.writer = nil
		if err := writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("compression writer close: %w", err))
		}
	}

	if inner := compressionStreamResponse.inner; inner != nil {
		if err := inner.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close (inner stream): %w", err))
		}
	}

	if len(errs) != 0 {
		return motmedelErrors.New(errors.Join(errs...), compressionStreamResponse.Identifier())
	}

	return nil
}

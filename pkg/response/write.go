package response

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"

	motmedelContext "github.com/Motmedel/utils_go/pkg/context"
	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"

	responseErrors "github.com/Motmedel/httpcore_go/pkg/response/errors"
	"github.com/Motmedel/httpcore_go/pkg/response/stream"
)

// StatusLine renders `HTTP/<major>.<minor> <code> <message>`.
func (response *Response) StatusLine() string {
	return fmt.Sprintf(
		"HTTP/%d.%d %d %s",
		response.HttpVersionMajor,
		response.HttpVersionMinor,
		response.statusCode,
		response.StatusMessage(),
	)
}

// Write serializes the status line, the header block and the body. A literal
// body is written as-is; a streaming body is drained chunk by chunk and
// framed as chunked transfer encoding. A mid-stream producer error truncates
// the output: the response is already committed, so there is nothing to send
// but silence.
func (response *Response) Write(ctx context.Context, writer io.Writer) error {
	if writer == nil {
		return motmedelErrors.NewWithTrace(responseErrors.ErrNilWriter)
	}

	if _, err := io.WriteString(writer, response.StatusLine()+"\r\n"); err != nil {
		return motmedelErrors.New(fmt.Errorf("write status line: %w", err))
	}

	for _, entry := range response.headers {
		if entry == nil {
			continue
		}
		if _, err := io.WriteString(writer, entry.Name+": "+entry.Value+"\r\n"); err != nil {
			return motmedelErrors.New(fmt.Errorf("write header: %w", err), entry.Name)
		}
	}

	if _, err := io.WriteString(writer, "\r\n"); err != nil {
		return motmedelErrors.New(fmt.Errorf("write header terminator: %w", err))
	}

	if streamResponse := response.streamResponse; streamResponse != nil {
		if err := response.writeChunkedStream(ctx, writer, streamResponse); err != nil {
			return fmt.Errorf("write chunked stream: %w", err)
		}
		return nil
	}

	if len(response.body) != 0 {
		if _, err := writer.Write(response.body); err != nil {
			return motmedelErrors.New(fmt.Errorf("write body: %w", err))
		}
	}

	return nil
}

func (response *Response) writeChunkedStream(
	ctx context.Context,
	writer io.Writer,
	streamResponse stream.StreamResponse,
) error {
	defer func() {
		if err := streamResponse.Close(); err != nil {
			slog.WarnContext(
				motmedelContext.WithErrorContextValue(ctx, err),
				"An error occurred when closing a stream response.",
			)
		}
	}()

	for {
		buffer, err := streamResponse.NextBuffer(ctx)
		if err != nil {
			return motmedelErrors.New(fmt.Errorf("next buffer: %w", err), streamResponse.Identifier())
		}
		if buffer == nil {
			break
		}
		if buffer.Size() == 0 {
			continue
		}

		if _, err := fmt.Fprintf(writer, "%x\r\n", buffer.Size()); err != nil {
			return motmedelErrors.New(fmt.Errorf("write chunk size: %w", err))
		}
		if _, err := writer.Write(buffer.Data); err != nil {
			return motmedelErrors.New(fmt.Errorf("write chunk data: %w", err))
		}
		if _, err := io.WriteString(writer, "\r\n"); err != nil {
			return motmedelErrors.New(fmt.Errorf("write chunk terminator: %w", err))
		}
	}

	if _, err := io.WriteString(writer, "0\r\n\r\n"); err != nil {
		return motmedelErrors.New(fmt.Errorf("write final chunk: %w", err))
	}

	return nil
}

// BodyStreamer adapts the body to the pull sequence shape transports consume:
// a literal body yields once, a streaming body yields until the producer
// signals end of stream or fails.
func (response *Response) BodyStreamer(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		streamResponse := response.streamResponse
		if streamResponse == nil {
			if len(response.body) != 0 {
				yield(response.body, nil)
			}
			return
		}

		defer func() {
			if err := streamResponse.Close(); err != nil {
				slog.WarnContext(
					motmedelContext.WithErrorContextValue(ctx, err),
					"An error occurred when closing a stream response.",
				)
			}
		}()

		for {
			buffer, err := streamResponse.NextBuffer(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if buffer == nil {
				return
			}
			if buffer.Size() == 0 {
				continue
			}

			if !yield(buffer.Data, nil) {
				return
			}
		}
	}
}

package deflate

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	motmedelContext "github.com/Motmedel/utils_go/pkg/context"
	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	"log/slog"
)

// MakeDeflateData compresses data with the zlib framing that the deflate
// content coding historically means in practice.
func MakeDeflateData(ctx context.Context, data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	compression := zlib.BestCompression
	zlibWriter, err := zlib.NewWriterLevel(&buffer, compression)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(
			fmt.Errorf("zlib new writer level: %w", err),
			compression,
		)
	}
	// Unlike gzip's, zlib's Close is not idempotent: a second call writes the
	// checksum again.
	var closed bool
	defer func() {
		if closed {
			return
		}
		if err := zlibWriter.Close(); err != nil {
			slog.WarnContext(
				motmedelContext.WithErrorContextValue(
					ctx,
					motmedelErrors.NewWithTrace(fmt.Errorf("zlib writer close: %w", err)),
				),
				"An error occurred when closing a zlib writer.",
			)
		}
	}()

	if _, err := zlibWriter.Write(data); err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("zlib writer write: %w", err))
	}

	closed = true
	if err := zlibWriter.Close(); err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("zlib writer close: %w", err))
	}

	return buffer.Bytes(), nil
}

package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"

	streamErrors "github.com/Motmedel/httpcore_go/pkg/response/stream/errors"
)

// FileStreamResponse reads a file in fixed-size chunks. The read offset is
// tracked explicitly rather than relying on the file's cursor, because some
// consumers seek the handle between pulls.
type FileStreamResponse struct {
	filePath  string
	chunkSize int
	padding   bool

	file      *os.File
	totalRead uint64
}

func NewFileStreamResponse(filePath string, chunkSize int, padding bool) *FileStreamResponse {
	return &FileStreamResponse{filePath: filePath, chunkSize: chunkSize, padding: padding}
}

func (fileStreamResponse *FileStreamResponse) Initialize() error {
	if fileStreamResponse.chunkSize <= 0 {
		return motmedelErrors.NewWithTrace(streamErrors.ErrNonPositiveChunkSize, fileStreamResponse.chunkSize)
	}

	file, err := os.Open(fileStreamResponse.filePath)
	if err != nil {
		return motmedelErrors.New(fmt.Errorf("os open: %w", err), fileStreamResponse.filePath)
	}
	fileStreamResponse.file = file

	return nil
}

func (fileStreamResponse *FileStreamResponse) NextBuffer(ctx context.Context) (*StreamBuffer, error) {
	file := fileStreamResponse.file
	if file == nil {
		return nil, motmedelErrors.NewWithTrace(streamErrors.ErrNilFileHandle, fileStreamResponse.filePath)
	}

	buffer := make([]byte, fileStreamResponse.chunkSize)
	numRead, err := file.ReadAt(buffer, int64(fileStreamResponse.totalRead))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, motmedelErrors.New(
			fmt.Errorf("file read at: %w", err),
			fileStreamResponse.filePath, fileStreamResponse.totalRead,
		)
	}

	if numRead == 0 {
		// End of file. Pad short files up to the minimum framing size once;
		// the padding counts toward totalRead so the next pull ends the
		// stream.
		if fileStreamResponse.totalRead < MinimumFramingSize && fileStreamResponse.padding {
			paddingBuffer := makePaddingBuffer(MinimumFramingSize - fileStreamResponse.totalRead)
			fileStreamResponse.totalRead = MinimumFramingSize
			return paddingBuffer, nil
		}

		return nil, nil
	}

	fileStreamResponse.totalRead += uint64(numRead)

	return &StreamBuffer{Data: buffer[:numRead]}, nil
}

// Identifier returns the path the producer reads, for use in error messages.
func (fileStreamResponse *FileStreamResponse) Identifier() string {
	return fileStreamResponse.filePath
}

func (fileStreamResponse *FileStreamResponse) Close() error {
	file := fileStreamResponse.file
	if file == nil {
		return nil
	}
	fileStreamResponse.file = nil

	if err := file.Close(); err != nil {
		return motmedelErrors.New(fmt.Errorf("file close: %w", err), fileStreamResponse.filePath)
	}

	return nil
}

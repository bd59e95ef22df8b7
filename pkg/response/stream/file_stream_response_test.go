package stream

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), "content.bin")
	if err := os.WriteFile(filePath, data, 0o600); err != nil {
		t.Fatalf("os write file: %v", err)
	}

	return filePath
}

func makeTestData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i*31 + i/256)
	}
	return data
}

func drainStreamResponse(t *testing.T, streamResponse StreamResponse) []byte {
	t.Helper()

	var drained []byte
	for {
		buffer, err := streamResponse.NextBuffer(context.Background())
		if err != nil {
			t.Fatalf("next buffer: %v", err)
		}
		if buffer == nil {
			break
		}
		if buffer.Size() == 0 {
			t.Fatalf("received an empty non-final buffer")
		}
		drained = append(drained, buffer.Data...)
	}

	return drained
}

func TestFileStreamResponse_PaddingReachesMinimumFramingSize(t *testing.T) {
	for _, size := range []int{0, 1, 100, 1023} {
		data := makeTestData(size)
		fileStreamResponse := NewFileStreamResponse(writeTempFile(t, data), 64, true)
		if err := fileStreamResponse.Initialize(); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		defer fileStreamResponse.Close()

		drained := drainStreamResponse(t, fileStreamResponse)
		if len(drained) != MinimumFramingSize {
			t.Errorf("size %d: expected %d total bytes, got %d", size, MinimumFramingSize, len(drained))
		}

		if !bytes.Equal(drained[:size], data) {
			t.Errorf("size %d: file bytes were not reproduced before the padding", size)
		}

		for i := size; i < len(drained); i++ {
			if drained[i] != '0' {
				t.Fatalf("size %d: padding byte at %d is %q, expected '0'", size, i, drained[i])
			}
		}
	}
}

func TestFileStreamResponse_NoPaddingWhenDisabled(t *testing.T) {
	data := makeTestData(100)
	fileStreamResponse := NewFileStreamResponse(writeTempFile(t, data), 64, false)
	if err := fileStreamResponse.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer fileStreamResponse.Close()

	if drained := drainStreamResponse(t, fileStreamResponse); !bytes.Equal(drained, data) {
		t.Errorf("expected %d bytes, got %d", len(data), len(drained))
	}
}

func TestFileStreamResponse_ExactLengthAcrossChunkSizes(t *testing.T) {
	data := makeTestData(4000)
	filePath := writeTempFile(t, data)

	for _, chunkSize := range []int{1, 7, 4096, 10000} {
		fileStreamResponse := NewFileStreamResponse(filePath, chunkSize, true)
		if err := fileStreamResponse.Initialize(); err != nil {
			t.Fatalf("chunk size %d: initialize: %v", chunkSize, err)
		}

		if drained := drainStreamResponse(t, fileStreamResponse); !bytes.Equal(drained, data) {
			t.Errorf("chunk size %d: produced bytes differ from the file", chunkSize)
		}

		if err := fileStreamResponse.Close(); err != nil {
			t.Errorf("chunk size %d: close: %v", chunkSize, err)
		}
	}
}

func TestFileStreamResponse_AbsentAfterEndOfStream(t *testing.T) {
	fileStreamResponse := NewFileStreamResponse(writeTempFile(t, makeTestData(10)), 64, false)
	if err := fileStreamResponse.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer fileStreamResponse.Close()

	drainStreamResponse(t, fileStreamResponse)

	for i := 0; i < 2; i++ {
		buffer, err := fileStreamResponse.NextBuffer(context.Background())
		if err != nil {
			t.Fatalf("next buffer after end: %v", err)
		}
		if buffer != nil {
			t.Fatalf("expected absent buffer after end of stream")
		}
	}
}

func TestFileStreamResponse_InitializeMissingFile(t *testing.T) {
	fileStreamResponse := NewFileStreamResponse(filepath.Join(t.TempDir(), "missing.bin"), 64, false)
	if err := fileStreamResponse.Initialize(); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

package response

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Motmedel/httpcore_go/pkg/status"
)

func TestStatusLine(t *testing.T) {
	response := New()
	response.SetStatusCode(status.NotFound)

	if statusLine := response.StatusLine(); statusLine != "HTTP/1.1 404 Not Found" {
		t.Errorf("unexpected status line: %q", statusLine)
	}
}

func TestWrite_LiteralBody(t *testing.T) {
	response := New()
	response.SetHeader("X-First", "1")
	response.AddHeader("Set-Cookie", "a=1")
	response.AddHeader("Set-Cookie", "b=2")
	response.SetBodyUnencoded([]byte("hello"))

	var buffer bytes.Buffer
	if err := response.Write(context.Background(), &buffer); err != nil {
		t.Fatalf("write: %v", err)
	}

	expected := "HTTP/1.1 200 OK\r\n" +
		"X-First: 1\r\n" +
		"Set-Cookie: a=1\r\n" +
		"Set-Cookie: b=2\r\n" +
		"Content-Length: 5\r\n" +
		"\r\n" +
		"hello"
	if serialized := buffer.String(); serialized != expected {
		t.Errorf("unexpected serialization:\n%q\nexpected:\n%q", serialized, expected)
	}
}

func TestWrite_NilWriter(t *testing.T) {
	response := New()
	if err := response.Write(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil writer")
	}
}

func TestWrite_ChunkedStream(t *testing.T) {
	content := makeRangeContent(10_000)
	filePath := filepath.Join(t.TempDir(), "content.bin")
	if err := os.WriteFile(filePath, content, 0o600); err != nil {
		t.Fatalf("os write file: %v", err)
	}

	response := New()
	if err := response.SetStreamFile(context.Background(), filePath, makeRequest(), 1024); err != nil {
		t.Fatalf("set stream file: %v", err)
	}

	var buffer bytes.Buffer
	if err := response.Write(context.Background(), &buffer); err != nil {
		t.Fatalf("write: %v", err)
	}

	serialized := buffer.String()
	if !strings.HasSuffix(serialized, "0\r\n\r\n") {
		t.Errorf("serialization does not end with the final chunk marker")
	}

	// The standard library's chunked reader validates the framing.
	headerBodySplit := strings.Index(serialized, "\r\n\r\n")
	if headerBodySplit == -1 {
		t.Fatal("no header terminator in the serialization")
	}

	bodyReader := bufio.NewReader(strings.NewReader(serialized))
	httpResponse, err := http.ReadResponse(bodyReader, nil)
	if err != nil {
		t.Fatalf("http read response: %v", err)
	}
	defer httpResponse.Body.Close()

	decoded, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		t.Fatalf("io read all: %v", err)
	}

	if !bytes.Equal(decoded, content) {
		t.Errorf("dechunked bytes differ from the file content")
	}
}

func TestBodyStreamer(t *testing.T) {
	t.Run("literal body yields once", func(t *testing.T) {
		response := New()
		response.SetBodyUnencoded([]byte("literal"))

		var yielded [][]byte
		for data, err := range response.BodyStreamer(context.Background()) {
			if err != nil {
				t.Fatalf("body streamer: %v", err)
			}
			yielded = append(yielded, data)
		}

		if len(yielded) != 1 || !bytes.Equal(yielded[0], []byte("literal")) {
			t.Errorf("unexpected yields: %v", yielded)
		}
	})

	t.Run("streamed body yields until exhausted", func(t *testing.T) {
		content := makeRangeContent(5000)
		filePath := filepath.Join(t.TempDir(), "content.bin")
		if err := os.WriteFile(filePath, content, 0o600); err != nil {
			t.Fatalf("os write file: %v", err)
		}

		response := New()
		if err := response.SetStreamFile(context.Background(), filePath, makeRequest(), 512); err != nil {
			t.Fatalf("set stream file: %v", err)
		}

		var streamed []byte
		for data, err := range response.BodyStreamer(context.Background()) {
			if err != nil {
				t.Fatalf("body streamer: %v", err)
			}
			streamed = append(streamed, data...)
		}

		if !bytes.Equal(streamed, content) {
			t.Errorf("streamed bytes differ from the file content")
		}
	})

	t.Run("empty body yields nothing", func(t *testing.T) {
		response := New()

		count := 0
		for range response.BodyStreamer(context.Background()) {
			count++
		}

		if count != 0 {
			t.Errorf("expected no yields, got %d", count)
		}
	})
}

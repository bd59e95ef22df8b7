package request

import (
	"net/http"
	"strings"

	"github.com/Motmedel/utils_go/pkg/http/parsing/headers/accept_encoding"
	motmedelHttpTypes "github.com/Motmedel/utils_go/pkg/http/types"
)

// Request is the read-only view of a parsed request that response generation
// consumes. A Request and the Response built from it are owned by a single
// request-handling flow, so lazily computed state needs no locking.
type Request struct {
	Method   string
	Uri      string
	RootPath string
	BaseUri  string
	Header   http.Header

	acceptEncoding       *motmedelHttpTypes.AcceptEncoding
	parsedAcceptEncoding bool
}

func (request *Request) HeaderValue(name string) string {
	if request.Header == nil {
		return ""
	}
	return request.Header.Get(name)
}

func (request *Request) UserAgent() string {
	return request.HeaderValue("User-Agent")
}

// AcceptEncoding returns the parsed Accept-Encoding header, parsing it on
// first use. An absent or malformed header yields nil.
func (request *Request) AcceptEncoding() *motmedelHttpTypes.AcceptEncoding {
	if !request.parsedAcceptEncoding {
		request.parsedAcceptEncoding = true

		headerValue := request.HeaderValue("Accept-Encoding")
		if headerValue != "" {
			acceptEncoding, err := accept_encoding.ParseAcceptEncoding([]byte(headerValue))
			if err == nil {
				request.acceptEncoding = acceptEncoding
			}
		}
	}

	return request.acceptEncoding
}

// AcceptsEncoding reports whether the client declared support for a content
// coding with a non-zero quality value. A wildcard entry accepts any coding.
func (request *Request) AcceptsEncoding(coding string) bool {
	acceptEncoding := request.AcceptEncoding()
	if acceptEncoding == nil {
		return false
	}

	for _, encoding := range acceptEncoding.Encodings {
		if encoding == nil || encoding.QualityValue == 0 {
			continue
		}

		if encoding.Coding == "*" || strings.EqualFold(encoding.Coding, coding) {
			return true
		}
	}

	return false
}

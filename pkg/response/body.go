package response

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"os"
	"strings"

	motmedelGzip "github.com/Motmedel/utils_go/pkg/encoding/gzip"
	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	motmedelHttpUtils "github.com/Motmedel/utils_go/pkg/http/utils"

	"github.com/Motmedel/httpcore_go/pkg/encoding/deflate"
	mimeLookup "github.com/Motmedel/httpcore_go/pkg/mime"
	"github.com/Motmedel/httpcore_go/pkg/parsing/headers/range_header"
	"github.com/Motmedel/httpcore_go/pkg/request"
	responseErrors "github.com/Motmedel/httpcore_go/pkg/response/errors"
	"github.com/Motmedel/httpcore_go/pkg/response/stream"
	"github.com/Motmedel/httpcore_go/pkg/status"
)

// Formats that are already compressed; recompressing them breaks some
// clients, so SetStreamFile never wraps them in a compressor. Both the legacy
// and the modern gzip type names occur in the wild.
var preCompressedContentTypes = map[string]struct{}{
	"application/x-gzip":  {},
	"application/gzip":    {},
	"application/zip":     {},
	"application/x-bzip":  {},
	"application/x-bzip2": {},
	"application/x-tar":   {},
}

func (response *Response) Body() []byte {
	return response.body
}

func (response *Response) StreamResponse() stream.StreamResponse {
	return response.streamResponse
}

func (response *Response) setLiteralBody(content []byte) {
	response.clearStreamResponse()
	response.body = content
	response.setContentLength(len(content))
}

func (response *Response) setStreamResponse(streamResponse stream.StreamResponse) {
	response.clearStreamResponse()
	response.body = nil
	response.RemoveHeader("Content-Length")
	response.streamResponse = streamResponse
}

func (response *Response) clearStreamResponse() {
	if streamResponse := response.streamResponse; streamResponse != nil {
		response.streamResponse = nil
		if err := streamResponse.Close(); err != nil {
			slog.Warn(fmt.Sprintf("close stream response: %v", err))
		}
	}
}

// SetBody sets a literal body. A previously set Content-Encoding of gzip or
// deflate is honored by compressing the content; Content-Length always
// reflects the bytes that go on the wire.
func (response *Response) SetBody(ctx context.Context, content []byte) error {
	encoded := content

	switch response.ContentEncoding() {
	case GzipEncoding:
		data, err := motmedelGzip.MakeGzipData(ctx, content)
		if err != nil {
			return motmedelErrors.New(fmt.Errorf("make gzip data: %w", err))
		}
		encoded = data
	case DeflateEncoding:
		data, err := deflate.MakeDeflateData(ctx, content)
		if err != nil {
			return motmedelErrors.New(fmt.Errorf("make deflate data: %w", err))
		}
		encoded = data
	}

	response.setLiteralBody(encoded)

	return nil
}

// SetBodyUnencoded sets a literal body, discarding any Content-Encoding.
func (response *Response) SetBodyUnencoded(content []byte) {
	response.RemoveHeader("Content-Encoding")
	response.setLiteralBody(content)
}

// SetCacheableBody sets a body validated with an ETag: a matching
// If-None-Match yields 304 with no body. Used when range support is not
// needed.
func (response *Response) SetCacheableBody(ctx context.Context, content []byte, req *request.Request) error {
	if req == nil {
		return motmedelErrors.NewWithTrace(responseErrors.ErrNilRequest)
	}

	etag := ETagForContent(content)
	response.SetHeader("ETag", etag)
	response.SetCacheWithRevalidationHeaders()

	if motmedelHttpUtils.IfNoneMatchCacheHit(req.HeaderValue("If-None-Match"), etag) {
		response.SetStatusCode(status.NotModified)
		response.setLiteralBody(nil)
		return nil
	}

	if err := response.SetBody(ctx, content); err != nil {
		return fmt.Errorf("set body: %w", err)
	}

	return nil
}

func (response *Response) SetCacheableFileBody(ctx context.Context, filePath string, req *request.Request) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return motmedelErrors.New(fmt.Errorf("os read file: %w", err), filePath)
	}

	if err := response.SetCacheableBody(ctx, content, req); err != nil {
		return fmt.Errorf("set cacheable body: %w", err)
	}

	return nil
}

// SetDynamicHtml sets a generated HTML body: never cached, gzipped when the
// client supports it.
func (response *Response) SetDynamicHtml(ctx context.Context, htmlContent string, req *request.Request) error {
	if req == nil {
		return motmedelErrors.NewWithTrace(responseErrors.ErrNilRequest)
	}

	response.SetContentType("text/html")
	response.SetNoCacheHeaders()

	if req.AcceptsEncoding(GzipEncoding) {
		response.SetContentEncoding(GzipEncoding)
	}

	if err := response.SetBody(ctx, []byte(htmlContent)); err != nil {
		return fmt.Errorf("set body: %w", err)
	}

	return nil
}

func (response *Response) setRangeNotSatisfiable(totalLength uint64) {
	response.SetStatusCode(status.RangeNotSatisfiable)
	response.AddHeader("Content-Range", fmt.Sprintf("bytes */%d", totalLength))
}

// SetRangeableFile serves content honoring the request's Range header. An
// absent header is not a malformed one: it skips range handling entirely and
// serves the full body with status 200. A header that fails the grammar
// yields 416 with `Content-Range: bytes */<total>`.
func (response *Response) SetRangeableFile(
	ctx context.Context,
	content []byte,
	mimeType string,
	req *request.Request,
) error {
	if req == nil {
		return motmedelErrors.NewWithTrace(responseErrors.ErrNilRequest)
	}

	response.SetContentType(mimeType)

	totalLength := uint64(len(content))

	rangeHeaderValue := req.HeaderValue("Range")
	if rangeHeaderValue == "" {
		if req.AcceptsEncoding(GzipEncoding) {
			response.SetContentEncoding(GzipEncoding)
		}
		if err := response.SetBody(ctx, content); err != nil {
			return fmt.Errorf("set body: %w", err)
		}
		return nil
	}

	byteRange, err := range_header.ParseRangeHeader([]byte(rangeHeaderValue))
	if err != nil {
		if errors.Is(err, motmedelErrors.ErrSyntaxError) {
			response.setRangeNotSatisfiable(totalLength)
			return nil
		}
		return motmedelErrors.New(fmt.Errorf("parse range header: %w", err), rangeHeaderValue)
	}

	if totalLength == 0 {
		// No range is satisfiable against an empty resource.
		response.setRangeNotSatisfiable(totalLength)
		return nil
	}

	begin, end := byteRange.Resolve(totalLength)
	if end > totalLength-1 {
		end = totalLength - 1
	}
	if begin > end {
		response.setRangeNotSatisfiable(totalLength)
		return nil
	}

	response.SetStatusCode(status.PartialContent)
	response.AddHeader("Accept-Ranges", "bytes")
	response.AddHeader("Content-Range", fmt.Sprintf("bytes %d-%d/%d", begin, end, totalLength))

	// Compression is still permitted on ranged responses.
	if req.AcceptsEncoding(GzipEncoding) {
		response.SetContentEncoding(GzipEncoding)
	}

	rangeContent := content
	if !(begin == 0 && end == totalLength-1) {
		rangeContent = content[begin : end+1]
	}

	if err := response.SetBody(ctx, rangeContent); err != nil {
		return fmt.Errorf("set body: %w", err)
	}

	return nil
}

func (response *Response) SetRangeableFileFromPath(ctx context.Context, filePath string, req *request.Request) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		wrappedErr := motmedelErrors.New(fmt.Errorf("os read file: %w", err), filePath)
		response.SetInternalServerError(wrappedErr)
		return wrappedErr
	}

	mimeType, err := mimeLookup.TypeByPath(filePath)
	if err != nil || mimeType == "" {
		mimeType = mimeLookup.DefaultContentType
	}

	if err := response.SetRangeableFile(ctx, content, mimeType, req); err != nil {
		return fmt.Errorf("set rangeable file: %w", err)
	}

	return nil
}

// SetStreamFile configures a streamed, chunked-transfer file body, compressed
// on the fly when the client and the content type allow it. A producer that
// cannot initialize degrades into an internal-error response.
func (response *Response) SetStreamFile(
	ctx context.Context,
	filePath string,
	req *request.Request,
	chunkSize int,
) error {
	if req == nil {
		return motmedelErrors.NewWithTrace(responseErrors.ErrNilRequest)
	}

	contentType, err := mimeLookup.TypeByPath(filePath)
	if err != nil || contentType == "" {
		contentType = mimeLookup.DefaultContentType
	}
	response.SetContentType(contentType)

	_, preCompressed := preCompressedContentTypes[contentType]

	var compressionType *stream.CompressionType
	if !preCompressed {
		preferredEncodings := response.PreferredEncodings
		if preferredEncodings == nil {
			preferredEncodings = DefaultPreferredEncodings
		}

		for _, encoding := range preferredEncodings {
			if !req.AcceptsEncoding(encoding) {
				continue
			}

			var encodingCompressionType stream.CompressionType
			switch encoding {
			case GzipEncoding:
				encodingCompressionType = stream.CompressionType_Gzip
			case DeflateEncoding:
				encodingCompressionType = stream.CompressionType_Deflate
			default:
				continue
			}

			response.SetContentEncoding(encoding)
			compressionType = &encodingCompressionType
			break
		}
	}

	response.SetHeader("Transfer-Encoding", "chunked")

	var padding bool
	if paddingChecker := response.PaddingChecker; paddingChecker != nil {
		padding = paddingChecker(req, filePath)
	}

	var streamResponse stream.StreamResponse = stream.NewFileStreamResponse(filePath, chunkSize, padding)
	if compressionType != nil {
		streamResponse = stream.NewCompressionStreamResponse(streamResponse, chunkSize, *compressionType)
	}

	if err := streamResponse.Initialize(); err != nil {
		if closeErr := streamResponse.Close(); closeErr != nil {
			slog.Warn(fmt.Sprintf("close stream response: %v", closeErr))
		}
		response.SetInternalServerError(motmedelErrors.New(fmt.Errorf("initialize: %w", err), filePath))
		return nil
	}

	response.setStreamResponse(streamResponse)

	return nil
}

// SetError sets an error response: caching headers cleared so error pages are
// never cached, and the message HTML-escaped because it may embed
// request-derived text.
func (response *Response) SetError(statusCode int, message string) {
	response.SetStatusCode(statusCode)
	response.RemoveCachingHeaders()
	response.SetContentType("text/html")
	response.SetBodyUnencoded([]byte(html.EscapeString(message)))
}

func (response *Response) SetInternalServerError(err error) {
	var message string
	if err != nil {
		message = err.Error()
	}
	response.SetError(status.InternalServerError, message)
}

// SetNotFoundError delegates to the registered NotFoundHandler when one is
// set, and otherwise emits a generic 404 naming the request URI.
func (response *Response) SetNotFoundError(req *request.Request) error {
	if req == nil {
		return motmedelErrors.NewWithTrace(responseErrors.ErrNilRequest)
	}

	if notFoundHandler := response.NotFoundHandler; notFoundHandler != nil {
		notFoundHandler(req, response)
		return nil
	}

	response.SetError(status.NotFound, req.Uri+" not found")

	return nil
}

// SetNotFoundUriError is for the rare case where the missing resource is
// derived from the request rather than being the request URI itself; it
// bypasses the NotFoundHandler and simply names the URI.
func (response *Response) SetNotFoundUriError(uri string) {
	response.SetError(status.NotFound, uri+" not found")
}

// Only take up to the first line break, to prevent response splitting via
// attacker-controlled redirect targets.
func safeLocation(location string) string {
	if index := strings.IndexAny(location, "\r\n"); index != -1 {
		return location[:index]
	}
	return location
}

func completeUrl(baseUri string, path string) string {
	baseUrl, err := url.Parse(baseUri)
	if err != nil {
		return path
	}

	pathUrl, err := url.Parse(path)
	if err != nil {
		return path
	}

	return baseUrl.ResolveReference(pathUrl).String()
}

func (response *Response) redirectUri(req *request.Request, location string) string {
	path := location
	if parsedLocation, err := url.Parse(location); err != nil || parsedLocation.Scheme == "" {
		path = req.RootPath + "/" + safeLocation(location)
	}

	return completeUrl(req.BaseUri, path)
}

func (response *Response) SetMovedPermanently(req *request.Request, location string) error {
	if req == nil {
		return motmedelErrors.NewWithTrace(responseErrors.ErrNilRequest)
	}

	uri := response.redirectUri(req, location)
	response.SetError(status.MovedPermanently, uri)
	response.SetHeader("Location", uri)

	return nil
}

func (response *Response) SetMovedTemporarily(req *request.Request, location string) error {
	if req == nil {
		return motmedelErrors.NewWithTrace(responseErrors.ErrNilRequest)
	}

	uri := response.redirectUri(req, location)
	response.SetError(status.MovedTemporarily, uri)
	response.SetHeader("Location", uri)

	return nil
}

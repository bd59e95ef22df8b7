package response

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"
	"time"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	contentSecurityPolicy "github.com/Motmedel/utils_go/pkg/http/types/content_security_policy"

	"github.com/Motmedel/httpcore_go/pkg/request"
	responseErrors "github.com/Motmedel/httpcore_go/pkg/response/errors"
	"github.com/Motmedel/httpcore_go/pkg/response/stream"
	"github.com/Motmedel/httpcore_go/pkg/status"
	cookieTypes "github.com/Motmedel/httpcore_go/pkg/types/cookie"
	"github.com/Motmedel/httpcore_go/pkg/types/header"
)

// DefaultPreferredEncodings orders gzip before deflate: clients have been
// observed to advertise deflate support they do not actually have.
var DefaultPreferredEncodings = []string{GzipEncoding, DeflateEncoding}

const (
	GzipEncoding    = "gzip"
	DeflateEncoding = "deflate"
)

// Response owns the status line, the ordered header list and the body of one
// HTTP response. The body is either a literal byte sequence or a streaming
// producer, never both; the body-setting operations keep that invariant.
//
// A Response is owned by the single request-handling flow that created it.
type Response struct {
	HttpVersionMajor int
	HttpVersionMinor int

	// NotFoundHandler, when set, takes over SetNotFoundError.
	NotFoundHandler func(*request.Request, *Response)

	// PaddingChecker decides whether a streamed file must be padded up to the
	// transport's minimum framing size. Unset means no padding.
	PaddingChecker func(*request.Request, string) bool

	// PreferredEncodings overrides DefaultPreferredEncodings for SetStreamFile.
	PreferredEncodings []string

	statusCode     int
	statusMessage  string
	headers        []*header.Entry
	body           []byte
	streamResponse stream.StreamResponse
}

func New() *Response {
	return &Response{HttpVersionMajor: 1, HttpVersionMinor: 1, statusCode: status.Ok}
}

func (response *Response) StatusCode() int {
	return response.statusCode
}

func (response *Response) SetStatusCode(statusCode int) {
	response.statusCode = statusCode
}

// StatusMessage derives the reason phrase from the status code on first
// access and caches it. An explicit SetStatusMessage wins.
func (response *Response) StatusMessage() string {
	if response.statusMessage == "" {
		response.statusMessage = status.Message(response.statusCode)
	}
	return response.statusMessage
}

func (response *Response) SetStatusMessage(statusMessage string) {
	response.statusMessage = statusMessage
}

// Reset restores the zero response state: status 200, no cached message.
func (response *Response) Reset() {
	response.statusCode = status.Ok
	response.statusMessage = ""
}

func (response *Response) Headers() []*header.Entry {
	return response.headers
}

func (response *Response) HeaderValue(name string) string {
	return header.Value(response.headers, name)
}

func (response *Response) SetHeader(name string, value string) {
	response.headers = header.Set(response.headers, name, value)
}

func (response *Response) AddHeader(name string, value string) {
	response.headers = header.Add(response.headers, name, value)
}

func (response *Response) RemoveHeader(name string) {
	response.headers = header.Remove(response.headers, name)
}

func (response *Response) ContentType() string {
	return response.HeaderValue("Content-Type")
}

func (response *Response) SetContentType(contentType string) {
	response.SetHeader("Content-Type", contentType)
}

func (response *Response) ContentEncoding() string {
	return response.HeaderValue("Content-Encoding")
}

func (response *Response) SetContentEncoding(encoding string) {
	response.SetHeader("Content-Encoding", encoding)
}

func (response *Response) setContentLength(contentLength int) {
	response.SetHeader("Content-Length", strconv.Itoa(contentLength))
}

func makeHttpDate(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04:05") + " GMT"
}

func (response *Response) SetCacheWithRevalidationHeaders() {
	response.SetHeader("Expires", makeHttpDate(time.Now()))
	response.SetHeader("Cache-Control", "public, max-age=0, must-revalidate")
}

func (response *Response) SetCacheForeverHeaders() {
	response.setCacheForeverHeaders(true)
}

// SetPrivateCacheForeverHeaders keeps the Expires header in the future even
// though HTTP 1.0 proxies may then cache the resource; a past Expires was
// observed to defeat browser caching entirely on localhost.
func (response *Response) SetPrivateCacheForeverHeaders() {
	response.setCacheForeverHeaders(false)
}

func (response *Response) setCacheForeverHeaders(publicAccessibility bool) {
	yearDuration := 365 * 24 * time.Hour
	response.SetHeader("Expires", makeHttpDate(time.Now().Add(yearDuration)))

	accessibility := "private"
	if publicAccessibility {
		accessibility = "public"
	}
	response.SetHeader(
		"Cache-Control",
		fmt.Sprintf("%s, max-age=%d", accessibility, int(yearDuration/time.Second)),
	)
}

func (response *Response) SetNoCacheHeaders() {
	response.SetHeader("Expires", "Fri, 01 Jan 1990 00:00:00 GMT")
	response.SetHeader("Pragma", "no-cache")
	response.SetHeader("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
}

// RemoveCachingHeaders strips every caching-related header. It runs before
// any error body is set so that error pages are never cached.
func (response *Response) RemoveCachingHeaders() {
	response.RemoveHeader("Expires")
	response.RemoveHeader("Pragma")
	response.RemoveHeader("Cache-Control")
	response.RemoveHeader("Last-Modified")
	response.RemoveHeader("ETag")
}

// SetFrameOptionHeaders derives the framing policy headers from an options
// value: empty or "none" denies all framing, "same" allows same-origin
// framing, "any" emits nothing, and anything else names allowed origins.
// Named origins are also emitted as a frame-ancestors Content-Security-Policy
// because several browsers ignore ALLOW-FROM; when multiple space-separated
// origins are given, X-Frame-Options cannot express them and is suppressed,
// leaving only the CSP.
func (response *Response) SetFrameOptionHeaders(options string) {
	var option string

	if options == "" || options == "none" {
		option = "DENY"
	} else if options == "same" {
		option = "SAMEORIGIN"
	} else if options != "any" {
		option = "ALLOW-FROM " + options

		var sources []contentSecurityPolicy.SourceI
		for _, origin := range strings.Fields(options) {
			sources = append(sources, &contentSecurityPolicy.HostSource{Host: origin})
		}

		csp := &contentSecurityPolicy.ContentSecurityPolicy{
			Directives: []contentSecurityPolicy.DirectiveI{
				&contentSecurityPolicy.FrameAncestorsDirective{
					SourceDirective: contentSecurityPolicy.SourceDirective{
						Directive: contentSecurityPolicy.Directive{
							Name:    "frame-ancestors",
							RawName: "frame-ancestors",
						},
						Sources: sources,
					},
				},
			},
		}
		response.SetHeader("Content-Security-Policy", csp.String())
	}

	if option != "" && !strings.Contains(strings.TrimSpace(options), " ") {
		response.SetHeader("X-Frame-Options", option)
	}
}

// SetBrowserCompatible marks responses for legacy Internet Explorer engines.
func (response *Response) SetBrowserCompatible(req *request.Request) error {
	if req == nil {
		return motmedelErrors.NewWithTrace(responseErrors.ErrNilRequest)
	}

	if strings.Contains(req.UserAgent(), "Trident") {
		response.SetHeader("X-UA-Compatible", "IE=edge")
	}

	return nil
}

// AddCookie emits the cookie, and, for SameSite=None cookies, the additional
// legacy cookie that non-conforming clients fall back to.
func (response *Response) AddCookie(responseCookie *cookieTypes.Cookie) error {
	if responseCookie == nil {
		return motmedelErrors.NewWithTrace(responseErrors.ErrNilCookie)
	}

	response.AddHeader("Set-Cookie", responseCookie.HeaderValue())

	if responseCookie.SameSite == cookieTypes.SameSite_None {
		response.AddHeader("Set-Cookie", cookieTypes.MakeLegacyCookie(responseCookie).HeaderValue())
	}

	return nil
}

// GetCookies returns the Set-Cookie entries, optionally filtered to the named
// cookies and their legacy shadows.
func (response *Response) GetCookies(names ...string) []*header.Entry {
	var entries []*header.Entry

	for _, entry := range response.headers {
		if entry == nil || entry.Name != "Set-Cookie" {
			continue
		}

		if len(names) == 0 {
			entries = append(entries, entry)
			continue
		}

		for _, name := range names {
			if strings.HasPrefix(entry.Value, name) ||
				strings.HasPrefix(entry.Value, name+cookieTypes.LegacyCookieSuffix) {
				entries = append(entries, entry)
				break
			}
		}
	}

	return entries
}

func (response *Response) ClearCookies() {
	response.RemoveHeader("Set-Cookie")
}

// ETagForContent returns a fast non-cryptographic checksum used purely for
// cache validation.
func ETagForContent(content []byte) string {
	return strconv.FormatUint(uint64(crc32.ChecksumIEEE(content)), 16)
}

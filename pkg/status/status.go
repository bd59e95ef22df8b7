package status

import "net/http"

// The subsystem only ever emits codes from this set; the numeric values come
// from net/http except TooManyRedirects, which has no stdlib constant.
const (
	SwitchingProtocols  = http.StatusSwitchingProtocols
	Ok                  = http.StatusOK
	Created             = http.StatusCreated
	PartialContent      = http.StatusPartialContent
	MovedPermanently    = http.StatusMovedPermanently
	MovedTemporarily    = http.StatusFound
	SeeOther            = http.StatusSeeOther
	NotModified         = http.StatusNotModified
	TooManyRedirects    = 310
	BadRequest          = http.StatusBadRequest
	Unauthorized        = http.StatusUnauthorized
	Forbidden           = http.StatusForbidden
	NotFound            = http.StatusNotFound
	MethodNotAllowed    = http.StatusMethodNotAllowed
	RangeNotSatisfiable = http.StatusRequestedRangeNotSatisfiable
	InternalServerError = http.StatusInternalServerError
	NotImplemented      = http.StatusNotImplemented
	BadGateway          = http.StatusBadGateway
	ServiceUnavailable  = http.StatusServiceUnavailable
	GatewayTimeout      = http.StatusGatewayTimeout
)

// statusCodeToMessage carries the historical reason phrases of the session
// server, some of which differ from the stdlib text. Clients are known to
// match on them, so they are kept verbatim.
var statusCodeToMessage = map[int]string{
	SwitchingProtocols:  "SwitchingProtocols",
	Ok:                  "OK",
	Created:             "Created",
	PartialContent:      "Partial Content",
	MovedPermanently:    "Moved Permanently",
	MovedTemporarily:    "Moved Temporarily",
	SeeOther:            "See Other",
	NotModified:         "Not Modified",
	TooManyRedirects:    "Too Many Redirects",
	BadRequest:          "Bad Request",
	Unauthorized:        "Unauthorized",
	Forbidden:           "Forbidden",
	NotFound:            "Not Found",
	MethodNotAllowed:    "Method Not Allowed",
	RangeNotSatisfiable: "Range Not Satisfyable",
	InternalServerError: "Internal Server Error",
	NotImplemented:      "Not Implemented",
	BadGateway:          "Bad Gateway",
	ServiceUnavailable:  "Service Unavailable",
	GatewayTimeout:      "Gateway Timeout",
}

// Message returns the reason phrase for a status code, or the empty string
// when the code is not one the subsystem emits.
func Message(statusCode int) string {
	return statusCodeToMessage[statusCode]
}

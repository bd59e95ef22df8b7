package cookie

import (
	"fmt"
	"strings"
	"time"
)

// LegacyCookieSuffix is appended to the name of the shadow cookie that
// accompanies a SameSite=None cookie. Clients that do not understand
// SameSite=None drop the primary cookie and fall back to the suffixed one.
const LegacyCookieSuffix = "-legacy"

type SameSite int

const (
	SameSite_Undefined SameSite = iota
	SameSite_None
	SameSite_Lax
	SameSite_Strict
)

func (sameSite SameSite) String() string {
	switch sameSite {
	case SameSite_None:
		return "None"
	case SameSite_Lax:
		return "Lax"
	case SameSite_Strict:
		return "Strict"
	}
	return ""
}

type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expiry   time.Time
	Secure   bool
	HttpOnly bool
	SameSite SameSite
}

// HeaderValue renders the cookie as a Set-Cookie header value. A zero Expiry
// yields a session cookie (no expires attribute).
func (cookie *Cookie) HeaderValue() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%s=%s", cookie.Name, cookie.Value))

	if !cookie.Expiry.IsZero() {
		builder.WriteString("; expires=" + cookie.Expiry.UTC().Format("Mon, 02 Jan 2006 15:04:05") + " GMT")
	}

	if cookie.Domain != "" {
		builder.WriteString("; domain=" + cookie.Domain)
	}

	if cookie.Path != "" {
		builder.WriteString("; path=" + cookie.Path)
	}

	if sameSiteString := cookie.SameSite.String(); sameSiteString != "" {
		builder.WriteString("; SameSite=" + sameSiteString)
	}

	if cookie.Secure {
		builder.WriteString("; Secure")
	}

	if cookie.HttpOnly {
		builder.WriteString("; HttpOnly")
	}

	return builder.String()
}

// MakeLegacyCookie returns the shadow cookie emitted next to a SameSite=None
// cookie: same attributes, suffixed name, no SameSite attribute.
func MakeLegacyCookie(cookie *Cookie) *Cookie {
	if cookie == nil {
		return nil
	}

	legacyCookie := *cookie
	legacyCookie.Name = cookie.Name + LegacyCookieSuffix
	legacyCookie.SameSite = SameSite_Undefined

	return &legacyCookie
}

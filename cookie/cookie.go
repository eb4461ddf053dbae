// Package cookie defines the cookie-like collaborator used by the webstore
// facade for the Cookie and LocalCookieStorage types, with an in-memory jar
// and a jar bound to one HTTP request/response pair.
package cookie

import (
	"errors"
	"net/http"
)

// MaxValueBytes is the per-cookie budget browsers commonly enforce.
const MaxValueBytes = 4096

var ErrTooLarge = errors.New("cookie: value too large")

// Options mirror the attributes the facade controls.
// ExpiresInDays <= 0 means a session cookie.
type Options struct {
	ExpiresInDays int
	Path          string
	Secure        bool
	SameSite      http.SameSite
}

type Jar interface {
	Get(name string) (string, bool)
	Set(name, value string, opts Options) error
	// Remove must be a no-op for absent cookies.
	Remove(name string, opts Options) error
}

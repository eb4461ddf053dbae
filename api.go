package webstore

import (
	"time"

	"github.com/unkn0wn-root/webstore/backend"
	"github.com/unkn0wn-root/webstore/codec"
	"github.com/unkn0wn-root/webstore/cookie"
	"github.com/unkn0wn-root/webstore/keyspace"
)

const (
	// DefaultTTL applies when a Set call carries no WithTTL option.
	DefaultTTL = 24 * time.Hour
	// MaxTTL caps TTLs in the Others bucket.
	MaxTTL = 30 * 24 * time.Hour
)

type Bucket = keyspace.Bucket

const (
	Persisted = keyspace.Persisted
	Auth      = keyspace.Auth
	Others    = keyspace.Others
)

// StorageType selects where a facade call is routed.
type StorageType int

const (
	LocalStorage StorageType = iota
	SessionStorage
	Cookie
	// LocalCookieStorage writes the durable entry and a cookie; reads prefer
	// the durable entry and fall back to the cookie.
	LocalCookieStorage
)

func (t StorageType) String() string {
	switch t {
	case LocalStorage:
		return "local"
	case SessionStorage:
		return "session"
	case Cookie:
		return "cookie"
	case LocalCookieStorage:
		return "local+cookie"
	default:
		return "unknown"
	}
}

// Options configure the Storage facade.
// A nil backend is treated as unsupported, not as an error.
type Options struct {
	Local   backend.Backend // durable store; its probe gates every facade call
	Session backend.Backend
	Cookies cookie.Jar // nil => in-memory jar

	Codec  codec.Codec      // nil => codec.JSON{}
	Logger Logger           // nil => NopLogger
	Hooks  Hooks            // nil => NopHooks
	Now    func() time.Time // nil => time.Now

	DefaultTTL time.Duration // 0 => DefaultTTL
	MaxTTL     time.Duration // 0 => MaxTTL; Others bucket only
}

// StoreOptions configure a single Store.
type StoreOptions struct {
	Name   string      // used in logs and hooks; "" => "store"
	Codec  codec.Codec // nil => codec.JSON{}
	Logger Logger
	Hooks  Hooks
	Now    func() time.Time
}

// Option adjusts a single facade call.
type Option func(*callOptions)

type callOptions struct {
	bucket Bucket
	ttl    time.Duration
}

// InBucket routes the call to bucket b. Default Others.
// Ignored for the plain Cookie storage type.
func InBucket(b Bucket) Option {
	return func(o *callOptions) { o.bucket = b }
}

// WithTTL sets the entry lifetime. d <= 0 means no expiry and removes any
// previous expiry. In the Others bucket d is capped to the maximum TTL.
func WithTTL(d time.Duration) Option {
	return func(o *callOptions) { o.ttl = d }
}

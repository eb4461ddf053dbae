package webstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/unkn0wn-root/webstore/codec"
	"github.com/unkn0wn-root/webstore/cookie"
	"github.com/unkn0wn-root/webstore/keyspace"
)

const (
	localName   = "local"
	sessionName = "session"
	cookiePath  = "/"
)

// Storage is the facade over a durable store, a session store and a cookie
// jar. No method returns an error or panics: failures degrade to false/nil
// and are logged at warn level only when warnings are enabled for the store.
//
// Every call fails fast, without touching any backend, when the durable
// store is unsupported, whatever the requested StorageType.
type Storage struct {
	local   *Store
	session *Store
	cookies cookie.Jar
	codec   codec.Codec
	log     Logger

	defaultTTL time.Duration
	maxTTL     time.Duration
}

func New(ctx context.Context, opts Options) (*Storage, error) {
	if opts.DefaultTTL < 0 {
		return nil, fmt.Errorf("webstore: negative default TTL %s", opts.DefaultTTL)
	}
	if opts.MaxTTL < 0 {
		return nil, fmt.Errorf("webstore: negative max TTL %s", opts.MaxTTL)
	}

	s := &Storage{
		cookies:    opts.Cookies,
		codec:      opts.Codec,
		log:        coalesce[Logger](opts.Logger, NopLogger{}),
		defaultTTL: coalesce(opts.DefaultTTL, DefaultTTL),
		maxTTL:     coalesce(opts.MaxTTL, MaxTTL),
	}
	if s.codec == nil {
		s.codec = codec.JSON{}
	}
	if s.cookies == nil {
		s.cookies = cookie.NewMemory(opts.Now)
	}

	so := StoreOptions{Codec: s.codec, Logger: s.log, Hooks: opts.Hooks, Now: opts.Now}
	so.Name = localName
	s.local = NewStore(ctx, opts.Local, so)
	so.Name = sessionName
	s.session = NewStore(ctx, opts.Session, so)

	if !s.local.Supported() {
		s.log.Info("durable storage unsupported; all operations disabled", nil)
	}
	return s, nil
}

// Local returns the durable store for direct (error-returning) access.
func (s *Storage) Local() *Store { return s.local }

// Session returns the session store.
func (s *Storage) Session() *Store { return s.session }

func (s *Storage) EnableLocalStorageWarning(on bool)   { s.local.SetWarnings(on) }
func (s *Storage) EnableSessionStorageWarning(on bool) { s.session.SetWarnings(on) }

// Close closes both backends.
func (s *Storage) Close(ctx context.Context) error {
	return errors.Join(s.local.Close(ctx), s.session.Close(ctx))
}

func (s *Storage) enabled() bool { return s.local.Supported() }

func (s *Storage) callOptions(opts []Option) callOptions {
	o := callOptions{bucket: Others, ttl: s.defaultTTL}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// effectiveTTL caps TTLs in the Others bucket. Other buckets are not capped,
// and a non-positive TTL is passed through as "no expiry" everywhere.
func (s *Storage) effectiveTTL(b Bucket, ttl time.Duration) time.Duration {
	if b == Others && ttl > s.maxTTL {
		return s.maxTTL
	}
	return ttl
}

func (s *Storage) store(st StorageType) *Store {
	if st == SessionStorage {
		return s.session
	}
	return s.local
}

// Get returns the value stored under key. ok is false on miss, expiry or any
// failure.
func (s *Storage) Get(ctx context.Context, key string, st StorageType, opts ...Option) (any, bool) {
	if !s.enabled() {
		return nil, false
	}
	o := s.callOptions(opts)
	switch st {
	case LocalStorage, SessionStorage:
		return s.getStore(ctx, s.store(st), key, o.bucket)
	case Cookie:
		return s.getCookie(key)
	case LocalCookieStorage:
		if v, ok := s.getStore(ctx, s.local, key, o.bucket); ok {
			return v, true
		}
		return s.getCookie(key)
	default:
		return nil, false
	}
}

// GetInto decodes the value stored under key into dst.
func (s *Storage) GetInto(ctx context.Context, key string, st StorageType, dst any, opts ...Option) bool {
	if !s.enabled() {
		return false
	}
	o := s.callOptions(opts)
	switch st {
	case LocalStorage, SessionStorage:
		return s.getStoreInto(ctx, s.store(st), key, o.bucket, dst)
	case Cookie:
		return s.getCookieInto(key, dst)
	case LocalCookieStorage:
		return s.getStoreInto(ctx, s.local, key, o.bucket, dst) || s.getCookieInto(key, dst)
	default:
		return false
	}
}

// Set stores data under key. Cookies are written with SameSite=Lax.
func (s *Storage) Set(ctx context.Context, key string, data any, st StorageType, opts ...Option) bool {
	return s.set(ctx, key, data, st, http.SameSiteLaxMode, opts)
}

// SetStrict is Set with SameSite=Strict cookies.
func (s *Storage) SetStrict(ctx context.Context, key string, data any, st StorageType, opts ...Option) bool {
	return s.set(ctx, key, data, st, http.SameSiteStrictMode, opts)
}

func (s *Storage) set(ctx context.Context, key string, data any, st StorageType, sameSite http.SameSite, opts []Option) bool {
	if !s.enabled() {
		return false
	}
	o := s.callOptions(opts)
	ttl := s.effectiveTTL(o.bucket, o.ttl)
	switch st {
	case LocalStorage, SessionStorage:
		return s.setStore(ctx, s.store(st), key, o.bucket, data, ttl)
	case Cookie:
		return s.setCookie(key, data, ttl, sameSite)
	case LocalCookieStorage:
		okStore := s.setStore(ctx, s.local, key, o.bucket, data, ttl)
		okCookie := s.setCookie(key, data, ttl, sameSite)
		return okStore && okCookie
	default:
		return false
	}
}

// ClearKey removes key. Removing an absent key is a no-op.
func (s *Storage) ClearKey(ctx context.Context, key string, st StorageType, opts ...Option) {
	if !s.enabled() {
		return
	}
	o := s.callOptions(opts)
	switch st {
	case LocalStorage, SessionStorage:
		s.removeStore(ctx, s.store(st), key, o.bucket)
	case Cookie:
		s.removeCookie(key)
	case LocalCookieStorage:
		s.removeStore(ctx, s.local, key, o.bucket)
		s.removeCookie(key)
	}
}

// Clear empties the Auth and Others buckets of the selected store and sweeps
// keys without a bucket. Persisted is never cleared here; use ClearBucket.
// Clearing Cookie storage is a no-op since jars cannot be enumerated.
func (s *Storage) Clear(ctx context.Context, st StorageType) {
	if !s.enabled() {
		return
	}
	switch st {
	case LocalStorage, LocalCookieStorage:
		s.clearStore(ctx, s.local)
	case SessionStorage:
		s.clearStore(ctx, s.session)
	}
}

// ClearBucket empties bucket b of the durable store, Persisted included.
func (s *Storage) ClearBucket(ctx context.Context, b Bucket) {
	if !s.enabled() {
		return
	}
	if _, err := s.local.Flush(ctx, b); err != nil {
		s.local.warn.warn("clear bucket failed", Fields{"bucket": b.String(), "err": err})
	}
}

func (s *Storage) clearStore(ctx context.Context, st *Store) {
	for _, b := range []Bucket{Auth, Others} {
		if _, err := st.Flush(ctx, b); err != nil {
			st.warn.warn("clear bucket failed", Fields{"store": st.name, "bucket": b.String(), "err": err})
		}
	}
	if _, err := st.SweepRogue(ctx); err != nil {
		st.warn.warn("sweep rogue keys failed", Fields{"store": st.name, "err": err})
	}
}

func (s *Storage) getStore(ctx context.Context, st *Store, key string, b Bucket) (any, bool) {
	k, err := keyspace.Make(b, key)
	if err != nil {
		st.warn.warn("invalid key", Fields{"store": st.name, "key": key, "err": err})
		return nil, false
	}
	v, err := st.Get(ctx, k)
	if err != nil {
		s.warnRead(st, k, err)
		return nil, false
	}
	return v, true
}

func (s *Storage) getStoreInto(ctx context.Context, st *Store, key string, b Bucket, dst any) bool {
	k, err := keyspace.Make(b, key)
	if err != nil {
		st.warn.warn("invalid key", Fields{"store": st.name, "key": key, "err": err})
		return false
	}
	if err := st.GetInto(ctx, k, dst); err != nil {
		s.warnRead(st, k, err)
		return false
	}
	return true
}

func (s *Storage) warnRead(st *Store, k keyspace.Key, err error) {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrExpired) {
		return
	}
	st.warn.warn("get failed", Fields{"store": st.name, "key": k.String(), "err": err})
}

func (s *Storage) setStore(ctx context.Context, st *Store, key string, b Bucket, data any, ttl time.Duration) bool {
	k, err := keyspace.Make(b, key)
	if err != nil {
		st.warn.warn("invalid key", Fields{"store": st.name, "key": key, "err": err})
		return false
	}
	if err := st.Set(ctx, k, data, ttl); err != nil {
		st.warn.warn("set failed", Fields{"store": st.name, "key": k.String(), "err": err})
		return false
	}
	return true
}

func (s *Storage) removeStore(ctx context.Context, st *Store, key string, b Bucket) {
	k, err := keyspace.Make(b, key)
	if err != nil {
		st.warn.warn("invalid key", Fields{"store": st.name, "key": key, "err": err})
		return
	}
	if err := st.Remove(ctx, k); err != nil {
		st.warn.warn("remove failed", Fields{"store": st.name, "key": k.String(), "err": err})
	}
}

// cookieDays converts a TTL to whole days, rounding up. 0 means a session
// cookie.
func cookieDays(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	const day = 24 * time.Hour
	return int((ttl + day - 1) / day)
}

// cookieCodec gates cookie paths on the same codec check as the stores.
func (s *Storage) cookieCodec(key string) bool {
	if s.local.codecOK {
		return true
	}
	s.local.warn.warn("cookie skipped", Fields{"key": key, "err": ErrCodecUnavailable})
	return false
}

func (s *Storage) setCookie(key string, data any, ttl time.Duration, sameSite http.SameSite) bool {
	if !s.cookieCodec(key) {
		return false
	}
	b, err := s.codec.Encode(data)
	if err != nil {
		s.local.warn.warn("cookie encode failed", Fields{"key": key, "err": err})
		return false
	}
	err = s.cookies.Set(key, string(b), cookie.Options{
		ExpiresInDays: cookieDays(ttl),
		Path:          cookiePath,
		Secure:        true,
		SameSite:      sameSite,
	})
	if err != nil {
		s.local.warn.warn("cookie set failed", Fields{"key": key, "err": err})
		return false
	}
	return true
}

func (s *Storage) getCookie(key string) (any, bool) {
	if !s.cookieCodec(key) {
		return nil, false
	}
	raw, ok := s.cookies.Get(key)
	if !ok {
		return nil, false
	}
	var v any
	if err := s.codec.Decode([]byte(raw), &v); err != nil {
		return raw, true
	}
	return v, true
}

func (s *Storage) getCookieInto(key string, dst any) bool {
	if !s.cookieCodec(key) {
		return false
	}
	raw, ok := s.cookies.Get(key)
	if !ok {
		return false
	}
	if err := s.codec.Decode([]byte(raw), dst); err != nil {
		if sp, ok := dst.(*string); ok {
			*sp = raw
			return true
		}
		s.local.warn.warn("cookie decode failed", Fields{"key": key, "err": err})
		return false
	}
	return true
}

func (s *Storage) removeCookie(key string) {
	if err := s.cookies.Remove(key, cookie.Options{Path: cookiePath}); err != nil {
		s.local.warn.warn("cookie remove failed", Fields{"key": key, "err": err})
	}
}

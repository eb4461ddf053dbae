// Package keyspace maps typed (bucket, name) keys onto the flat string
// keyspace of a backend.
//
// Layout:
//
//	<bucket>~$~<name>           - value
//	<bucket>~$~<name>-exptime   - expiry marker (whole minutes since epoch)
//
// A raw key without the separator belongs to no bucket ("rogue").
package keyspace

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Separator joins bucket and name. Bucket names may never contain it.
	Separator = "~$~"
	// MarkerSuffix is appended to a value key to form its expiry marker key.
	MarkerSuffix = "-exptime"
)

var ErrInvalidKey = errors.New("keyspace: invalid key")

// Bucket is a logical partition of one backend.
type Bucket string

const (
	// Persisted is never cleared by a storage-wide clear.
	Persisted Bucket = "persisted"
	Auth      Bucket = "auth"
	// Others is the catch-all bucket; it is reclaimed under quota pressure
	// and its TTLs are capped.
	Others Bucket = "others"
)

func (b Bucket) String() string { return string(b) }

// Valid reports whether b can be used as a key prefix.
func (b Bucket) Valid() bool {
	return b != "" && !strings.Contains(string(b), Separator)
}

// Owns reports whether raw is a value or marker key inside b.
func (b Bucket) Owns(raw string) bool {
	return strings.HasPrefix(raw, string(b)+Separator)
}

// Key addresses one entry.
type Key struct {
	Bucket Bucket
	Name   string
}

// Make validates and returns a Key.
// The name may contain the separator (only the first occurrence splits),
// but may not end with MarkerSuffix.
func Make(b Bucket, name string) (Key, error) {
	if !b.Valid() {
		return Key{}, fmt.Errorf("%w: bucket %q", ErrInvalidKey, b)
	}
	if name == "" {
		return Key{}, fmt.Errorf("%w: empty name", ErrInvalidKey)
	}
	if strings.HasSuffix(name, MarkerSuffix) {
		return Key{}, fmt.Errorf("%w: name %q ends with %q", ErrInvalidKey, name, MarkerSuffix)
	}
	return Key{Bucket: b, Name: name}, nil
}

// String returns the backend key of the value.
func (k Key) String() string { return string(k.Bucket) + Separator + k.Name }

// Marker returns the backend key of the expiry marker.
func (k Key) Marker() string { return k.String() + MarkerSuffix }

// Parse decomposes a raw backend key. ok is false for rogue keys.
// Marker keys parse to the Key of the value they belong to, with marker=true.
func Parse(raw string) (k Key, marker bool, ok bool) {
	i := strings.Index(raw, Separator)
	if i < 0 {
		return Key{}, false, false
	}
	b, name := Bucket(raw[:i]), raw[i+len(Separator):]
	if b == "" || name == "" {
		return Key{}, false, false
	}
	if strings.HasSuffix(name, MarkerSuffix) {
		name = strings.TrimSuffix(name, MarkerSuffix)
		if name == "" {
			return Key{}, false, false
		}
		return Key{Bucket: b, Name: name}, true, true
	}
	return Key{Bucket: b, Name: name}, false, true
}

// IsMarker reports whether raw is an expiry marker key.
func IsMarker(raw string) bool {
	_, marker, ok := Parse(raw)
	return ok && marker
}

// IsRogue reports whether raw lacks a bucket.
func IsRogue(raw string) bool {
	return !strings.Contains(raw, Separator)
}

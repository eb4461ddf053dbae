// Package codec turns values into the strings a backend stores.
//
// Backends only hold strings, so every codec output is stored verbatim as a
// Go string. JSON (the default) keeps values readable by foreign code; the
// binary codecs trade that for size.
package codec

import "errors"

var ErrTooLarge = errors.New("codec: payload too large")

// Codec encodes arbitrary values and decodes into a destination pointer.
// Decode into *any must produce a generic representation (maps, slices,
// numbers, strings) when the format allows it.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte, dst any) error
}

// Sampler is implemented by codecs that only accept a narrow set of values.
// Sample returns a value the codec can encode, used to check the codec once
// before a store starts using it.
type Sampler interface {
	Sample() any
}

// SampleFor returns c's own sample, or a small generic document.
func SampleFor(c Codec) any {
	if s, ok := c.(Sampler); ok {
		return s.Sample()
	}
	return map[string]any{"probe": "ok"}
}

package codec

import "fmt"

// LimitCodec wraps another codec to enforce a maximum allowed payload size
// at Decode time. Encode is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: protect against oversized inputs written into a shared
// backend by foreign code.
type LimitCodec struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec
	// MaxDecode is the maximum permitted length (in bytes) of the incoming
	// payload for Decode. If payload length exceeds MaxDecode, Decode returns
	// an error wrapping ErrTooLarge without invoking Inner.
	MaxDecode int
}

var (
	_ Codec   = LimitCodec{}
	_ Sampler = LimitCodec{}
)

func (c LimitCodec) Encode(v any) ([]byte, error) { return c.Inner.Encode(v) }
func (c LimitCodec) Decode(b []byte, dst any) error {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b, dst)
}

func (c LimitCodec) Sample() any { return SampleFor(c.Inner) }

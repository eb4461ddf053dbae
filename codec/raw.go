package codec

import "fmt"

// String stores string values verbatim. Useful when every value is already
// text and should stay readable by code that does not know about codecs.
// Encoding a non-string is an error.
type String struct{}

var (
	_ Codec   = String{}
	_ Sampler = String{}
)

func (String) Sample() any { return "ok" }

func (String) Encode(v any) ([]byte, error) {
	switch s := v.(type) {
	case string:
		return []byte(s), nil
	case []byte:
		return s, nil
	default:
		return nil, fmt.Errorf("codec: String cannot encode %T", v)
	}
}

func (String) Decode(b []byte, dst any) error {
	switch d := dst.(type) {
	case *string:
		*d = string(b)
	case *any:
		*d = string(b)
	case *[]byte:
		*d = append((*d)[:0], b...)
	default:
		return fmt.Errorf("codec: String cannot decode into %T", dst)
	}
	return nil
}

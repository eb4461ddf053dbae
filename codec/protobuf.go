package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Protobuf stores proto messages in their canonical JSON mapping so entries
// stay readable as JSON by code that has no descriptors. Decoding into a
// non-message destination (e.g. *any) falls back to plain JSON.
type Protobuf struct {
	marshal   protojson.MarshalOptions
	unmarshal protojson.UnmarshalOptions
}

var (
	_ Codec   = Protobuf{}
	_ Sampler = Protobuf{}
)

func NewProtobuf() Protobuf {
	return Protobuf{
		unmarshal: protojson.UnmarshalOptions{DiscardUnknown: true},
	}
}

func (c Protobuf) Encode(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("codec: Protobuf cannot encode %T", v)
	}
	return c.marshal.Marshal(m)
}

func (c Protobuf) Decode(b []byte, dst any) error {
	if m, ok := dst.(proto.Message); ok {
		return c.unmarshal.Unmarshal(b, m)
	}
	return json.Unmarshal(b, dst)
}

func (Protobuf) Sample() any { return wrapperspb.String("ok") }

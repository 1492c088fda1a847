// Package codec registers the JSON wire codec used by the safety gRPC API.
//
// Messages are plain Go structs; protobuf messages such as well-known types are
// encoded with protojson so they keep their canonical JSON form.
package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Name is the content subtype negotiated by clients, as in "application/grpc+json".
const Name = "json"

// Codec marshals gRPC messages as JSON.
type Codec struct{}

// Marshal encodes v.
func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}

	return data, nil
}

// Unmarshal decodes data into v.
func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %T: %w", v, err)
	}

	return nil
}

// Name returns the codec name.
func (Codec) Name() string {
	return Name
}

//nolint:gochecknoinits // Codecs must be registered before any server or client starts.
func init() {
	encoding.RegisterCodec(Codec{})
}

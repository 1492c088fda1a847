package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type sample struct {
	Name      string                 `json:"name"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
}

// TestCodec_Registered checks the codec is available to gRPC under its name.
func TestCodec_Registered(t *testing.T) {
	t.Parallel()

	require.NotNil(t, encoding.GetCodec(Name))
	require.Equal(t, Name, Codec{}.Name())
}

// TestCodec_PlainStructs encodes structs carrying proto timestamps.
func TestCodec_PlainStructs(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 8, 10, 30, 0, 0, time.UTC)

	data, err := Codec{}.Marshal(&sample{Name: "alert", CreatedAt: timestamppb.New(at)})
	require.NoError(t, err)

	var got sample
	require.NoError(t, Codec{}.Unmarshal(data, &got))
	require.Equal(t, "alert", got.Name)
	require.Equal(t, at, got.CreatedAt.AsTime())
}

// TestCodec_ProtoMessages uses the canonical protobuf JSON form.
func TestCodec_ProtoMessages(t *testing.T) {
	t.Parallel()

	data, err := Codec{}.Marshal(timestamppb.New(time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.JSONEq(t, `"2025-03-08T00:00:00Z"`, string(data))

	got := new(timestamppb.Timestamp)
	require.NoError(t, Codec{}.Unmarshal(data, got))
	require.Equal(t, int64(1741392000), got.GetSeconds())

	require.Error(t, Codec{}.Unmarshal([]byte("{"), new(sample)))
}

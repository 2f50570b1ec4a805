package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/wirescope/wirescope/wire"
)

func TestDecode_Scalars(t *testing.T) {
	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 150)
	buf = protowire.AppendTag(buf, 2, protowire.Fixed32Type)
	buf = protowire.AppendFixed32(buf, 0x12345678)
	buf = protowire.AppendTag(buf, 3, protowire.Fixed64Type)
	buf = protowire.AppendFixed64(buf, 0x1122334455667788)

	got, err := Decode(buf, wire.DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, uint64(150), got["field_1"])
	assert.Equal(t, uint32(0x12345678), got["field_2"])
	assert.Equal(t, uint64(0x1122334455667788), got["field_3"])
}

func TestDecode_RepeatedFieldBecomesSlice(t *testing.T) {
	// field 1 appears twice: 08 01 08 02
	buf := []byte{0x08, 0x01, 0x08, 0x02}

	got, err := Decode(buf, wire.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, []interface{}{uint64(1), uint64(2)}, got["field_1"])
}

func TestDecode_StringBeatsBytes(t *testing.T) {
	buf := protowire.AppendTag(nil, 1, protowire.BytesType)
	buf = protowire.AppendString(buf, "test")

	got, err := Decode(buf, wire.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, "test", got["field_1"])
}

func TestDecode_EmbeddedMessage(t *testing.T) {
	// 0a 02 08 2a: field 1 wraps a span that re-parses as {field 1: 42}.
	buf := []byte{0x0a, 0x02, 0x08, 0x2a}

	got, err := Decode(buf, wire.DefaultLimits())
	require.NoError(t, err)

	nested, ok := got["field_1"].(map[string]interface{})
	require.True(t, ok, "field_1 should decode as an embedded message, got %T", got["field_1"])
	assert.Equal(t, uint64(42), nested["field_1"])
}

func TestDecode_OpaqueBytesStayBytes(t *testing.T) {
	// Neither valid UTF-8 text nor a well-formed tag sequence.
	payload := []byte{0xff, 0xfe, 0x00}
	buf := protowire.AppendTag(nil, 7, protowire.BytesType)
	buf = protowire.AppendBytes(buf, payload)

	got, err := Decode(buf, wire.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, payload, got["field_7"])
}

func TestDecode_PartialResultOnTruncation(t *testing.T) {
	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 5)
	// Truncated varint tail.
	buf = append(buf, 0x10, 0xff)

	got, err := Decode(buf, wire.DefaultLimits())
	require.NoError(t, err, "structural errors must not surface")
	assert.Equal(t, uint64(5), got["field_1"])
	assert.NotContains(t, got, "field_2")
}

func TestDecode_GroupMarkersAreSkipped(t *testing.T) {
	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.StartGroupType)
	buf = protowire.AppendTag(buf, 2, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 9)
	buf = protowire.AppendTag(buf, 1, protowire.EndGroupType)
	buf = protowire.AppendTag(buf, 3, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 11)

	got, err := Decode(buf, wire.DefaultLimits())
	require.NoError(t, err)
	assert.NotContains(t, got, "field_1")
	assert.Equal(t, uint64(11), got["field_3"])
}

func TestDecode_DepthLimit(t *testing.T) {
	// Message-shaped spans nested five levels deep.
	inner := protowire.AppendTag(nil, 1, protowire.VarintType)
	inner = protowire.AppendVarint(inner, 1)
	for i := 0; i < 4; i++ {
		wrapped := protowire.AppendTag(nil, 1, protowire.BytesType)
		inner = protowire.AppendBytes(wrapped, inner)
	}

	_, err := Decode(inner, wire.Limits{MaxDepth: 2, MaxBufferSize: 1 << 20})
	assert.ErrorIs(t, err, wire.ErrResourceLimit)

	got, err := Decode(inner, wire.DefaultLimits())
	require.NoError(t, err)
	assert.Contains(t, got, "field_1")
}

func TestDecode_BufferLimit(t *testing.T) {
	buf := make([]byte, 128)
	_, err := Decode(buf, wire.Limits{MaxDepth: 32, MaxBufferSize: 64})
	assert.ErrorIs(t, err, wire.ErrResourceLimit)
}

func TestDecode_Idempotent(t *testing.T) {
	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 150)
	buf = protowire.AppendTag(buf, 2, protowire.BytesType)
	buf = protowire.AppendString(buf, "hello")

	first, err := Decode(buf, wire.DefaultLimits())
	require.NoError(t, err)
	second, err := Decode(buf, wire.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeDetails_PreservesOrderAndOccurrences(t *testing.T) {
	var buf []byte
	buf = protowire.AppendTag(buf, 2, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 1)
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 2)
	buf = protowire.AppendTag(buf, 2, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 3)

	fields, err := DecodeDetails(buf, wire.DefaultLimits())
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, wire.FieldNumber(2), fields[0].FieldNumber)
	assert.Equal(t, wire.FieldNumber(1), fields[1].FieldNumber)
	assert.Equal(t, wire.FieldNumber(2), fields[2].FieldNumber)
}

func TestDecodeDetails_NestedMessage(t *testing.T) {
	inner := protowire.AppendTag(nil, 1, protowire.VarintType)
	inner = protowire.AppendVarint(inner, 42)
	buf := protowire.AppendTag(nil, 1, protowire.BytesType)
	buf = protowire.AppendBytes(buf, inner)

	fields, err := DecodeDetails(buf, wire.DefaultLimits())
	require.NoError(t, err)
	require.Len(t, fields, 1)

	kinds := interpretationKinds(fields[0].Interpretations)
	assert.Contains(t, kinds, KindMessage)
	assert.Equal(t, KindBytes, kinds[len(kinds)-1], "bytes must be the last reading")

	require.Len(t, fields[0].Nested, 1)
	assert.Equal(t, wire.FieldNumber(1), fields[0].Nested[0].FieldNumber)
}

func TestDecodeDetails_TextualSpan(t *testing.T) {
	buf := protowire.AppendTag(nil, 1, protowire.BytesType)
	buf = protowire.AppendString(buf, "hello\nworld")

	fields, err := DecodeDetails(buf, wire.DefaultLimits())
	require.NoError(t, err)
	require.Len(t, fields, 1)

	kinds := interpretationKinds(fields[0].Interpretations)
	assert.Equal(t, KindString, kinds[0], "string reading comes first")
	assert.Equal(t, KindBytes, kinds[len(kinds)-1])
}

func TestDecodeDetails_OpaqueSpanHasOnlyBytesReading(t *testing.T) {
	buf := protowire.AppendTag(nil, 1, protowire.BytesType)
	buf = protowire.AppendBytes(buf, []byte{0xff, 0xfe, 0x00})

	fields, err := DecodeDetails(buf, wire.DefaultLimits())
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, []Kind{KindBytes}, interpretationKinds(fields[0].Interpretations))
	assert.Empty(t, fields[0].Nested)
}

func interpretationKinds(in []Interpretation) []Kind {
	out := make([]Kind, len(in))
	for i, it := range in {
		out[i] = it.Kind
	}
	return out
}

func TestIsTextual(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want bool
	}{
		{"ascii", []byte("hello"), true},
		{"multibyte", []byte("héllo ✓"), true},
		{"allowed control chars", []byte("a\tb\nc\r"), true},
		{"nul byte", []byte{'a', 0x00}, false},
		{"invalid utf8", []byte{0xff, 0xfe}, false},
		{"bell", []byte{0x07}, false},
		{"empty", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTextual(tt.in))
		})
	}
}

func TestParsesAsMessage(t *testing.T) {
	valid := protowire.AppendTag(nil, 1, protowire.VarintType)
	valid = protowire.AppendVarint(valid, 7)
	assert.True(t, parsesAsMessage(valid, 0, wire.Limits{}))

	assert.False(t, parsesAsMessage(nil, 0, wire.Limits{}), "empty spans are not messages")

	group := protowire.AppendTag(nil, 1, protowire.StartGroupType)
	assert.False(t, parsesAsMessage(group, 0, wire.Limits{}), "group markers disqualify")

	trailing := append(append([]byte{}, valid...), 0x08)
	assert.False(t, parsesAsMessage(trailing, 0, wire.Limits{}), "every byte must be consumed")
}

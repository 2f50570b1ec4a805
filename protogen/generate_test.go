package protogen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/wirescope/wirescope/inspect"
	"github.com/wirescope/wirescope/wire"
)

func TestFromFields(t *testing.T) {
	inner := protowire.AppendTag(nil, 1, protowire.VarintType)
	inner = protowire.AppendVarint(inner, 42)

	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 0)
	buf = protowire.AppendTag(buf, 2, protowire.BytesType)
	buf = protowire.AppendString(buf, "hi")
	buf = protowire.AppendTag(buf, 3, protowire.Fixed32Type)
	buf = protowire.AppendFixed32(buf, 0x12345678)
	buf = protowire.AppendTag(buf, 4, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 150)
	buf = protowire.AppendTag(buf, 4, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 151)
	buf = protowire.AppendTag(buf, 5, protowire.BytesType)
	buf = protowire.AppendBytes(buf, inner)

	fields, err := inspect.DecodeDetails(buf, wire.DefaultLimits())
	require.NoError(t, err)

	got := FromFields("Generated", fields)
	want := `syntax = "proto3";

message Generated {
  bool field_1 = 1;
  string field_2 = 2;
  fixed32 field_3 = 3;
  repeated uint64 field_4 = 4;
  message Field5 {
    uint64 field_1 = 1;
  }
  Field5 field_5 = 5;
}
`
	assert.Equal(t, want, got)
}

func TestFromFields_Fixed64(t *testing.T) {
	buf := protowire.AppendTag(nil, 9, protowire.Fixed64Type)
	buf = protowire.AppendFixed64(buf, 123456789)

	fields, err := inspect.DecodeDetails(buf, wire.DefaultLimits())
	require.NoError(t, err)

	got := FromFields("M", fields)
	assert.Contains(t, got, "fixed64 field_9 = 9;")
}

func TestFromObject(t *testing.T) {
	obj := map[string]interface{}{
		"name":   "Ada",
		"id":     42,
		"active": true,
		"scores": []interface{}{1.0, 2.0},
		"address": map[string]interface{}{
			"city": "x",
		},
	}

	got := FromObject("Profile", obj)
	want := `syntax = "proto3";

message Profile {
  bool active = 1;
  message Address {
    string city = 1;
  }
  Address address = 2;
  int64 id = 3;
  string name = 4;
  repeated int64 scores = 5;
}
`
	assert.Equal(t, want, got)
}

func TestFromObject_ScalarGuesses(t *testing.T) {
	got := FromObject("M", map[string]interface{}{
		"ratio": 2.5,
		"blob":  []byte{1, 2},
		"count": uint64(9),
	})
	assert.Contains(t, got, "bytes blob = 1;")
	assert.Contains(t, got, "uint64 count = 2;")
	assert.Contains(t, got, "double ratio = 3;")
}

func TestUpperCamel(t *testing.T) {
	assert.Equal(t, "Field5", upperCamel("field_5"))
	assert.Equal(t, "DarkMode", upperCamel("dark_mode"))
	assert.Equal(t, "A", upperCamel("a"))
	assert.Equal(t, "Ab", upperCamel("_ab_"))
}

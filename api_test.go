package wirescope_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirescope/wirescope"
	"github.com/wirescope/wirescope/schema"
	"github.com/wirescope/wirescope/wire"
)

const userProto = `syntax = "proto3";

package demo;

enum Status {
  STATUS_UNKNOWN = 0;
  ACTIVE = 1;
}

message Address {
  string city = 1;
  string zip = 2;
}

message User {
  string name = 1;
  int64 id = 2;
  Status status = 3;
  Address address = 4;
  repeated string tags = 5;
  map<string, int32> scores = 6;
}
`

func loadUserSchema(t *testing.T) *wirescope.Wirescope {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user.proto")
	require.NoError(t, os.WriteFile(path, []byte(userProto), 0o644))

	ws := wirescope.New()
	require.NoError(t, ws.LoadSchema(path))
	return ws
}

func TestSchemaRoundTrip(t *testing.T) {
	ws := loadUserSchema(t)

	input := map[string]interface{}{
		"name":    "Ada",
		"id":      "9223372036854775807",
		"status":  "ACTIVE",
		"address": map[string]interface{}{"city": "London", "zip": "N1"},
		"tags":    []interface{}{"a", "b"},
		"scores":  map[string]interface{}{"math": 90},
	}

	data, err := ws.MarshalWithSchema(input, "demo.User")
	require.NoError(t, err)

	got, err := ws.UnmarshalWithSchema(data, "User")
	require.NoError(t, err)

	want := map[string]interface{}{
		"name":    "Ada",
		"id":      "9223372036854775807",
		"status":  "ACTIVE",
		"address": map[string]interface{}{"city": "London", "zip": "N1"},
		"tags":    []interface{}{"a", "b"},
		"scores":  map[string]interface{}{"math": int32(90)},
	}
	assert.Equal(t, want, got)
}

func TestSchemaRoundTrip_UnknownType(t *testing.T) {
	ws := loadUserSchema(t)

	_, err := ws.MarshalWithSchema(map[string]interface{}{}, "demo.Missing")
	assert.EqualError(t, err, "message type not found: demo.Missing")
	_, err = ws.UnmarshalWithSchema(nil, "demo.Missing")
	assert.EqualError(t, err, "message type not found: demo.Missing")
}

func TestListSymbols(t *testing.T) {
	ws := loadUserSchema(t)
	assert.Equal(t, []string{"demo.Address", "demo.User"}, ws.ListMessages())
	assert.Equal(t, []string{"demo.Status"}, ws.ListEnums())
}

func TestSchemaLessSeesSchemaOutput(t *testing.T) {
	ws := loadUserSchema(t)

	data, err := ws.MarshalWithSchema(map[string]interface{}{
		"name": "Ada",
		"id":   150,
	}, "demo.User")
	require.NoError(t, err)

	got, err := wirescope.DecodeWithoutSchema(data)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got["field_1"])
	assert.Equal(t, uint64(150), got["field_2"])
}

func TestFieldTableRoundTrip(t *testing.T) {
	fields := []*schema.Field{
		{Number: 1, Name: "id", Type: schema.TypeUint64},
		{Number: 2, Name: "name", Type: schema.TypeString},
		{Number: 3, Name: "seen", Type: schema.TypeFixed32},
	}
	input := map[string]interface{}{
		"id":   150,
		"name": "hello",
		"seen": 0x12345678,
	}

	data, err := wirescope.EncodeWithFieldTable(input, fields)
	require.NoError(t, err)

	got, err := wirescope.DecodeWithFieldTable(data, fields)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"id":   "150",
		"name": "hello",
		"seen": uint32(0x12345678),
	}, got)

	// The fixed32 value survives the schema-less path bit-for-bit too.
	loose, err := wirescope.DecodeWithoutSchema(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), loose["field_3"])
}

func TestInstanceLimits(t *testing.T) {
	ws := wirescope.New(wirescope.WithLimits(wire.Limits{MaxDepth: 32, MaxBufferSize: 8}))

	_, err := ws.DecodeWithoutSchema(make([]byte, 16))
	assert.ErrorIs(t, err, wire.ErrResourceLimit)
	_, err = ws.DecodeWithDetails(make([]byte, 16))
	assert.ErrorIs(t, err, wire.ErrResourceLimit)
}

func TestInstanceFieldTable_Validation(t *testing.T) {
	ws := wirescope.New()
	bad := []*schema.Field{{Number: 0, Name: "a", Type: schema.TypeUint32}}

	_, err := ws.EncodeWithFieldTable(nil, bad)
	assert.Error(t, err)
	_, err = ws.DecodeWithFieldTable(nil, bad)
	assert.Error(t, err)
}

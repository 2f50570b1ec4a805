package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirescope/wirescope/inspect"
	"github.com/wirescope/wirescope/schema"
)

func TestDecodeBytes(t *testing.T) {
	want := []byte{0x08, 0x96, 0x01}

	tests := []struct {
		format string
		input  string
	}{
		{"hex", "089601"},
		{"hex", "08 96 01\n"},
		{"base64", "CJYB"},
		{"base64url", "CJYB"},
	}
	for _, tt := range tests {
		got, err := decodeBytes([]byte(tt.input), tt.format)
		require.NoError(t, err, "%s %q", tt.format, tt.input)
		assert.Equal(t, want, got)
	}

	raw, err := decodeBytes(want, "raw")
	require.NoError(t, err)
	assert.Equal(t, want, raw)

	_, err = decodeBytes([]byte("zz"), "hex")
	assert.Error(t, err)
	_, err = decodeBytes(nil, "rot13")
	assert.Error(t, err)
}

func TestWriteBytesRoundTrip(t *testing.T) {
	data := []byte{0x08, 0x96, 0x01}
	for _, format := range []string{"hex", "base64", "base64url", "raw"} {
		var buf bytes.Buffer
		require.NoError(t, writeBytes(&buf, data, format))

		got, err := decodeBytes(buf.Bytes(), format)
		require.NoError(t, err)
		assert.Equal(t, data, got, "format %s", format)
	}
}

func TestParseObject(t *testing.T) {
	obj, err := parseObject([]byte(`{"id": 9223372036854775807, "name": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("9223372036854775807"), obj["id"], "JSON numbers stay json.Number")

	obj, err = parseObject([]byte("id: 42\nname: x\n"))
	require.NoError(t, err)
	assert.Equal(t, "x", obj["name"])

	_, err = parseObject([]byte("{{not data"))
	assert.Error(t, err)
}

func TestRenderValue_64BitAsString(t *testing.T) {
	fields := []inspect.DecodedField{
		{
			FieldNumber: 1,
			WireType:    0,
			Interpretations: []inspect.Interpretation{
				{Kind: inspect.KindUint64, Value: uint64(18446744073709551615)},
			},
		},
	}

	out, err := renderValue(fields, "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"18446744073709551615"`)

	out, err = renderValue(fields, "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `"18446744073709551615"`)

	_, err = renderValue(fields, "toml")
	assert.Error(t, err)
}

func TestLoadFieldTable(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "fields.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
  {"number": 1, "name": "id", "type": "uint64"},
  {"number": 2, "name": "name", "type": "string", "repeated": true}
]`), 0o644))

	fields, err := loadFieldTable(jsonPath)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, schema.TypeUint64, fields[0].Type)
	assert.True(t, fields[1].Repeated)

	yamlPath := filepath.Join(dir, "fields.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`- number: 1
  name: id
  type: uint64
`), 0o644))

	fields, err = loadFieldTable(yamlPath)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "id", fields[0].Name)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`[{"number": 0, "name": "id", "type": "uint64"}]`), 0o644))
	_, err = loadFieldTable(badPath)
	assert.Error(t, err)
}

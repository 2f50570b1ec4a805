// Package codec converts between plain key/value objects and protobuf wire
// bytes under an explicit field table or a parsed .proto schema. Unlike the
// schema-less inspect package it applies exact type semantics, and unlike it
// schema-driven failures surface as errors: a caller that supplies a schema
// has a contract to validate against.
package codec

import (
	"github.com/wirescope/wirescope/schema"
	"github.com/wirescope/wirescope/wire"
)

// Resolver looks up message and enum definitions referenced by name from
// schema-derived fields. The registry package implements it; the plain
// field-table path runs without one.
type Resolver interface {
	ResolveMessage(name string) (*schema.Message, error)
	ResolveEnum(name string) (*schema.Enum, error)
}

// EncodeFields encodes an object against a caller-supplied field table.
// Fields absent from the object are omitted from the wire bytes entirely;
// repeated fields emit one tag per element, never the packed form.
func EncodeFields(data map[string]interface{}, fields []*schema.Field) ([]byte, error) {
	if err := schema.ValidateTable(fields); err != nil {
		return nil, err
	}
	msg := &schema.Message{Fields: fields}
	return EncodeMessage(data, msg, nil, wire.DefaultLimits())
}

// DecodeFields decodes wire bytes against a caller-supplied field table.
// Tags with no matching entry are dropped silently.
func DecodeFields(data []byte, fields []*schema.Field) (map[string]interface{}, error) {
	if err := schema.ValidateTable(fields); err != nil {
		return nil, err
	}
	msg := &schema.Message{Fields: fields}
	return DecodeMessage(data, msg, nil, wire.DefaultLimits())
}

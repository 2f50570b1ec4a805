// Package wirescope encodes and decodes protocol buffer wire data without
// generated code: schema-less inspection with heuristic type inference,
// field-table driven encoding/decoding, and full .proto schema support.
package wirescope

import (
	"fmt"

	"github.com/wirescope/wirescope/codec"
	"github.com/wirescope/wirescope/inspect"
	"github.com/wirescope/wirescope/registry"
	"github.com/wirescope/wirescope/schema"
	"github.com/wirescope/wirescope/wire"
)

// ===== SCHEMA-AWARE API =====

// Wirescope provides schema-aware protobuf operations without generated code.
type Wirescope struct {
	registry *registry.Registry
	limits   wire.Limits
}

// Option configures a Wirescope instance.
type Option func(*Wirescope)

// WithLimits overrides the default resource ceilings applied to every decode.
func WithLimits(l wire.Limits) Option {
	return func(w *Wirescope) {
		w.limits = l
	}
}

// New creates a new Wirescope instance.
func New(opts ...Option) *Wirescope {
	w := &Wirescope{
		registry: registry.NewRegistry(),
		limits:   wire.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LoadSchema loads a .proto file, or recursively a directory of them, into
// the instance's registry.
func (w *Wirescope) LoadSchema(protoPath string) error {
	return w.registry.LoadSchema(protoPath)
}

// Registry exposes the schema registry for direct look-ups.
func (w *Wirescope) Registry() *registry.Registry { return w.registry }

// ListMessages returns the fully qualified names of all loaded messages.
func (w *Wirescope) ListMessages() []string { return w.registry.ListMessages() }

// ListEnums returns the fully qualified names of all loaded enums.
func (w *Wirescope) ListEnums() []string { return w.registry.ListEnums() }

// MarshalWithSchema encodes an object to protobuf bytes using a loaded
// message definition.
func (w *Wirescope) MarshalWithSchema(data map[string]interface{}, messageType string) ([]byte, error) {
	msg, err := w.registry.ResolveMessage(messageType)
	if err != nil {
		return nil, fmt.Errorf("message type not found: %s", messageType)
	}
	return codec.EncodeMessage(data, msg, w.registry, w.limits)
}

// UnmarshalWithSchema decodes protobuf bytes using a loaded message definition.
func (w *Wirescope) UnmarshalWithSchema(data []byte, messageType string) (map[string]interface{}, error) {
	msg, err := w.registry.ResolveMessage(messageType)
	if err != nil {
		return nil, fmt.Errorf("message type not found: %s", messageType)
	}
	return codec.DecodeMessage(data, msg, w.registry, w.limits)
}

// DecodeWithoutSchema decodes a buffer with no schema, honoring the
// instance's limits.
func (w *Wirescope) DecodeWithoutSchema(data []byte) (map[string]interface{}, error) {
	return inspect.Decode(data, w.limits)
}

// DecodeWithDetails decodes a buffer with no schema into per-field
// interpretation lists, honoring the instance's limits.
func (w *Wirescope) DecodeWithDetails(data []byte) ([]inspect.DecodedField, error) {
	return inspect.DecodeDetails(data, w.limits)
}

// EncodeWithFieldTable encodes an object against a field table, honoring the
// instance's limits.
func (w *Wirescope) EncodeWithFieldTable(data map[string]interface{}, fields []*schema.Field) ([]byte, error) {
	if err := schema.ValidateTable(fields); err != nil {
		return nil, err
	}
	return codec.EncodeMessage(data, &schema.Message{Fields: fields}, nil, w.limits)
}

// DecodeWithFieldTable decodes wire bytes against a field table, honoring the
// instance's limits.
func (w *Wirescope) DecodeWithFieldTable(data []byte, fields []*schema.Field) (map[string]interface{}, error) {
	if err := schema.ValidateTable(fields); err != nil {
		return nil, err
	}
	return codec.DecodeMessage(data, &schema.Message{Fields: fields}, nil, w.limits)
}

// ===== SCHEMA-LESS API =====

// DecodeWithoutSchema decodes a buffer with no schema under default limits.
// The result maps "field_<N>" to a value, or to an ordered slice when the
// field number repeats.
func DecodeWithoutSchema(data []byte) (map[string]interface{}, error) {
	return inspect.Decode(data, wire.DefaultLimits())
}

// DecodeWithDetails decodes a buffer with no schema under default limits,
// listing every plausible typed interpretation per field.
func DecodeWithDetails(data []byte) ([]inspect.DecodedField, error) {
	return inspect.DecodeDetails(data, wire.DefaultLimits())
}

// EncodeWithFieldTable encodes an object against a field table under default
// limits.
func EncodeWithFieldTable(data map[string]interface{}, fields []*schema.Field) ([]byte, error) {
	return codec.EncodeFields(data, fields)
}

// DecodeWithFieldTable decodes wire bytes against a field table under default
// limits.
func DecodeWithFieldTable(data []byte, fields []*schema.Field) (map[string]interface{}, error) {
	return codec.DecodeFields(data, fields)
}

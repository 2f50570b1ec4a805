// Package inspect decodes protobuf wire data without a schema. It offers a
// simple mode that maps "field_N" keys to best-guess values and a detailed
// mode that lists every plausible typed reading of each field, since wire
// framing alone cannot determine a field's logical type.
package inspect

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/wirescope/wirescope/wire"
)

// Kind tags one typed reading of a raw field value.
type Kind string

const (
	KindBool     Kind = "bool"
	KindUint64   Kind = "uint64"
	KindInt64    Kind = "int64"
	KindSint64   Kind = "sint64"
	KindFixed64  Kind = "fixed64"
	KindSfixed64 Kind = "sfixed64"
	KindDouble   Kind = "double"
	KindFixed32  Kind = "fixed32"
	KindSfixed32 Kind = "sfixed32"
	KindFloat    Kind = "float"
	KindString   Kind = "string"
	KindBytes    Kind = "bytes"
	KindMessage  Kind = "message"
)

// Interpretation is one plausible typed reading of a field's raw bits.
// Interpretations carry no confidence score beyond their position in the
// list: narrower readings come first, generic fallbacks last.
type Interpretation struct {
	Kind  Kind        `json:"type"`
	Value interface{} `json:"value"`
}

// MarshalJSON emits 64-bit integer readings as decimal strings so that
// consumers without a 64-bit number type never lose precision above 2^53.
func (it Interpretation) MarshalJSON() ([]byte, error) {
	type alias struct {
		Kind  Kind        `json:"type"`
		Value interface{} `json:"value"`
	}
	out := alias{Kind: it.Kind, Value: it.Value}
	switch it.Kind {
	case KindUint64, KindFixed64:
		if v, ok := it.Value.(uint64); ok {
			out.Value = strconv.FormatUint(v, 10)
		}
	case KindInt64, KindSint64, KindSfixed64:
		if v, ok := it.Value.(int64); ok {
			out.Value = strconv.FormatInt(v, 10)
		}
	}
	return json.Marshal(out)
}

// DecodedField is the detailed decode result for one field occurrence.
// Nested is populated only when the field's byte span re-parses cleanly as an
// embedded message.
type DecodedField struct {
	FieldNumber     wire.FieldNumber `json:"field_number"`
	WireType        wire.WireType    `json:"wire_type"`
	Interpretations []Interpretation `json:"interpretations"`
	Nested          []DecodedField   `json:"nested,omitempty"`
}

// interpretVarint lists the plausible readings of a varint magnitude.
func interpretVarint(v uint64) []Interpretation {
	var out []Interpretation
	if v == 0 || v == 1 {
		out = append(out, Interpretation{Kind: KindBool, Value: v == 1})
	}
	if zz := wire.DecodeZigZag64(v); zz != int64(v) {
		out = append(out, Interpretation{Kind: KindSint64, Value: zz})
	}
	if signed := int64(v); signed < 0 {
		out = append(out, Interpretation{Kind: KindInt64, Value: signed})
	}
	out = append(out, Interpretation{Kind: KindUint64, Value: v})
	return out
}

// interpretFixed64 lists all three readings of an 8-byte value; the framing
// alone cannot disambiguate them.
func interpretFixed64(v uint64) []Interpretation {
	return []Interpretation{
		{Kind: KindFixed64, Value: v},
		{Kind: KindSfixed64, Value: int64(v)},
		{Kind: KindDouble, Value: math.Float64frombits(v)},
	}
}

// interpretFixed32 lists all three readings of a 4-byte value.
func interpretFixed32(v uint32) []Interpretation {
	return []Interpretation{
		{Kind: KindFixed32, Value: v},
		{Kind: KindSfixed32, Value: int32(v)},
		{Kind: KindFloat, Value: math.Float32frombits(v)},
	}
}

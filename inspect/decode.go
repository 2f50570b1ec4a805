package inspect

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/wirescope/wirescope/wire"
)

// Decode walks a buffer tag-by-tag with no type knowledge and returns a
// mapping "field_<N>" -> value. Repeated occurrences of a field number are
// promoted into an ordered slice. Varints surface as their raw unsigned
// magnitude; fixed widths as unsigned integers; length-delimited spans as a
// string when they are clean UTF-8 text, else as a nested mapping when they
// re-parse as an embedded message, else as raw bytes.
//
// Decoding is best-effort: a structurally invalid tail stops the walk and the
// fields parsed so far are returned with a nil error. Only a resource-limit
// breach surfaces as an error, alongside the partial result.
func Decode(data []byte, limits wire.Limits) (map[string]interface{}, error) {
	if err := limits.CheckBuffer(data); err != nil {
		return nil, err
	}
	return decodeSimple(data, 1, limits)
}

func decodeSimple(data []byte, depth int, limits wire.Limits) (map[string]interface{}, error) {
	result := make(map[string]interface{})
	d := wire.NewDecoder(data)

	for d.HasRemaining() {
		raw, err := d.ReadRawField()
		if err != nil {
			if errors.Is(err, wire.ErrResourceLimit) {
				return result, err
			}
			// Partial-result policy: stop at the first structural error.
			return result, nil
		}

		switch raw.WireType {
		case wire.WireStartGroup, wire.WireEndGroup:
			// Deprecated group markers carry no data.
			continue
		}

		var value interface{}
		switch raw.WireType {
		case wire.WireVarint, wire.WireFixed64:
			value = raw.Number
		case wire.WireFixed32:
			value = uint32(raw.Number)
		case wire.WireBytes:
			value, err = classifySpan(raw.Bytes, depth, limits)
			if err != nil {
				return result, err
			}
		}

		key := fieldKey(raw.FieldNumber)
		if prev, seen := result[key]; seen {
			if list, ok := prev.([]interface{}); ok {
				result[key] = append(list, value)
			} else {
				result[key] = []interface{}{prev, value}
			}
		} else {
			result[key] = value
		}
	}

	return result, nil
}

// classifySpan picks the single best reading of a length-delimited span for
// simple mode. Priority is fixed: printable UTF-8 string, then embedded
// message, then raw bytes.
func classifySpan(span []byte, depth int, limits wire.Limits) (interface{}, error) {
	if isTextual(span) {
		return string(span), nil
	}
	if err := limits.CheckDepth(depth + 1); err == nil {
		if parsesAsMessage(span, depth+1, limits) {
			nested, err := decodeSimple(span, depth+1, limits)
			if err != nil {
				return nested, err
			}
			return nested, nil
		}
	} else if parsesAsMessageShallow(span) {
		// The span looks like a message but the ceiling forbids recursing.
		return nil, err
	}
	return span, nil
}

// DecodeDetails walks a buffer tag-by-tag and returns every field occurrence
// in encounter order, each carrying the full list of plausible typed
// interpretations. Length-delimited spans that re-parse as an embedded
// message additionally carry the recursive detail decode in Nested.
//
// The partial-result policy matches Decode: structural errors stop the walk
// silently, resource-limit breaches surface.
func DecodeDetails(data []byte, limits wire.Limits) ([]DecodedField, error) {
	if err := limits.CheckBuffer(data); err != nil {
		return nil, err
	}
	return decodeDetails(data, 1, limits)
}

func decodeDetails(data []byte, depth int, limits wire.Limits) ([]DecodedField, error) {
	var fields []DecodedField
	d := wire.NewDecoder(data)

	for d.HasRemaining() {
		raw, err := d.ReadRawField()
		if err != nil {
			if errors.Is(err, wire.ErrResourceLimit) {
				return fields, err
			}
			return fields, nil
		}

		field := DecodedField{
			FieldNumber: raw.FieldNumber,
			WireType:    raw.WireType,
		}

		switch raw.WireType {
		case wire.WireVarint:
			field.Interpretations = interpretVarint(raw.Number)
		case wire.WireFixed64:
			field.Interpretations = interpretFixed64(raw.Number)
		case wire.WireFixed32:
			field.Interpretations = interpretFixed32(uint32(raw.Number))
		case wire.WireBytes:
			field.Interpretations, field.Nested, err = interpretSpan(raw.Bytes, depth, limits)
			if err != nil {
				return fields, err
			}
		case wire.WireStartGroup, wire.WireEndGroup:
			continue
		}

		fields = append(fields, field)
	}

	return fields, nil
}

// interpretSpan lists the readings of a length-delimited span: string when it
// is clean UTF-8 text, embedded message when the nested parse succeeds, and
// bytes always, as the last-resort reading.
func interpretSpan(span []byte, depth int, limits wire.Limits) ([]Interpretation, []DecodedField, error) {
	var out []Interpretation
	var nested []DecodedField

	if isTextual(span) {
		out = append(out, Interpretation{Kind: KindString, Value: string(span)})
	}

	if err := limits.CheckDepth(depth + 1); err != nil {
		if parsesAsMessageShallow(span) {
			return out, nil, err
		}
	} else if parsesAsMessage(span, depth+1, limits) {
		sub, err := decodeDetails(span, depth+1, limits)
		if err != nil {
			return out, nil, err
		}
		nested = sub
		out = append(out, Interpretation{Kind: KindMessage, Value: nil})
	}

	out = append(out, Interpretation{Kind: KindBytes, Value: span})
	return out, nested, nil
}

// parsesAsMessage reports whether the span is a well-formed sequence of
// tag/value pairs covering every byte, with no group markers and no invalid
// wire types. depth counts levels already entered; nested length-delimited
// spans are not themselves re-validated here, so the check is linear in the
// span length per level.
func parsesAsMessage(span []byte, depth int, limits wire.Limits) bool {
	if len(span) == 0 {
		return false
	}
	if limits.CheckDepth(depth) != nil {
		return false
	}

	d := wire.NewDecoder(span)
	for d.HasRemaining() {
		fieldNumber, wireType, err := d.ReadTag()
		if err != nil || fieldNumber < 1 {
			return false
		}
		switch wireType {
		case wire.WireStartGroup, wire.WireEndGroup:
			return false
		}
		if err := d.SkipField(wireType); err != nil {
			return false
		}
	}
	return true
}

// parsesAsMessageShallow is the one-level variant used to decide whether a
// depth ceiling was actually hit by message-shaped data.
func parsesAsMessageShallow(span []byte) bool {
	return parsesAsMessage(span, 0, wire.Limits{})
}

// isTextual reports whether the span decodes cleanly as UTF-8 text free of
// control characters (tab, newline and carriage return are allowed). Text
// detection takes priority over the embedded-message heuristic.
func isTextual(span []byte) bool {
	if !utf8.Valid(span) {
		return false
	}
	for _, r := range string(span) {
		if r == utf8.RuneError {
			return false
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}

func fieldKey(n wire.FieldNumber) string {
	return fmt.Sprintf("field_%d", n)
}

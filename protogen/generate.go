// Package protogen reverse-engineers a plausible .proto definition from
// decoded field details or from a plain object. The output is a starting
// point for a human, not a ground truth: without a schema the field types are
// guesses ranked by the same heuristics the inspect package uses.
package protogen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wirescope/wirescope/inspect"
)

// FromFields generates proto3 text for a message named messageName from a
// detailed schema-less decode. Field numbers repeating in the sequence become
// repeated fields; embedded messages become nested message definitions.
func FromFields(messageName string, fields []inspect.DecodedField) string {
	var b strings.Builder
	b.WriteString("syntax = \"proto3\";\n\n")
	writeMessage(&b, messageName, fields, 0)
	return b.String()
}

func writeMessage(b *strings.Builder, name string, fields []inspect.DecodedField, indent int) {
	pad := strings.Repeat("  ", indent)
	fmt.Fprintf(b, "%smessage %s {\n", pad, name)

	seen := make(map[int32]int) // field number -> occurrences
	order := make([]int32, 0, len(fields))
	byNumber := make(map[int32]inspect.DecodedField)
	for _, f := range fields {
		n := int32(f.FieldNumber)
		if seen[n] == 0 {
			order = append(order, n)
			byNumber[n] = f
		}
		seen[n]++
	}

	for _, n := range order {
		f := byNumber[n]
		label := ""
		if seen[n] > 1 {
			label = "repeated "
		}
		fieldName := fmt.Sprintf("field_%d", n)

		// Short textual spans can also re-parse as messages; the string
		// reading wins, matching the decode heuristics.
		if len(f.Nested) > 0 && !hasStringReading(f) {
			nestedName := upperCamel(fieldName)
			writeMessage(b, nestedName, f.Nested, indent+1)
			fmt.Fprintf(b, "%s  %s%s %s = %d;\n", pad, label, nestedName, fieldName, n)
			continue
		}
		fmt.Fprintf(b, "%s  %s%s %s = %d;\n", pad, label, guessType(f), fieldName, n)
	}

	fmt.Fprintf(b, "%s}\n", pad)
}

func hasStringReading(f inspect.DecodedField) bool {
	for _, it := range f.Interpretations {
		if it.Kind == inspect.KindString {
			return true
		}
	}
	return false
}

// guessType picks the proto scalar type for a field from its interpretation
// list: the sole bool reading wins, a clean string wins, otherwise the
// generic reading for the wire framing.
func guessType(f inspect.DecodedField) string {
	hasBool := false
	for _, it := range f.Interpretations {
		switch it.Kind {
		case inspect.KindString:
			return "string"
		case inspect.KindBool:
			hasBool = true
		}
	}
	switch {
	case hasBool && len(f.Interpretations) <= 2:
		return "bool"
	case f.WireType == 0:
		return "uint64"
	case f.WireType == 1:
		return "fixed64"
	case f.WireType == 5:
		return "fixed32"
	default:
		return "bytes"
	}
}

// FromObject generates proto3 text for a message named messageName from an
// arbitrary decoded object (for example parsed JSON or YAML). Keys appear in
// sorted order so generation is deterministic.
func FromObject(messageName string, obj map[string]interface{}) string {
	var b strings.Builder
	b.WriteString("syntax = \"proto3\";\n\n")
	writeObjectMessage(&b, messageName, obj, 0)
	return b.String()
}

func writeObjectMessage(b *strings.Builder, name string, obj map[string]interface{}, indent int) {
	pad := strings.Repeat("  ", indent)
	fmt.Fprintf(b, "%smessage %s {\n", pad, name)

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	number := 1
	for _, k := range keys {
		v := obj[k]
		label := ""
		if list, ok := v.([]interface{}); ok {
			label = "repeated "
			if len(list) > 0 {
				v = list[0]
			} else {
				v = ""
			}
		}

		if nested, ok := v.(map[string]interface{}); ok {
			nestedName := upperCamel(k)
			writeObjectMessage(b, nestedName, nested, indent+1)
			fmt.Fprintf(b, "%s  %s%s %s = %d;\n", pad, label, nestedName, k, number)
		} else {
			fmt.Fprintf(b, "%s  %s%s %s = %d;\n", pad, label, scalarTypeOf(v), k, number)
		}
		number++
	}

	fmt.Fprintf(b, "%s}\n", pad)
}

func scalarTypeOf(v interface{}) string {
	switch t := v.(type) {
	case bool:
		return "bool"
	case string:
		return "string"
	case []byte:
		return "bytes"
	case float32:
		return "float"
	case float64:
		if t == float64(int64(t)) {
			return "int64"
		}
		return "double"
	case int, int32, int64:
		return "int64"
	case uint, uint32, uint64:
		return "uint64"
	default:
		return "string"
	}
}

func upperCamel(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

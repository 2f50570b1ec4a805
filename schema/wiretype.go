package schema

import (
	"fmt"

	"github.com/wirescope/wirescope/wire"
)

// WireTypeFor returns the wire framing used by a logical field type.
func WireTypeFor(t Type) wire.WireType {
	switch t {
	case TypeString, TypeBytes, TypeMessage, TypeMap:
		return wire.WireBytes
	case TypeFloat, TypeFixed32, TypeSfixed32:
		return wire.WireFixed32
	case TypeDouble, TypeFixed64, TypeSfixed64:
		return wire.WireFixed64
	default:
		return wire.WireVarint
	}
}

// ValidateTable checks the field-table invariants: field numbers at least 1
// and unique, names non-empty and unique, types scalar.
func ValidateTable(fields []*Field) error {
	numbers := make(map[int32]struct{}, len(fields))
	names := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Number < 1 {
			return fmt.Errorf("field %q: number %d out of range", f.Name, f.Number)
		}
		if f.Name == "" {
			return fmt.Errorf("field %d: empty name", f.Number)
		}
		if !IsScalar(f.Type) {
			return fmt.Errorf("field %q: unsupported table type %q", f.Name, f.Type)
		}
		if _, dup := numbers[f.Number]; dup {
			return fmt.Errorf("duplicate field number %d", f.Number)
		}
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		numbers[f.Number] = struct{}{}
		names[f.Name] = struct{}{}
	}
	return nil
}

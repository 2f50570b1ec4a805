package schema

// Type is the logical (schema) type of a field, as distinct from its wire
// type: several logical types share a single wire framing.
type Type string

const (
	TypeDouble   Type = "double"
	TypeFloat    Type = "float"
	TypeInt64    Type = "int64"
	TypeUint64   Type = "uint64"
	TypeInt32    Type = "int32"
	TypeFixed64  Type = "fixed64"
	TypeFixed32  Type = "fixed32"
	TypeBool     Type = "bool"
	TypeString   Type = "string"
	TypeBytes    Type = "bytes"
	TypeUint32   Type = "uint32"
	TypeSfixed32 Type = "sfixed32"
	TypeSfixed64 Type = "sfixed64"
	TypeSint32   Type = "sint32"
	TypeSint64   Type = "sint64"

	// Composite kinds, produced by the .proto registry path. Field tables
	// supplied directly by callers use only the scalar types above.
	TypeMessage Type = "message"
	TypeEnum    Type = "enum"
	TypeMap     Type = "map"
)

// Field describes one entry of a field table: the minimal schema fragment
// needed to encode or decode a field without a compiled .proto.
type Field struct {
	Number   int32  `json:"number" yaml:"number"`
	Name     string `json:"name" yaml:"name"`
	Type     Type   `json:"type" yaml:"type"`
	Repeated bool   `json:"repeated,omitempty" yaml:"repeated,omitempty"`

	// Set for message/enum typed fields resolved from a .proto schema.
	TypeName string `json:"type_name,omitempty" yaml:"type_name,omitempty"`

	// Set for map fields resolved from a .proto schema.
	MapKey   *Field `json:"map_key,omitempty" yaml:"map_key,omitempty"`
	MapValue *Field `json:"map_value,omitempty" yaml:"map_value,omitempty"`
}

// Message is a named, ordered collection of fields.
type Message struct {
	Name   string   `json:"name"`
	Fields []*Field `json:"fields"`
}

// FieldByNumber returns the field with the given number, or nil.
func (m *Message) FieldByNumber(number int32) *Field {
	for _, f := range m.Fields {
		if f.Number == number {
			return f
		}
	}
	return nil
}

// FieldByName returns the field with the given name, or nil.
func (m *Message) FieldByName(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Enum is a named set of value name/number pairs.
type Enum struct {
	Name   string       `json:"name"`
	Values []*EnumValue `json:"values"`
}

// EnumValue is a single enum member.
type EnumValue struct {
	Name   string `json:"name"`
	Number int32  `json:"number"`
}

// ValueName returns the name for a numeric enum value.
func (e *Enum) ValueName(number int32) (string, bool) {
	for _, v := range e.Values {
		if v.Number == number {
			return v.Name, true
		}
	}
	return "", false
}

// ValueNumber returns the number for a named enum value.
func (e *Enum) ValueNumber(name string) (int32, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v.Number, true
		}
	}
	return 0, false
}

// File represents one parsed .proto file.
type File struct {
	Name     string     `json:"name"`
	Package  string     `json:"package"`
	Syntax   string     `json:"syntax"`
	Messages []*Message `json:"messages"`
	Enums    []*Enum    `json:"enums"`
}

var scalarTypes = map[Type]struct{}{
	TypeDouble: {}, TypeFloat: {}, TypeInt64: {}, TypeUint64: {},
	TypeInt32: {}, TypeFixed64: {}, TypeFixed32: {}, TypeBool: {},
	TypeString: {}, TypeBytes: {}, TypeUint32: {}, TypeSfixed32: {},
	TypeSfixed64: {}, TypeSint32: {}, TypeSint64: {},
}

// IsScalar reports whether t is one of the fifteen protobuf scalar types.
func IsScalar(t Type) bool {
	_, ok := scalarTypes[t]
	return ok
}

var packedEligible = map[Type]struct{}{
	TypeDouble: {}, TypeFloat: {}, TypeInt64: {}, TypeUint64: {},
	TypeInt32: {}, TypeFixed64: {}, TypeFixed32: {}, TypeBool: {},
	TypeUint32: {}, TypeSfixed32: {}, TypeSfixed64: {}, TypeSint32: {},
	TypeSint64: {}, TypeEnum: {},
}

// IsPackedEligible reports whether a repeated field of this type may arrive
// packed into a single length-delimited span.
func IsPackedEligible(t Type) bool {
	_, ok := packedEligible[t]
	return ok
}

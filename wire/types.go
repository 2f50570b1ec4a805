package wire

// ===== PROTOBUF WIRE FORMAT TYPES =====

// WireType represents protobuf wire format types
type WireType int32

const (
	WireVarint     WireType = 0 // int32, int64, uint32, uint64, sint32, sint64, bool, enum
	WireFixed64    WireType = 1 // fixed64, sfixed64, double
	WireBytes      WireType = 2 // string, bytes, embedded messages, packed repeated fields
	WireStartGroup WireType = 3 // deprecated group start marker
	WireEndGroup   WireType = 4 // deprecated group end marker
	WireFixed32    WireType = 5 // fixed32, sfixed32, float
)

// IsValid reports whether the wire type is one the protobuf encoding defines.
// Group markers are valid framing but carry no data of their own.
func (wt WireType) IsValid() bool {
	return wt >= WireVarint && wt <= WireFixed32
}

// String returns the canonical lowercase name of the wire type.
func (wt WireType) String() string {
	switch wt {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "fixed64"
	case WireBytes:
		return "length-delimited"
	case WireStartGroup:
		return "start-group"
	case WireEndGroup:
		return "end-group"
	case WireFixed32:
		return "fixed32"
	default:
		return "invalid"
	}
}

// FieldNumber represents a protobuf field number
type FieldNumber int32

// Tag represents a protobuf field tag (field number + wire type)
type Tag uint64

// MakeTag creates a tag from field number and wire type
func MakeTag(fieldNumber FieldNumber, wireType WireType) Tag {
	return Tag(uint64(fieldNumber)<<3 | uint64(wireType))
}

// ParseTag parses a tag into field number and wire type
func ParseTag(tag Tag) (FieldNumber, WireType) {
	return FieldNumber(tag >> 3), WireType(tag & 0x7)
}

// RawField represents one undecoded field occurrence: the tag plus either the
// varint/fixed magnitude or the length-delimited byte span.
type RawField struct {
	FieldNumber FieldNumber
	WireType    WireType
	Number      uint64 // varint, fixed32 and fixed64 payloads (unsigned magnitude)
	Bytes       []byte // length-delimited payloads
}

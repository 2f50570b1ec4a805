package wire

import (
	"fmt"
)

// Decoder is a sequential, bounds-checked cursor over a protobuf wire-format
// buffer. Every read advances the internal position; reads never touch bytes
// past the end of the buffer.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder creates a new wire format decoder over data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{
		buf: data,
		pos: 0,
	}
}

// Position returns the current cursor offset from the start of the buffer.
func (d *Decoder) Position() int {
	return d.pos
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// HasRemaining reports whether any unread bytes remain.
func (d *Decoder) HasRemaining() bool {
	return d.pos < len(d.buf)
}

// ReadTag reads one varint and splits it into field number and wire type.
// Wire types 6 and 7 fail with ErrInvalidWireType; group markers (3 and 4)
// are structurally valid and returned as-is.
func (d *Decoder) ReadTag() (FieldNumber, WireType, error) {
	tag, err := d.DecodeVarint()
	if err != nil {
		return 0, 0, err
	}

	fieldNumber, wireType := ParseTag(Tag(tag))
	if !wireType.IsValid() {
		return 0, 0, fmt.Errorf("%w: %d for field %d", ErrInvalidWireType, wireType, fieldNumber)
	}
	if fieldNumber < 1 {
		return 0, 0, fmt.Errorf("%w: field number %d out of range", ErrInvalidWireType, fieldNumber)
	}
	return fieldNumber, wireType, nil
}

// SkipField skips the payload of a field based on its wire type. A start-group
// marker skips everything up to and including the matching end-group marker;
// a bare end-group marker is an error at this level.
func (d *Decoder) SkipField(wireType WireType) error {
	switch wireType {
	case WireVarint:
		vd := NewVarintDecoder(d)
		return vd.SkipVarint()
	case WireFixed64:
		if d.pos+8 > len(d.buf) {
			return fmt.Errorf("%w: not enough data to skip fixed64", ErrUnexpectedEOF)
		}
		d.pos += 8
		return nil
	case WireBytes:
		bd := NewBytesDecoder(d)
		return bd.SkipBytes()
	case WireStartGroup:
		return d.skipGroup()
	case WireEndGroup:
		return fmt.Errorf("%w: end-group without matching start-group", ErrInvalidWireType)
	case WireFixed32:
		if d.pos+4 > len(d.buf) {
			return fmt.Errorf("%w: not enough data to skip fixed32", ErrUnexpectedEOF)
		}
		d.pos += 4
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidWireType, wireType)
	}
}

// skipGroup consumes fields until the matching end-group marker. Groups are
// deprecated; their contents are never surfaced as data.
func (d *Decoder) skipGroup() error {
	for d.HasRemaining() {
		_, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		if wireType == WireEndGroup {
			return nil
		}
		if err := d.SkipField(wireType); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: group not terminated", ErrUnexpectedEOF)
}

// ReadRawField reads one complete field occurrence: tag plus payload. Group
// markers are consumed (start-group skips the whole group) and reported with
// an empty payload so callers can ignore them.
func (d *Decoder) ReadRawField() (*RawField, error) {
	fieldNumber, wireType, err := d.ReadTag()
	if err != nil {
		return nil, err
	}

	raw := &RawField{FieldNumber: fieldNumber, WireType: wireType}
	switch wireType {
	case WireVarint:
		raw.Number, err = d.DecodeVarint()
	case WireFixed64:
		var v uint64
		v, err = d.DecodeFixed64()
		raw.Number = v
	case WireFixed32:
		var v uint32
		v, err = d.DecodeFixed32()
		raw.Number = uint64(v)
	case WireBytes:
		raw.Bytes, err = d.DecodeBytes()
	case WireStartGroup:
		err = d.skipGroup()
	case WireEndGroup:
		err = fmt.Errorf("%w: end-group without matching start-group", ErrInvalidWireType)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

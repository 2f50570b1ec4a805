package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// FixedDecoder handles fixed-width decoding operations
type FixedDecoder struct {
	decoder *Decoder
}

// FixedEncoder handles fixed-width encoding operations
type FixedEncoder struct {
	encoder *Encoder
}

// NewFixedDecoder creates a new fixed decoder
func NewFixedDecoder(d *Decoder) *FixedDecoder {
	return &FixedDecoder{decoder: d}
}

// NewFixedEncoder creates a new fixed encoder
func NewFixedEncoder(e *Encoder) *FixedEncoder {
	return &FixedEncoder{encoder: e}
}

// DECODER METHODS

// DecodeFixed32 decodes a 32-bit little-endian fixed-width value
func (fd *FixedDecoder) DecodeFixed32() (uint32, error) {
	d := fd.decoder
	if d.pos+4 > len(d.buf) {
		return 0, fmt.Errorf("%w: need 4 bytes for fixed32, have %d", ErrUnexpectedEOF, len(d.buf)-d.pos)
	}

	value := binary.LittleEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return value, nil
}

// DecodeFixed64 decodes a 64-bit little-endian fixed-width value
func (fd *FixedDecoder) DecodeFixed64() (uint64, error) {
	d := fd.decoder
	if d.pos+8 > len(d.buf) {
		return 0, fmt.Errorf("%w: need 8 bytes for fixed64, have %d", ErrUnexpectedEOF, len(d.buf)-d.pos)
	}

	value := binary.LittleEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return value, nil
}

// DecodeSfixed32 decodes a signed 32-bit fixed-width value
func (fd *FixedDecoder) DecodeSfixed32() (int32, error) {
	v, err := fd.DecodeFixed32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// DecodeSfixed64 decodes a signed 64-bit fixed-width value
func (fd *FixedDecoder) DecodeSfixed64() (int64, error) {
	v, err := fd.DecodeFixed64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// DecodeFloat32 decodes a 32-bit IEEE-754 float from fixed32 data
func (fd *FixedDecoder) DecodeFloat32() (float32, error) {
	v, err := fd.DecodeFixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// DecodeFloat64 decodes a 64-bit IEEE-754 double from fixed64 data
func (fd *FixedDecoder) DecodeFloat64() (float64, error) {
	v, err := fd.DecodeFixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ENCODER METHODS

// EncodeFixed32 encodes a 32-bit fixed-width value little-endian
func (fe *FixedEncoder) EncodeFixed32(v uint32) {
	fe.encoder.buf = binary.LittleEndian.AppendUint32(fe.encoder.buf, v)
}

// EncodeFixed64 encodes a 64-bit fixed-width value little-endian
func (fe *FixedEncoder) EncodeFixed64(v uint64) {
	fe.encoder.buf = binary.LittleEndian.AppendUint64(fe.encoder.buf, v)
}

// EncodeSfixed32 encodes a signed 32-bit fixed-width value
func (fe *FixedEncoder) EncodeSfixed32(v int32) {
	fe.EncodeFixed32(uint32(v))
}

// EncodeSfixed64 encodes a signed 64-bit fixed-width value
func (fe *FixedEncoder) EncodeSfixed64(v int64) {
	fe.EncodeFixed64(uint64(v))
}

// EncodeFloat32 encodes a 32-bit float as fixed32
func (fe *FixedEncoder) EncodeFloat32(v float32) {
	fe.EncodeFixed32(math.Float32bits(v))
}

// EncodeFloat64 encodes a 64-bit float as fixed64
func (fe *FixedEncoder) EncodeFloat64(v float64) {
	fe.EncodeFixed64(math.Float64bits(v))
}

// Convenience methods for direct access

// DecodeFixed32 - convenience method for main decoder
func (d *Decoder) DecodeFixed32() (uint32, error) {
	fd := NewFixedDecoder(d)
	return fd.DecodeFixed32()
}

// DecodeFixed64 - convenience method for main decoder
func (d *Decoder) DecodeFixed64() (uint64, error) {
	fd := NewFixedDecoder(d)
	return fd.DecodeFixed64()
}

// EncodeFixed32 - convenience method for main encoder
func (e *Encoder) EncodeFixed32(v uint32) {
	fe := NewFixedEncoder(e)
	fe.EncodeFixed32(v)
}

// EncodeFixed64 - convenience method for main encoder
func (e *Encoder) EncodeFixed64(v uint64) {
	fe := NewFixedEncoder(e)
	fe.EncodeFixed64(v)
}

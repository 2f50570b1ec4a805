package wire

// Encoder handles low-level protobuf wire format encoding. Values append to
// an internal buffer; Bytes returns the accumulated output.
type Encoder struct {
	buf []byte
}

// NewEncoder creates a new wire format encoder
func NewEncoder() *Encoder {
	return &Encoder{
		buf: make([]byte, 0),
	}
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes encoded so far
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Reset clears the encoder buffer
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Append appends already-encoded bytes verbatim
func (e *Encoder) Append(data []byte) {
	e.buf = append(e.buf, data...)
}

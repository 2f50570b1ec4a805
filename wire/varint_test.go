package wire

import (
	"errors"
	"testing"
)

func TestDecodeVarint(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  uint64
	}{
		{"single byte", []byte{0x08}, 8},
		{"two bytes", []byte{0x96, 0x01}, 150},
		{"zero", []byte{0x00}, 0},
		{"max uint64", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, ^uint64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.input)
			got, err := d.DecodeVarint()
			if err != nil {
				t.Fatalf("DecodeVarint() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeVarint() = %d, want %d", got, tt.want)
			}
			if d.HasRemaining() {
				t.Errorf("decoder has %d bytes remaining, want 0", d.Remaining())
			}
		})
	}
}

func TestDecodeVarint_Malformed(t *testing.T) {
	// 10 bytes, all with the continuation bit set.
	input := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	d := NewDecoder(input)
	_, err := d.DecodeVarint()
	if !errors.Is(err, ErrMalformedVarint) {
		t.Errorf("DecodeVarint() error = %v, want ErrMalformedVarint", err)
	}
}

func TestDecodeVarint_Truncated(t *testing.T) {
	tests := [][]byte{
		{},
		{0x96},
		{0xff, 0xff, 0xff},
	}
	for _, input := range tests {
		d := NewDecoder(input)
		if _, err := d.DecodeVarint(); !errors.Is(err, ErrUnexpectedEOF) {
			t.Errorf("DecodeVarint(% x) error = %v, want ErrUnexpectedEOF", input, err)
		}
	}
}

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 150, 16383, 16384, 1<<32 - 1, 1 << 62, ^uint64(0)}
	for _, v := range values {
		e := NewEncoder()
		e.EncodeVarint(v)
		if got := len(e.Bytes()); got != VarintSize(v) {
			t.Errorf("encoded %d in %d bytes, VarintSize says %d", v, got, VarintSize(v))
		}

		d := NewDecoder(e.Bytes())
		got, err := d.DecodeVarint()
		if err != nil {
			t.Fatalf("DecodeVarint(%d) error: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip of %d = %d", v, got)
		}
	}
}

func TestZigZag(t *testing.T) {
	tests := []struct {
		decoded int64
		encoded uint64
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2147483647, 4294967294},
		{-2147483648, 4294967295},
	}
	for _, tt := range tests {
		if got := EncodeZigZag64(tt.decoded); got != tt.encoded {
			t.Errorf("EncodeZigZag64(%d) = %d, want %d", tt.decoded, got, tt.encoded)
		}
		if got := DecodeZigZag64(tt.encoded); got != tt.decoded {
			t.Errorf("DecodeZigZag64(%d) = %d, want %d", tt.encoded, got, tt.decoded)
		}
	}

	if got := EncodeZigZag32(-1); got != 1 {
		t.Errorf("EncodeZigZag32(-1) = %d, want 1", got)
	}
	if got := DecodeZigZag32(4294967295); got != -2147483648 {
		t.Errorf("DecodeZigZag32(4294967295) = %d, want -2147483648", got)
	}
}

func TestSkipVarint(t *testing.T) {
	e := NewEncoder()
	e.EncodeVarint(300)
	e.EncodeVarint(7)

	d := NewDecoder(e.Bytes())
	vd := NewVarintDecoder(d)
	if err := vd.SkipVarint(); err != nil {
		t.Fatalf("SkipVarint() error: %v", err)
	}
	got, err := d.DecodeVarint()
	if err != nil {
		t.Fatalf("DecodeVarint() error: %v", err)
	}
	if got != 7 {
		t.Errorf("value after skip = %d, want 7", got)
	}
}

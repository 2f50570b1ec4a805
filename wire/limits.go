package wire

import (
	"fmt"
)

// Default ceilings. Both exist to bound work on pathological inputs, not as
// format constraints; callers tune them per deployment.
const (
	DefaultMaxDepth      = 32
	DefaultMaxBufferSize = 64 << 20 // 64 MiB
)

// Limits bounds resource usage when decoding untrusted buffers: MaxDepth caps
// the recursion of the embedded-message detection heuristic, MaxBufferSize
// caps the size of a buffer accepted for a full decode. Breaching either
// fails with ErrResourceLimit; neither is ever silently truncated.
type Limits struct {
	MaxDepth      int
	MaxBufferSize int
}

// DefaultLimits returns the default resource ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:      DefaultMaxDepth,
		MaxBufferSize: DefaultMaxBufferSize,
	}
}

// CheckBuffer validates that a buffer is within the configured size ceiling.
func (l Limits) CheckBuffer(data []byte) error {
	if l.MaxBufferSize > 0 && len(data) > l.MaxBufferSize {
		return fmt.Errorf("%w: buffer is %d bytes, limit is %d", ErrResourceLimit, len(data), l.MaxBufferSize)
	}
	return nil
}

// CheckDepth validates that a recursion depth is within the configured ceiling.
func (l Limits) CheckDepth(depth int) error {
	if l.MaxDepth > 0 && depth > l.MaxDepth {
		return fmt.Errorf("%w: nesting depth %d, limit is %d", ErrResourceLimit, depth, l.MaxDepth)
	}
	return nil
}

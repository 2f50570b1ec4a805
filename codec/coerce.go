package codec

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wirescope/wirescope/wire"
)

// Coercion helpers accept the value shapes that reach the encoder from Go
// callers, JSON and YAML: native integer types, json.Number, floats that are
// integral, and decimal strings (required for 64-bit values from callers
// without a 64-bit number type).

func coerceToInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", wire.ErrInvalidFieldValue, t)
		}
		return int64(t), nil
	case json.Number:
		if iv, err := t.Int64(); err == nil {
			return iv, nil
		}
		return integralFloatToInt64(t.String())
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("%w: non-integer numeric for integer field", wire.ErrInvalidFieldValue)
		}
		return int64(t), nil
	case string:
		if strings.ContainsAny(t, ".eE") {
			return integralFloatToInt64(t)
		}
		iv, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", wire.ErrInvalidFieldValue, t)
		}
		return iv, nil
	default:
		return 0, fmt.Errorf("%w: expected integer-like, got %T", wire.ErrInvalidFieldValue, v)
	}
}

func coerceToUint64(v interface{}) (uint64, error) {
	switch t := v.(type) {
	case uint64:
		return t, nil
	case uint32:
		return uint64(t), nil
	case int:
		if t < 0 {
			return 0, fmt.Errorf("%w: negative value for unsigned field", wire.ErrInvalidFieldValue)
		}
		return uint64(t), nil
	case int32:
		if t < 0 {
			return 0, fmt.Errorf("%w: negative value for unsigned field", wire.ErrInvalidFieldValue)
		}
		return uint64(t), nil
	case int64:
		if t < 0 {
			return 0, fmt.Errorf("%w: negative value for unsigned field", wire.ErrInvalidFieldValue)
		}
		return uint64(t), nil
	case json.Number:
		if uv, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return uv, nil
		}
		return integralFloatToUint64(t.String())
	case float64:
		if t < 0 || t != math.Trunc(t) {
			return 0, fmt.Errorf("%w: non-integer numeric for unsigned field", wire.ErrInvalidFieldValue)
		}
		return uint64(t), nil
	case string:
		if strings.ContainsAny(t, ".eE") {
			return integralFloatToUint64(t)
		}
		uv, err := strconv.ParseUint(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an unsigned integer", wire.ErrInvalidFieldValue, t)
		}
		return uv, nil
	default:
		return 0, fmt.Errorf("%w: expected unsigned-integer-like, got %T", wire.ErrInvalidFieldValue, v)
	}
}

func integralFloatToInt64(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q is not an integral number", wire.ErrInvalidFieldValue, s)
	}
	return int64(f), nil
}

func integralFloatToUint64(s string) (uint64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q is not an integral unsigned number", wire.ErrInvalidFieldValue, s)
	}
	return uint64(f), nil
}

func coerceToFloat64(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", wire.ErrInvalidFieldValue, t.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", wire.ErrInvalidFieldValue, t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: expected numeric, got %T", wire.ErrInvalidFieldValue, v)
	}
}

func coerceToBool(v interface{}) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a bool", wire.ErrInvalidFieldValue, t)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: expected bool, got %T", wire.ErrInvalidFieldValue, v)
	}
}

func coerceToString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", wire.ErrInvalidFieldValue, v)
	}
	return s, nil
}

// coerceToBytes accepts raw []byte, a hex string or a base64 string, in that
// order of preference.
func coerceToBytes(v interface{}) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		if b, err := hex.DecodeString(t); err == nil {
			return b, nil
		}
		if b, err := base64.StdEncoding.DecodeString(t); err == nil {
			return b, nil
		}
		if b, err := base64.URLEncoding.DecodeString(t); err == nil {
			return b, nil
		}
		return nil, fmt.Errorf("%w: string is neither hex nor base64", wire.ErrInvalidFieldValue)
	default:
		return nil, fmt.Errorf("%w: expected bytes, hex or base64 string, got %T", wire.ErrInvalidFieldValue, v)
	}
}

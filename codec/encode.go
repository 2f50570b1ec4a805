package codec

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/wirescope/wirescope/schema"
	"github.com/wirescope/wirescope/wire"
)

// EncodeMessage encodes an object against a message definition, walking the
// field list in table order. Keys in data with no matching field are ignored;
// fields with no matching key emit nothing (default-omission semantics).
func EncodeMessage(data map[string]interface{}, msg *schema.Message, res Resolver, limits wire.Limits) ([]byte, error) {
	e := wire.NewEncoder()
	if err := encodeInto(e, data, msg, res, limits, 1); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func encodeInto(e *wire.Encoder, data map[string]interface{}, msg *schema.Message, res Resolver, limits wire.Limits, depth int) error {
	if err := limits.CheckDepth(depth); err != nil {
		return err
	}

	for _, field := range msg.Fields {
		value, ok := data[field.Name]
		if !ok || value == nil {
			continue
		}

		var err error
		switch {
		case field.Type == schema.TypeMap:
			err = encodeMapField(e, value, field, res, limits, depth)
		case field.Repeated:
			err = encodeRepeatedField(e, value, field, res, limits, depth)
		default:
			err = encodeSingleField(e, value, field, res, limits, depth)
		}
		if err != nil {
			return wire.WrapWithField(err, field.Name)
		}
	}
	return nil
}

// encodeRepeatedField emits one tag+value pair per element, in array order.
// The packed form is deliberately never produced; the expanded form is the
// most compatible wire encoding.
func encodeRepeatedField(e *wire.Encoder, value interface{}, field *schema.Field, res Resolver, limits wire.Limits, depth int) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("%w: repeated field requires an array, got %T", wire.ErrInvalidFieldValue, value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := encodeSingleField(e, rv.Index(i).Interface(), field, res, limits, depth); err != nil {
			return err
		}
	}
	return nil
}

// encodeSingleField emits the tag followed by one value.
func encodeSingleField(e *wire.Encoder, value interface{}, field *schema.Field, res Resolver, limits wire.Limits, depth int) error {
	ve := wire.NewVarintEncoder(e)
	ve.EncodeTag(wire.FieldNumber(field.Number), schema.WireTypeFor(field.Type))

	switch field.Type {
	case schema.TypeMessage:
		return encodeMessageField(e, value, field, res, limits, depth)
	case schema.TypeEnum:
		return encodeEnumField(e, value, field, res)
	default:
		return encodeScalar(e, field.Type, value)
	}
}

// encodeScalar encodes one scalar value with exact per-type semantics.
func encodeScalar(e *wire.Encoder, t schema.Type, value interface{}) error {
	ve := wire.NewVarintEncoder(e)
	fe := wire.NewFixedEncoder(e)
	be := wire.NewBytesEncoder(e)

	switch t {
	case schema.TypeString:
		s, err := coerceToString(value)
		if err != nil {
			return err
		}
		be.EncodeString(s)
	case schema.TypeBytes:
		b, err := coerceToBytes(value)
		if err != nil {
			return err
		}
		be.EncodeBytes(b)
	case schema.TypeInt32:
		v, err := coerceToInt64(value)
		if err != nil {
			return err
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return fmt.Errorf("%w: %d overflows int32", wire.ErrInvalidFieldValue, v)
		}
		// Negative int32 still occupies 10 varint bytes via sign extension.
		ve.EncodeInt64(v)
	case schema.TypeInt64:
		v, err := coerceToInt64(value)
		if err != nil {
			return err
		}
		ve.EncodeInt64(v)
	case schema.TypeUint32:
		v, err := coerceToUint64(value)
		if err != nil {
			return err
		}
		if v > math.MaxUint32 {
			return fmt.Errorf("%w: %d overflows uint32", wire.ErrInvalidFieldValue, v)
		}
		ve.EncodeVarint(v)
	case schema.TypeUint64:
		v, err := coerceToUint64(value)
		if err != nil {
			return err
		}
		ve.EncodeVarint(v)
	case schema.TypeSint32:
		v, err := coerceToInt64(value)
		if err != nil {
			return err
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return fmt.Errorf("%w: %d overflows sint32", wire.ErrInvalidFieldValue, v)
		}
		ve.EncodeSint32(int32(v))
	case schema.TypeSint64:
		v, err := coerceToInt64(value)
		if err != nil {
			return err
		}
		ve.EncodeSint64(v)
	case schema.TypeBool:
		v, err := coerceToBool(value)
		if err != nil {
			return err
		}
		ve.EncodeBool(v)
	case schema.TypeFixed32:
		v, err := coerceToUint64(value)
		if err != nil {
			return err
		}
		if v > math.MaxUint32 {
			return fmt.Errorf("%w: %d overflows fixed32", wire.ErrInvalidFieldValue, v)
		}
		fe.EncodeFixed32(uint32(v))
	case schema.TypeSfixed32:
		v, err := coerceToInt64(value)
		if err != nil {
			return err
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return fmt.Errorf("%w: %d overflows sfixed32", wire.ErrInvalidFieldValue, v)
		}
		fe.EncodeSfixed32(int32(v))
	case schema.TypeFixed64:
		v, err := coerceToUint64(value)
		if err != nil {
			return err
		}
		fe.EncodeFixed64(v)
	case schema.TypeSfixed64:
		v, err := coerceToInt64(value)
		if err != nil {
			return err
		}
		fe.EncodeSfixed64(v)
	case schema.TypeFloat:
		v, err := coerceToFloat64(value)
		if err != nil {
			return err
		}
		fe.EncodeFloat32(float32(v))
	case schema.TypeDouble:
		v, err := coerceToFloat64(value)
		if err != nil {
			return err
		}
		fe.EncodeFloat64(v)
	default:
		return fmt.Errorf("%w: unsupported scalar type %q", wire.ErrInvalidFieldValue, t)
	}
	return nil
}

// encodeMessageField encodes a nested message as a length-delimited span.
// Pre-encoded []byte payloads pass through verbatim.
func encodeMessageField(e *wire.Encoder, value interface{}, field *schema.Field, res Resolver, limits wire.Limits, depth int) error {
	be := wire.NewBytesEncoder(e)

	if raw, ok := value.([]byte); ok {
		be.EncodeBytes(raw)
		return nil
	}

	data, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%w: message value must be an object or raw bytes, got %T", wire.ErrInvalidFieldValue, value)
	}
	if res == nil {
		return fmt.Errorf("%w: no schema available for message type %s", wire.ErrInvalidFieldValue, field.TypeName)
	}

	nestedMsg, err := res.ResolveMessage(field.TypeName)
	if err != nil {
		return err
	}

	nested := wire.NewEncoder()
	if err := encodeInto(nested, data, nestedMsg, res, limits, depth+1); err != nil {
		return err
	}
	be.EncodeBytes(nested.Bytes())
	return nil
}

// encodeEnumField accepts an enum value either by name or by number.
func encodeEnumField(e *wire.Encoder, value interface{}, field *schema.Field, res Resolver) error {
	ve := wire.NewVarintEncoder(e)

	if name, ok := value.(string); ok {
		if res == nil {
			return fmt.Errorf("%w: no schema available for enum type %s", wire.ErrInvalidFieldValue, field.TypeName)
		}
		enum, err := res.ResolveEnum(field.TypeName)
		if err != nil {
			return err
		}
		number, ok := enum.ValueNumber(name)
		if !ok {
			return fmt.Errorf("%w: %q is not a value of enum %s", wire.ErrInvalidFieldValue, name, enum.Name)
		}
		ve.EncodeInt64(int64(number))
		return nil
	}

	v, err := coerceToInt64(value)
	if err != nil {
		return err
	}
	ve.EncodeInt64(v)
	return nil
}

// encodeMapField encodes each map pair as a length-delimited entry message
// with key as field 1 and value as field 2. Entries are emitted in sorted key
// order so encoding is deterministic.
func encodeMapField(e *wire.Encoder, value interface{}, field *schema.Field, res Resolver, limits wire.Limits, depth int) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return fmt.Errorf("%w: map field requires a map, got %T", wire.ErrInvalidFieldValue, value)
	}

	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})

	for _, k := range keys {
		entry := wire.NewEncoder()

		kf := &schema.Field{Number: 1, Name: "key", Type: field.MapKey.Type, TypeName: field.MapKey.TypeName}
		if err := encodeSingleField(entry, k.Interface(), kf, res, limits, depth+1); err != nil {
			return err
		}
		vf := &schema.Field{Number: 2, Name: "value", Type: field.MapValue.Type, TypeName: field.MapValue.TypeName}
		if err := encodeSingleField(entry, rv.MapIndex(k).Interface(), vf, res, limits, depth+1); err != nil {
			return err
		}

		ve := wire.NewVarintEncoder(e)
		ve.EncodeTag(wire.FieldNumber(field.Number), wire.WireBytes)
		be := wire.NewBytesEncoder(e)
		be.EncodeBytes(entry.Bytes())
	}
	return nil
}

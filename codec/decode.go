package codec

import (
	"fmt"
	"strconv"

	"github.com/wirescope/wirescope/schema"
	"github.com/wirescope/wirescope/wire"
)

// DecodeMessage decodes wire bytes against a message definition. Unknown
// field numbers are skipped (forward-compatibility: unknown fields are
// dropped, not preserved); a wire type that contradicts the declared field
// type is an explicit ErrInvalidFieldValue.
//
// Fields of a 64-bit integer type (int64, uint64, fixed64, sfixed64) surface
// as decimal strings so the output survives serializers without a 64-bit
// number type.
func DecodeMessage(data []byte, msg *schema.Message, res Resolver, limits wire.Limits) (map[string]interface{}, error) {
	if err := limits.CheckBuffer(data); err != nil {
		return nil, err
	}
	return decodeInto(data, msg, res, limits, 1)
}

func decodeInto(data []byte, msg *schema.Message, res Resolver, limits wire.Limits, depth int) (map[string]interface{}, error) {
	if err := limits.CheckDepth(depth); err != nil {
		return nil, err
	}

	result := make(map[string]interface{})
	d := wire.NewDecoder(data)

	for d.HasRemaining() {
		fieldNumber, wireType, err := d.ReadTag()
		if err != nil {
			return nil, fmt.Errorf("failed to decode message %s: %w", msg.Name, err)
		}

		field := msg.FieldByNumber(int32(fieldNumber))
		if field == nil {
			if err := d.SkipField(wireType); err != nil {
				return nil, fmt.Errorf("failed to decode message %s: %w", msg.Name, err)
			}
			continue
		}

		switch {
		case field.Type == schema.TypeMap:
			err = decodeMapEntry(d, wireType, field, result, res, limits, depth)
		case field.Repeated && wireType == wire.WireBytes && schema.WireTypeFor(field.Type) != wire.WireBytes:
			err = decodePacked(d, field, result, res)
		default:
			var value interface{}
			value, err = decodeFieldValue(d, wireType, field, res, limits, depth)
			if err == nil {
				assign(result, field, value)
			}
		}
		if err != nil {
			return nil, wire.WrapWithField(err, field.Name)
		}
	}

	return result, nil
}

func assign(result map[string]interface{}, field *schema.Field, value interface{}) {
	if !field.Repeated {
		result[field.Name] = value
		return
	}
	list, _ := result[field.Name].([]interface{})
	result[field.Name] = append(list, value)
}

// decodeFieldValue reads one value from the cursor and interprets it strictly
// according to the declared field type.
func decodeFieldValue(d *wire.Decoder, wireType wire.WireType, field *schema.Field, res Resolver, limits wire.Limits, depth int) (interface{}, error) {
	if expected := schema.WireTypeFor(field.Type); wireType != expected {
		return nil, fmt.Errorf("%w: declared %s arrives as wire type %s, expected %s",
			wire.ErrInvalidFieldValue, field.Type, wireType, expected)
	}

	switch field.Type {
	case schema.TypeMessage:
		return decodeMessageField(d, field, res, limits, depth)
	case schema.TypeEnum:
		return decodeEnumField(d, field, res)
	default:
		return decodeScalar(d, field.Type)
	}
}

// decodeScalar reads one scalar of the given logical type from the cursor.
func decodeScalar(d *wire.Decoder, t schema.Type) (interface{}, error) {
	vd := wire.NewVarintDecoder(d)
	fd := wire.NewFixedDecoder(d)
	bd := wire.NewBytesDecoder(d)

	switch t {
	case schema.TypeInt32:
		v, err := vd.DecodeVarint()
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case schema.TypeInt64:
		v, err := vd.DecodeVarint()
		if err != nil {
			return nil, err
		}
		return strconv.FormatInt(int64(v), 10), nil
	case schema.TypeUint32:
		v, err := vd.DecodeVarint()
		if err != nil {
			return nil, err
		}
		return uint32(v), nil
	case schema.TypeUint64:
		v, err := vd.DecodeVarint()
		if err != nil {
			return nil, err
		}
		return strconv.FormatUint(v, 10), nil
	case schema.TypeSint32:
		return vd.DecodeSint32()
	case schema.TypeSint64:
		return vd.DecodeSint64()
	case schema.TypeBool:
		return vd.DecodeBool()
	case schema.TypeFixed32:
		return fd.DecodeFixed32()
	case schema.TypeSfixed32:
		return fd.DecodeSfixed32()
	case schema.TypeFixed64:
		v, err := fd.DecodeFixed64()
		if err != nil {
			return nil, err
		}
		return strconv.FormatUint(v, 10), nil
	case schema.TypeSfixed64:
		v, err := fd.DecodeSfixed64()
		if err != nil {
			return nil, err
		}
		return strconv.FormatInt(v, 10), nil
	case schema.TypeFloat:
		return fd.DecodeFloat32()
	case schema.TypeDouble:
		return fd.DecodeFloat64()
	case schema.TypeString:
		return bd.DecodeString()
	case schema.TypeBytes:
		return bd.DecodeBytes()
	default:
		return nil, fmt.Errorf("%w: unsupported scalar type %q", wire.ErrInvalidFieldValue, t)
	}
}

// decodePacked unpacks a packed repeated numeric field: a single
// length-delimited span holding back-to-back values with no tags.
func decodePacked(d *wire.Decoder, field *schema.Field, result map[string]interface{}, res Resolver) error {
	if !schema.IsPackedEligible(field.Type) {
		return fmt.Errorf("%w: declared %s cannot arrive packed", wire.ErrInvalidFieldValue, field.Type)
	}

	bd := wire.NewBytesDecoder(d)
	span, err := bd.DecodeRawBytes()
	if err != nil {
		return err
	}

	sub := wire.NewDecoder(span)
	for sub.HasRemaining() {
		var value interface{}
		if field.Type == schema.TypeEnum {
			value, err = decodeEnumField(sub, field, res)
		} else {
			value, err = decodeScalar(sub, field.Type)
		}
		if err != nil {
			return err
		}
		assign(result, field, value)
	}
	return nil
}

// decodeMessageField decodes a nested message span. Without a resolver, or
// when the referenced type is unknown, the raw span is surfaced instead.
func decodeMessageField(d *wire.Decoder, field *schema.Field, res Resolver, limits wire.Limits, depth int) (interface{}, error) {
	bd := wire.NewBytesDecoder(d)
	span, err := bd.DecodeBytes()
	if err != nil {
		return nil, err
	}

	if res == nil {
		return span, nil
	}
	nestedMsg, err := res.ResolveMessage(field.TypeName)
	if err != nil {
		return span, nil
	}

	return decodeInto(span, nestedMsg, res, limits, depth+1)
}

// decodeEnumField surfaces the enum value name when the schema knows it, and
// the raw number otherwise.
func decodeEnumField(d *wire.Decoder, field *schema.Field, res Resolver) (interface{}, error) {
	vd := wire.NewVarintDecoder(d)
	v, err := vd.DecodeVarint()
	if err != nil {
		return nil, err
	}
	number := int32(v)

	if res != nil {
		if enum, err := res.ResolveEnum(field.TypeName); err == nil {
			if name, ok := enum.ValueName(number); ok {
				return name, nil
			}
		}
	}
	return number, nil
}

// decodeMapEntry decodes one map entry message (key field 1, value field 2)
// and merges it into the accumulated map for the field. Keys are rendered as
// strings for a JSON-friendly shape.
func decodeMapEntry(d *wire.Decoder, wireType wire.WireType, field *schema.Field, result map[string]interface{}, res Resolver, limits wire.Limits, depth int) error {
	if wireType != wire.WireBytes {
		return fmt.Errorf("%w: map entry arrives as wire type %s", wire.ErrInvalidFieldValue, wireType)
	}

	bd := wire.NewBytesDecoder(d)
	span, err := bd.DecodeRawBytes()
	if err != nil {
		return err
	}

	entryMsg := &schema.Message{
		Name: field.Name + "Entry",
		Fields: []*schema.Field{
			{Number: 1, Name: "key", Type: field.MapKey.Type, TypeName: field.MapKey.TypeName},
			{Number: 2, Name: "value", Type: field.MapValue.Type, TypeName: field.MapValue.TypeName},
		},
	}
	entry, err := decodeInto(span, entryMsg, res, limits, depth+1)
	if err != nil {
		return err
	}

	m, _ := result[field.Name].(map[string]interface{})
	if m == nil {
		m = make(map[string]interface{})
		result[field.Name] = m
	}
	key, ok := entry["key"]
	if !ok {
		key = "" // canonical encoders omit zero-value keys
	}
	m[fmt.Sprint(key)] = entry["value"]
	return nil
}

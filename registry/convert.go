package registry

import (
	"fmt"
	"strconv"
	"strings"

	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/wirescope/wirescope/schema"
)

// fileBuilder converts one parsed .proto AST into schema types.
type fileBuilder struct {
	name   string
	parsed *protoparserparser.Proto

	pkg    string
	syntax string
}

func newFileBuilder(name string, parsed *protoparserparser.Proto) *fileBuilder {
	b := &fileBuilder{name: name, parsed: parsed, syntax: "proto3"}
	for _, body := range parsed.ProtoBody {
		switch v := body.(type) {
		case *protoparserparser.Package:
			b.pkg = v.Name
		case *protoparserparser.Syntax:
			b.syntax = strings.Trim(v.ProtobufVersion, `"`)
		}
	}
	return b
}

// registerNames records every message and enum name, including nested ones,
// before any field is built. References between messages resolve against this
// set regardless of declaration order or file.
func (b *fileBuilder) registerNames(r *Registry) {
	for _, body := range b.parsed.ProtoBody {
		switch v := body.(type) {
		case *protoparserparser.Message:
			b.registerMessageNames(r, v, b.pkg)
		case *protoparserparser.Enum:
			r.enums[fullName(b.pkg, v.EnumName)] = &schema.Enum{Name: fullName(b.pkg, v.EnumName)}
		}
	}
}

func (b *fileBuilder) registerMessageNames(r *Registry, msg *protoparserparser.Message, prefix string) {
	name := fullName(prefix, msg.MessageName)
	r.messages[name] = &schema.Message{Name: name}

	for _, body := range msg.MessageBody {
		switch v := body.(type) {
		case *protoparserparser.Message:
			b.registerMessageNames(r, v, name)
		case *protoparserparser.Enum:
			r.enums[fullName(name, v.EnumName)] = &schema.Enum{Name: fullName(name, v.EnumName)}
		}
	}
}

// buildDefinitions fills in the fields and values registered by the first pass.
func (b *fileBuilder) buildDefinitions(r *Registry) (*schema.File, error) {
	file := &schema.File{
		Name:    b.name,
		Package: b.pkg,
		Syntax:  b.syntax,
	}

	for _, body := range b.parsed.ProtoBody {
		switch v := body.(type) {
		case *protoparserparser.Message:
			msg, err := b.buildMessage(r, v, b.pkg)
			if err != nil {
				return nil, err
			}
			file.Messages = append(file.Messages, msg)
		case *protoparserparser.Enum:
			enum, err := b.buildEnum(r, v, b.pkg)
			if err != nil {
				return nil, err
			}
			file.Enums = append(file.Enums, enum)
		}
	}
	return file, nil
}

func (b *fileBuilder) buildMessage(r *Registry, src *protoparserparser.Message, prefix string) (*schema.Message, error) {
	name := fullName(prefix, src.MessageName)
	msg := r.messages[name]

	for _, body := range src.MessageBody {
		switch v := body.(type) {
		case *protoparserparser.Field:
			field, err := b.buildField(r, v.FieldName, v.FieldNumber, v.Type, v.IsRepeated, name)
			if err != nil {
				return nil, err
			}
			msg.Fields = append(msg.Fields, field)
		case *protoparserparser.MapField:
			field, err := b.buildMapField(r, v, name)
			if err != nil {
				return nil, err
			}
			msg.Fields = append(msg.Fields, field)
		case *protoparserparser.Oneof:
			// Oneof members are plain fields on the wire.
			for _, of := range v.OneofFields {
				field, err := b.buildField(r, of.FieldName, of.FieldNumber, of.Type, false, name)
				if err != nil {
					return nil, err
				}
				msg.Fields = append(msg.Fields, field)
			}
		case *protoparserparser.Message:
			if _, err := b.buildMessage(r, v, name); err != nil {
				return nil, err
			}
		case *protoparserparser.Enum:
			if _, err := b.buildEnum(r, v, name); err != nil {
				return nil, err
			}
		}
	}
	return msg, nil
}

func (b *fileBuilder) buildEnum(r *Registry, src *protoparserparser.Enum, prefix string) (*schema.Enum, error) {
	name := fullName(prefix, src.EnumName)
	enum := r.enums[name]

	for _, body := range src.EnumBody {
		ef, ok := body.(*protoparserparser.EnumField)
		if !ok {
			continue
		}
		number, err := strconv.ParseInt(ef.Number, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("enum %s: bad value number %q: %w", name, ef.Number, err)
		}
		enum.Values = append(enum.Values, &schema.EnumValue{
			Name:   ef.Ident,
			Number: int32(number),
		})
	}
	return enum, nil
}

func (b *fileBuilder) buildField(r *Registry, fieldName, fieldNumber, typeName string, repeated bool, scope string) (*schema.Field, error) {
	number, err := strconv.ParseInt(fieldNumber, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("field %s: bad field number %q: %w", fieldName, fieldNumber, err)
	}

	field := &schema.Field{
		Number:   int32(number),
		Name:     fieldName,
		Repeated: repeated,
	}
	field.Type, field.TypeName = b.resolveType(r, typeName, scope)
	return field, nil
}

func (b *fileBuilder) buildMapField(r *Registry, src *protoparserparser.MapField, scope string) (*schema.Field, error) {
	number, err := strconv.ParseInt(src.FieldNumber, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("map field %s: bad field number %q: %w", src.MapName, src.FieldNumber, err)
	}

	field := &schema.Field{
		Number:   int32(number),
		Name:     src.MapName,
		Type:     schema.TypeMap,
		MapKey:   &schema.Field{},
		MapValue: &schema.Field{},
	}
	field.MapKey.Type, field.MapKey.TypeName = b.resolveType(r, src.KeyType, scope)
	field.MapValue.Type, field.MapValue.TypeName = b.resolveType(r, src.Type, scope)
	return field, nil
}

// resolveType maps a .proto type reference to a schema type. Scalar names map
// directly; anything else is resolved against the registered names, trying
// the innermost scope first and widening to the package root, matching
// protobuf's reference resolution rules.
func (b *fileBuilder) resolveType(r *Registry, typeName, scope string) (schema.Type, string) {
	if t := schema.Type(typeName); schema.IsScalar(t) {
		return t, ""
	}

	candidate := strings.TrimPrefix(typeName, ".")
	scopes := strings.Split(scope, ".")
	for i := len(scopes); i >= 0; i-- {
		qualified := fullName(strings.Join(scopes[:i], "."), candidate)
		if _, ok := r.enums[qualified]; ok {
			return schema.TypeEnum, qualified
		}
		if _, ok := r.messages[qualified]; ok {
			return schema.TypeMessage, qualified
		}
	}

	// Unknown reference: treat as a message so the codec falls back to the
	// raw span instead of failing the whole schema load.
	return schema.TypeMessage, candidate
}

func fullName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Package registry loads .proto files and serves their message and enum
// definitions to the codec. It is the schema-driven path's substitute for
// generated code: parse once, look up by name at encode/decode time.
package registry

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/wirescope/wirescope/schema"
)

// Registry stores parsed protobuf definitions keyed by fully qualified name.
// Look-ups accept bare names too, matched by suffix, so callers of a
// single-file schema need not spell out the package.
type Registry struct {
	files    map[string]*schema.File
	messages map[string]*schema.Message
	enums    map[string]*schema.Enum

	parsed map[string]*protoparserparser.Proto
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		files:    make(map[string]*schema.File),
		messages: make(map[string]*schema.Message),
		enums:    make(map[string]*schema.Enum),
		parsed:   make(map[string]*protoparserparser.Proto),
	}
}

// LoadSchema loads a single .proto file or recursively scans a directory for
// *.proto files, then rebuilds the symbol table.
func (r *Registry) LoadSchema(protoPath string) error {
	info, err := os.Stat(protoPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	if !info.IsDir() {
		if !strings.HasSuffix(protoPath, ".proto") {
			return fmt.Errorf("file %s is not a .proto file", protoPath)
		}
		if err := r.loadSingleProtoFile(protoPath); err != nil {
			return fmt.Errorf("failed to load proto file: %w", err)
		}
	} else {
		err = filepath.WalkDir(protoPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".proto") {
				return nil
			}
			if err := r.loadSingleProtoFile(path); err != nil {
				return fmt.Errorf("failed to load proto file %s: %w", path, err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk directory: %w", err)
		}
	}

	return r.buildSymbolTable()
}

// LoadReader parses .proto text from a reader under the given name and
// rebuilds the symbol table.
func (r *Registry) LoadReader(rd io.Reader, name string) error {
	parsed, err := protoparser.Parse(rd)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	r.parsed[name] = parsed
	return r.buildSymbolTable()
}

// loadSingleProtoFile parses one .proto file into the pending set.
func (r *Registry) loadSingleProtoFile(filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	parsed, err := protoparser.Parse(f)
	if err != nil {
		return err
	}
	r.parsed[filePath] = parsed
	return nil
}

// buildSymbolTable converts every parsed file into schema types. Two passes:
// names first so field type references can be resolved regardless of
// declaration order, then definitions.
func (r *Registry) buildSymbolTable() error {
	r.files = make(map[string]*schema.File)
	r.messages = make(map[string]*schema.Message)
	r.enums = make(map[string]*schema.Enum)

	builders := make(map[string]*fileBuilder, len(r.parsed))
	for name, parsed := range r.parsed {
		b := newFileBuilder(name, parsed)
		b.registerNames(r)
		builders[name] = b
	}
	for name, b := range builders {
		file, err := b.buildDefinitions(r)
		if err != nil {
			return fmt.Errorf("failed to build %s: %w", name, err)
		}
		r.files[name] = file
	}
	return nil
}

// ResolveMessage retrieves a message definition by fully qualified or bare name.
func (r *Registry) ResolveMessage(name string) (*schema.Message, error) {
	if msg, exists := r.messages[name]; exists {
		return msg, nil
	}
	for fullName, msg := range r.messages {
		if strings.HasSuffix(fullName, "."+name) {
			return msg, nil
		}
	}
	return nil, fmt.Errorf("message not found: %s", name)
}

// ResolveEnum retrieves an enum definition by fully qualified or bare name.
func (r *Registry) ResolveEnum(name string) (*schema.Enum, error) {
	if enum, exists := r.enums[name]; exists {
		return enum, nil
	}
	for fullName, enum := range r.enums {
		if strings.HasSuffix(fullName, "."+name) {
			return enum, nil
		}
	}
	return nil, fmt.Errorf("enum not found: %s", name)
}

// ListMessages returns all registered message names, sorted.
func (r *Registry) ListMessages() []string {
	names := make([]string, 0, len(r.messages))
	for name := range r.messages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListEnums returns all registered enum names, sorted.
func (r *Registry) ListEnums() []string {
	names := make([]string, 0, len(r.enums))
	for name := range r.enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wirescope/wirescope/wire"
)

// readSource reads the named file, or stdin when path is empty or "-".
func readSource(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// decodeBytes converts user-supplied text into a wire buffer according to the
// selected input encoding.
func decodeBytes(raw []byte, format string) ([]byte, error) {
	switch format {
	case "raw":
		return raw, nil
	case "hex":
		clean := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
				return -1
			}
			return r
		}, string(raw))
		return hex.DecodeString(clean)
	case "base64":
		return base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	case "base64url":
		return base64.URLEncoding.DecodeString(strings.TrimSpace(string(raw)))
	default:
		return nil, fmt.Errorf("unknown input encoding %q", format)
	}
}

// writeBytes renders a produced wire buffer in the selected output encoding.
func writeBytes(w io.Writer, data []byte, format string) error {
	switch format {
	case "raw":
		_, err := w.Write(data)
		return err
	case "hex":
		_, err := fmt.Fprintln(w, hex.EncodeToString(data))
		return err
	case "base64":
		_, err := fmt.Fprintln(w, base64.StdEncoding.EncodeToString(data))
		return err
	case "base64url":
		_, err := fmt.Fprintln(w, base64.URLEncoding.EncodeToString(data))
		return err
	default:
		return fmt.Errorf("unknown output encoding %q", format)
	}
}

// renderValue converts a decoded value to display text. YAML output goes
// through a JSON round-trip first so custom JSON marshaling (64-bit values as
// decimal strings) applies to both formats.
func renderValue(v interface{}, format string) (string, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case "yaml":
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		var plain interface{}
		dec := json.NewDecoder(bytes.NewReader(jsonBytes))
		dec.UseNumber()
		if err := dec.Decode(&plain); err != nil {
			return "", err
		}
		out, err := yaml.Marshal(plain)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown text format %q", format)
	}
}

// parseObject reads a user-supplied object as JSON, falling back to YAML.
// JSON numbers stay json.Number so 64-bit values keep full precision.
func parseObject(text []byte) (map[string]interface{}, error) {
	var obj map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&obj); err == nil {
		return obj, nil
	}
	if err := yaml.Unmarshal(text, &obj); err != nil {
		return nil, fmt.Errorf("input is neither valid JSON nor YAML: %w", err)
	}
	return obj, nil
}

// limitsFromFlags builds resource ceilings from the global flags, keeping
// defaults for unset values.
func limitsFromFlags() wire.Limits {
	l := wire.DefaultLimits()
	if flagMaxDepth > 0 {
		l.MaxDepth = flagMaxDepth
	}
	if flagMaxBuffer > 0 {
		l.MaxBufferSize = flagMaxBuffer
	}
	return l
}

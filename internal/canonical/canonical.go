// Package canonical rewrites structured values into a byte-stable JSON form:
// object keys are emitted in lexicographic order at every depth and number
// literals are kept exactly as they were read.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Normalize converts v into a generic JSON tree (map[string]any, []any,
// json.Number, string, bool, nil). Structs lose their declaration order,
// which is what makes the subsequent Marshal deterministic.
func Normalize(v any) (any, error) {
	raw, err := encode(v)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// Decode parses a single JSON value into a generic tree, keeping numbers as
// json.Number so they round-trip without float conversion.
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("canonical: decode: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("canonical: decode: trailing data after JSON value")
	}
	return out, nil
}

// Marshal returns the canonical encoding of v without a trailing newline.
func Marshal(v any) ([]byte, error) {
	tree, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	return encode(tree)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("canonical: encode: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec defines how a value is turned into bytes for the store and back.
type Codec interface {
	// Name identifies the codec in configuration ("json", "yaml").
	Name() string
	// Extension is the file extension used by file-backed stores.
	Extension() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// CodecFor returns the codec registered under name.
func CodecFor(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return NewJSONCodec(true), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unknown codec: %s", name)
	}
}

// --- JSON Codec ---

// JSONCodec encodes values as JSON.
type JSONCodec struct {
	// Indent produces human-readable output.
	Indent bool
}

// NewJSONCodec creates a JSON codec.
func NewJSONCodec(indent bool) *JSONCodec {
	return &JSONCodec{Indent: indent}
}

func (c *JSONCodec) Name() string      { return "json" }
func (c *JSONCodec) Extension() string { return ".json" }

func (c *JSONCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Note bodies are full of <, > and &; keep them readable on disk.
	enc.SetEscapeHTML(false)
	if c.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *JSONCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// --- YAML Codec ---

// YAMLCodec encodes values as YAML.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

func (c *YAMLCodec) Name() string      { return "yaml" }
func (c *YAMLCodec) Extension() string { return ".yaml" }

func (c *YAMLCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *YAMLCodec) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}

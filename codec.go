package fuse

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec defines the deserialization contract for external values.
// Implement this interface to use alternative formats like TOML, HCL, or custom binary formats.
type Codec interface {
	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// Ensure JSONCodec implements Codec.
var _ Codec = JSONCodec{}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// Ensure YAMLCodec implements Codec.
var _ Codec = YAMLCodec{}

// Absent reports whether a payload means "no external value": empty,
// whitespace only, null, or the YAML null marker ~.
func Absent(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "", "null", "~":
		return true
	default:
		return false
	}
}

// decode returns None for absent payloads and the decoded value otherwise.
func decode[T any](codec Codec, data []byte) (Maybe[T], error) {
	if Absent(data) {
		return None[T](), nil
	}
	var v T
	if err := codec.Unmarshal(data, &v); err != nil {
		return None[T](), err
	}
	return Some(v), nil
}

package portal

import (
	"encoding/json"
	"fmt"

	"github.com/viola-academy/portal-client/keycase"
)

// marshalWire serializes a client-format value into the snake_case wire form.
func marshalWire(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("reshape payload: %w", err)
	}
	out, err := json.Marshal(keycase.ToWire(decoded))
	if err != nil {
		return nil, fmt.Errorf("encode wire payload: %w", err)
	}
	return out, nil
}

// unmarshalWire parses a wire-form body into a client-format value.
func unmarshalWire(data []byte, dst interface{}) error {
	if len(data) == 0 {
		return nil
	}
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("decode wire payload: %w", err)
	}
	translated, err := json.Marshal(keycase.FromWire(decoded))
	if err != nil {
		return fmt.Errorf("reshape wire payload: %w", err)
	}
	if err := json.Unmarshal(translated, dst); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// translateRaw rewrites the keys of a raw JSON document with fn, preserving
// everything else. Used where a document stays as raw bytes (site content)
// but still crosses the wire boundary.
func translateRaw(data []byte, fn func(interface{}) interface{}) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	out, err := json.Marshal(fn(decoded))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}

// wireFields flattens a client-format struct into a wire-keyed field map for
// multipart encoding.
func wireFields(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode form fields: %w", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("reshape form fields: %w", err)
	}
	out, ok := keycase.ToWire(decoded).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("form fields are not an object")
	}
	return out, nil
}

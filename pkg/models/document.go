package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document validation errors. Each names the offending field so the caller
// can show it next to the input.
var (
	ErrMissingName        = errors.New("Missing 'name' field")
	ErrMissingDescription = errors.New("Missing 'description' field")
	ErrParametersNotArray = errors.New("'parameters' must be an array")
)

// SyntaxError reports a document that could not be decoded at all.
type SyntaxError struct {
	Format string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Invalid %s: %v", e.Format, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// ParseDocument decodes a configuration document. JSON is detected by a
// leading '{'; anything else is decoded as YAML. The shape checks run on the
// raw document before it is bound to Configuration.
func ParseDocument(data []byte) (*Configuration, error) {
	trimmed := bytes.TrimSpace(data)

	var raw map[string]interface{}
	format := "JSON"
	if len(trimmed) == 0 || trimmed[0] == '{' || trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, &SyntaxError{Format: format, Err: err}
		}
	} else {
		format = "YAML"
		if err := yaml.Unmarshal(trimmed, &raw); err != nil {
			return nil, &SyntaxError{Format: format, Err: err}
		}
	}
	if raw == nil {
		return nil, &SyntaxError{Format: format, Err: errors.New("document is empty")}
	}

	if err := validateShape(raw); err != nil {
		return nil, err
	}

	// Round-trip through JSON so YAML and JSON documents bind identically.
	canonical, err := json.Marshal(raw)
	if err != nil {
		return nil, &SyntaxError{Format: format, Err: err}
	}
	var cfg Configuration
	if err := json.Unmarshal(canonical, &cfg); err != nil {
		return nil, &SyntaxError{Format: format, Err: err}
	}
	cfg.Normalize()
	return &cfg, nil
}

func validateShape(raw map[string]interface{}) error {
	if !present(raw["name"]) {
		return ErrMissingName
	}
	if !present(raw["description"]) {
		return ErrMissingDescription
	}
	if _, ok := raw["parameters"].([]interface{}); !ok {
		return ErrParametersNotArray
	}
	return nil
}

func present(v interface{}) bool {
	switch s := v.(type) {
	case nil:
		return false
	case string:
		return s != ""
	case bool:
		return s
	default:
		return true
	}
}

// EncodeDocument renders a configuration as indented JSON.
func EncodeDocument(cfg *Configuration) ([]byte, error) {
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return append(out, '\n'), nil
}

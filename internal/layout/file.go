package layout

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load returns the template stored at path, or the built-in template when
// path is empty.
func Load(path string) (*Template, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a YAML template file and validates it.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML template. Unknown keys are rejected so that a typo in
// a coordinate name does not silently fall back to zero.
func Parse(data []byte) (*Template, error) {
	var t Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	t.applyDefaults()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout %q: %w", t.Name, err)
	}
	return &t, nil
}

func (t *Template) applyDefaults() {
	if t.Version <= 0 {
		t.Version = 1
	}
}

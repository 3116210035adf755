// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package metamodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Marshal encodes l in the format named by ext: ".json", ".yaml" or ".yml".
func Marshal(l ConfigList, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return json.MarshalIndent(l, "", "  ")
	case ".yaml", ".yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported metamodel format %q", ext)
}

// Unmarshal decodes data in the format named by ext and validates the result.
func Unmarshal(data []byte, ext string) (ConfigList, error) {
	var l ConfigList
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &l); err != nil {
			return ConfigList{}, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &l); err != nil {
			return ConfigList{}, err
		}
	default:
		return ConfigList{}, fmt.Errorf("unsupported metamodel format %q", ext)
	}
	if err := l.Validate(); err != nil {
		return ConfigList{}, err
	}
	return l, nil
}

// WriteFile writes l to path, choosing the format from the file extension.
func WriteFile(path string, l ConfigList) error {
	data, err := Marshal(l, filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads and validates a ConfigList from path.
func ReadFile(path string) (ConfigList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ConfigList{}, err
	}
	l, err := Unmarshal(data, filepath.Ext(path))
	if err != nil {
		return ConfigList{}, fmt.Errorf("unable to read metamodel %s: %w", path, err)
	}
	return l, nil
}

// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package metamodel describes where the subject id and the sensitive values of a
// holder type live inside its serialized payload, so that payloads can be redacted
// without the Go type at hand.
package metamodel

import (
	"errors"
	"fmt"
)

// Config is the data protection metamodel of one type.
type Config struct {
	Type          string          `json:"type" yaml:"type"`
	Revision      string          `json:"revision" yaml:"revision"`
	SubjectID     SubjectID       `json:"subjectId" yaml:"subjectId"`
	SensitiveData []SensitiveData `json:"sensitiveData" yaml:"sensitiveData"`
}

// SubjectID locates the subject identifier.
type SubjectID struct {
	Path string `json:"path" yaml:"path"`
}

// SensitiveData locates one sensitive value and the token that replaces it.
type SensitiveData struct {
	Path             string `json:"path" yaml:"path"`
	ReplacementValue string `json:"replacementValue" yaml:"replacementValue"`
}

// ConfigList is the document written by WriteFile and read by ReadFile.
type ConfigList struct {
	Configs []Config `json:"config" yaml:"config"`
}

// Validate checks a single Config.
func (c Config) Validate() error {
	if c.Type == "" {
		return errors.New("config has no type")
	}
	subject, err := ParsePath(c.SubjectID.Path)
	if err != nil {
		return fmt.Errorf("type %s: subject id: %w", c.Type, err)
	}
	if len(subject) == 0 || !subject.FieldsOnly() {
		return fmt.Errorf("type %s: subject id path %q must name a single member", c.Type, c.SubjectID.Path)
	}
	for _, s := range c.SensitiveData {
		p, err := ParsePath(s.Path)
		if err != nil {
			return fmt.Errorf("type %s: sensitive data: %w", c.Type, err)
		}
		if len(p) == 0 {
			return fmt.Errorf("type %s: sensitive data path must not be the root", c.Type)
		}
		if p.String() == subject.String() {
			return fmt.Errorf("type %s: path %s is both the subject id and sensitive", c.Type, s.Path)
		}
	}
	return nil
}

// Validate checks every Config and rejects duplicate types.
func (l ConfigList) Validate() error {
	seen := make(map[string]bool, len(l.Configs))
	for _, c := range l.Configs {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.Type] {
			return fmt.Errorf("type %s is configured more than once", c.Type)
		}
		seen[c.Type] = true
	}
	return nil
}

// Lookup finds the Config of a type.
func (l ConfigList) Lookup(typeName string) (Config, bool) {
	for _, c := range l.Configs {
		if c.Type == typeName {
			return c, true
		}
	}
	return Config{}, false
}

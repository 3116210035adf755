// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package redact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/dataprotect/metamodel"
)

// Document applies cfg to doc with the default Redactor.
func Document(doc any, cfg metamodel.Config) (any, error) {
	return defaultRedactor.Document(doc, cfg)
}

// Document applies cfg to a decoded JSON document made of map[string]any, []any and
// scalars, and returns the redacted copy. doc itself is not modified.
//
// Every value addressed by a sensitive path is replaced by the path's replacement,
// always as a JSON string. A missing last member is added when its parent object
// exists; any other part of a path that is missing, or of the wrong shape, is
// skipped. The subject id is never touched.
func (r *Redactor) Document(doc any, cfg metamodel.Config) (any, error) {
	subject, err := metamodel.ParsePath(cfg.SubjectID.Path)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", cfg.Type, err)
	}

	out := doc
	for _, s := range cfg.SensitiveData {
		p, err := metamodel.ParsePath(s.Path)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", cfg.Type, err)
		}
		if p.String() == subject.String() {
			return nil, fmt.Errorf("type %s: path %s is both the subject id and sensitive", cfg.Type, s.Path)
		}
		out = setPath(out, p, s.ReplacementValue)
	}

	r.log().Trace("redacted document", "type", cfg.Type, "paths", len(cfg.SensitiveData))
	return out, nil
}

// SubjectID returns the subject id of doc, for correlating redacted documents.
func SubjectID(doc any, cfg metamodel.Config) (any, bool) {
	p, err := metamodel.ParsePath(cfg.SubjectID.Path)
	if err != nil || len(p) == 0 || !p.FieldsOnly() {
		return nil, false
	}
	node := doc
	for _, s := range p {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if node, ok = m[s.Name]; !ok {
			return nil, false
		}
	}
	return node, true
}

// DocumentBytes redacts an encoded JSON document with the default Redactor.
func DocumentBytes(data []byte, cfg metamodel.Config) ([]byte, error) {
	return defaultRedactor.DocumentBytes(data, cfg)
}

// DocumentBytes decodes a JSON document, redacts it with cfg and encodes the result.
// Numbers are carried through without conversion to float64.
func (r *Redactor) DocumentBytes(data []byte, cfg metamodel.Config) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("unable to decode document: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("unable to decode document: trailing data after the first value")
	}

	out, err := r.Document(doc, cfg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// setPath returns node with the values at p replaced by value, cloning every object
// and array it changes.
func setPath(node any, p metamodel.Path, value string) any {
	if len(p) == 0 {
		return value
	}
	seg, rest := p[0], p[1:]

	switch seg.Kind {
	case metamodel.SegmentField:
		m, ok := node.(map[string]any)
		if !ok {
			return node
		}
		child, ok := m[seg.Name]
		if !ok && len(rest) > 0 {
			return node
		}
		out := maps.Clone(m)
		out[seg.Name] = setPath(child, rest, value)
		return out

	case metamodel.SegmentElements:
		a, ok := node.([]any)
		if !ok {
			return node
		}
		out := slices.Clone(a)
		for i := range out {
			out[i] = setPath(out[i], rest, value)
		}
		return out

	case metamodel.SegmentValues:
		m, ok := node.(map[string]any)
		if !ok {
			return node
		}
		out := maps.Clone(m)
		for k, v := range out {
			out[k] = setPath(v, rest, value)
		}
		return out
	}
	return node
}

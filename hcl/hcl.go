// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package hcl

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/hashicorp/dataprotect/metamodel"
)

// HCL is a hand-written data protection config:
//
//	protect "example.com/events.OrderPlaced" {
//	  revision   = "1"
//	  subject_id = "$.orderId"
//
//	  sensitive "$.email" {
//	    replacement = "<email>"
//	  }
//	  sensitive "$.lines[*].note" {}
//	}
type HCL struct {
	Protects []*Protect `hcl:"protect,block" json:"protects"`
}

type Protect struct {
	Type      string      `hcl:"type,label"`
	Revision  string      `hcl:"revision,optional"`
	SubjectID string      `hcl:"subject_id"`
	Sensitive []Sensitive `hcl:"sensitive,block"`
}

type Sensitive struct {
	Path        string `hcl:"path,label"`
	Replacement string `hcl:"replacement,optional"`
}

// Parse takes a file path and decodes the file from disk into HCL types.
func Parse(path string) (HCL, error) {
	var h HCL
	err := hclsimple.DecodeFile(path, nil, &h)
	if err != nil {
		return HCL{}, err
	}
	return h, nil
}

// ProtectsMap indexes protect blocks by type name. Later blocks win.
func ProtectsMap(protects []*Protect) map[string]*Protect {
	m := make(map[string]*Protect, len(protects))
	for _, p := range protects {
		m[p.Type] = p
	}
	return m
}

// MapConfigs converts every protect block into a metamodel.Config. Nothing is
// returned if any block is invalid.
func MapConfigs(h HCL) (metamodel.ConfigList, error) {
	err := ValidateProtects(h.Protects)
	if err != nil {
		return metamodel.ConfigList{}, err
	}

	l := metamodel.ConfigList{Configs: make([]metamodel.Config, len(h.Protects))}
	for i, p := range h.Protects {
		l.Configs[i] = mapProtect(p)
	}
	return l, nil
}

func mapProtect(p *Protect) metamodel.Config {
	c := metamodel.Config{
		Type:          p.Type,
		Revision:      p.Revision,
		SubjectID:     metamodel.SubjectID{Path: p.SubjectID},
		SensitiveData: make([]metamodel.SensitiveData, len(p.Sensitive)),
	}
	for i, s := range p.Sensitive {
		c.SensitiveData[i] = metamodel.SensitiveData{Path: s.Path, ReplacementValue: s.Replacement}
	}
	return c
}

// ValidateProtects checks each protect block's paths and rejects duplicate types.
func ValidateProtects(protects []*Protect) error {
	hclog.L().Trace("hcl.ValidateProtects()", "protects", len(protects))
	seen := make(map[string]bool, len(protects))
	for _, p := range protects {
		if seen[p.Type] {
			return fmt.Errorf("duplicate protect block, type=%s", p.Type)
		}
		seen[p.Type] = true

		if err := mapProtect(p).Validate(); err != nil {
			return fmt.Errorf("invalid protect block, type=%s, err=%w", p.Type, err)
		}
	}
	return nil
}

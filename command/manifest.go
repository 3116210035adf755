// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"time"

	"github.com/google/uuid"

	"github.com/hashicorp/dataprotect/metamodel"
	"github.com/hashicorp/dataprotect/op"
	"github.com/hashicorp/dataprotect/version"
)

// ManifestFile is written next to the redacted payloads when a destination is set.
const ManifestFile = "Manifest.json"

// Manifest describes a redaction run. It carries op metadata only, never payload contents.
type Manifest struct {
	RunID     string         `json:"run_id"`
	Version   string         `json:"version"`
	Config    string         `json:"config"`
	Type      string         `json:"type"`
	Revision  string         `json:"revision,omitempty"`
	Start     time.Time      `json:"start"`
	End       time.Time      `json:"end"`
	Duration  string         `json:"duration"`
	NumOps    int            `json:"num_ops"`
	NumErrors int            `json:"num_errors"`
	Ops       []op.Op        `json:"ops"`
	Counts    map[string]int `json:"counts"`
}

func newManifest(configFile string, cfg metamodel.Config, start, end time.Time, ops []op.Op) (Manifest, error) {
	counts, err := op.StatusCounts(ops)
	if err != nil {
		return Manifest{}, err
	}

	m := Manifest{
		RunID:    uuid.NewString(),
		Version:  version.GetVersion().FullVersionNumber(true),
		Config:   configFile,
		Type:     cfg.Type,
		Revision: cfg.Revision,
		Start:    start,
		End:      end,
		Duration: end.Sub(start).String(),
		NumOps:   len(ops),
		Ops:      ops,
		Counts:   make(map[string]int, len(counts)),
	}
	for status, n := range counts {
		m.Counts[string(status)] = n
	}
	m.NumErrors = counts[op.Fail]
	return m, nil
}

// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package redactor

import (
	"io"

	"github.com/hashicorp/dataprotect/metamodel"
	"github.com/hashicorp/dataprotect/redact"
)

var _ Redactor = &PayloadRedactor{}

// PayloadRedactor redacts a JSON payload according to a metamodel.Config.
type PayloadRedactor struct {
	Config metamodel.Config

	redactor *redact.Redactor
}

// NewPayloadRedactor validates cfg. opts configure the redact.Redactor that applies it.
func NewPayloadRedactor(cfg metamodel.Config, opts ...redact.Option) (PayloadRedactor, error) {
	if err := cfg.Validate(); err != nil {
		return PayloadRedactor{}, err
	}
	return PayloadRedactor{Config: cfg, redactor: redact.New(opts...)}, nil
}

// Redact reads the whole payload from in. A payload that cannot be decoded or
// redacted surfaces as an error from Read.
func (p PayloadRedactor) Redact(in io.Reader) (RedactedReader, error) {
	r, w := io.Pipe()
	rr := RedactedReader{
		reader: r,
	}
	go func() {
		content, err := io.ReadAll(in)
		if err != nil {
			w.CloseWithError(err)
			return
		}

		dr := p.redactor
		if dr == nil {
			dr = redact.Default()
		}
		redacted, err := dr.DocumentBytes(content, p.Config)
		if err != nil {
			w.CloseWithError(err)
			return
		}

		_, err = w.Write(redacted)
		w.CloseWithError(err)
	}()

	return rr, nil
}

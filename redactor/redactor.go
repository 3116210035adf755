// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package redactor redacts serialized payloads read from streams.
package redactor

import "io"

// Redactor indicates a type implements a Redact method, which both takes and returns an io.Reader.
// Because a payload may need to go through multiple Redactors, returning an io.Reader makes it easier to chain
// them together.
type Redactor interface {
	Redact(reader io.Reader) (RedactedReader, error)
}

// Chain passes in through each Redactor in order.
func Chain(in io.Reader, redactors ...Redactor) (io.Reader, error) {
	out := in
	for _, r := range redactors {
		rr, err := r.Redact(out)
		if err != nil {
			return nil, err
		}
		out = rr
	}
	return out, nil
}

// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package redact

import (
	"encoding/json"
	"fmt"
)

// Redacted wraps a value so that printing or marshaling it only ever exposes its
// redacted copy. It is meant for handing events to loggers:
//
//	logger.Info("event received", "event", redact.NewRedacted(ev, nil))
type Redacted[T any] struct {
	input    T
	redactor *Redactor
}

// NewRedacted wraps v. A nil Redactor means Default().
func NewRedacted[T any](v T, r *Redactor) Redacted[T] {
	if r == nil {
		r = defaultRedactor
	}
	return Redacted[T]{input: v, redactor: r}
}

// NewRedactedSlice wraps each element of in.
func NewRedactedSlice[T any](in []T, r *Redactor) []Redacted[T] {
	var out []Redacted[T]
	for _, v := range in {
		out = append(out, NewRedacted(v, r))
	}
	return out
}

// Value returns the redacted copy.
func (r Redacted[T]) Value() (T, error) {
	red := r.redactor
	if red == nil {
		red = defaultRedactor
	}
	return Value(red, r.input)
}

// String formats the redacted copy with %+v. It returns an empty string when the
// value cannot be redacted, so an unredacted value never leaks into output.
func (r Redacted[T]) String() string {
	v, err := r.Value()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%+v", v)
}

func (r Redacted[T]) MarshalJSON() ([]byte, error) {
	v, err := r.Value()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

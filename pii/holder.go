// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pii

import "reflect"

// SensitiveDataHolder is implemented by struct types whose values are redacted
// recursively when they appear nested inside another redacted value.
type SensitiveDataHolder interface {
	SensitiveDataHolder()
}

// Holder is embedded in a struct to mark it as a SensitiveDataHolder. It has no
// size and is never reported as a field.
type Holder struct{}

// SensitiveDataHolder implements SensitiveDataHolder.
func (Holder) SensitiveDataHolder() {}

var (
	holderType          = reflect.TypeOf(Holder{})
	sensitiveHolderType = reflect.TypeOf((*SensitiveDataHolder)(nil)).Elem()
)

// IsHolder reports whether t, which must be a struct type, is a SensitiveDataHolder.
func IsHolder(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	return t.Implements(sensitiveHolderType) || reflect.PointerTo(t).Implements(sensitiveHolderType)
}

// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pii

import (
	"fmt"
	"reflect"
	"strings"
)

// DuplicateSubjectIDError is returned when more than one visible field of a type is
// tagged as the subject identifier.
type DuplicateSubjectIDError struct {
	Type   reflect.Type
	Fields []string
}

func (e *DuplicateSubjectIDError) Error() string {
	return fmt.Sprintf("type %s declares more than one subject id field: %s", e.Type, strings.Join(e.Fields, ", "))
}

// UnsupportedFieldTypeError is returned when a sensitive field cannot hold its
// configured replacement, or cannot be written at all.
type UnsupportedFieldTypeError struct {
	Type        reflect.Type
	Field       string
	FieldType   reflect.Type
	Replacement string
	Reason      string
}

func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("field %s.%s of type %s cannot take replacement %q: %s",
		e.Type, e.Field, e.FieldType, e.Replacement, e.Reason)
}

// TagError is returned for a `pii` struct tag that cannot be parsed.
type TagError struct {
	Type  reflect.Type
	Field string
	Tag   string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("field %s.%s has invalid %s tag %q", e.Type, e.Field, TagKey, e.Tag)
}

// AmbiguousFieldError is returned when embedded structs at the same depth promote a
// field of the same name and at least one of them is not plain.
type AmbiguousFieldError struct {
	Type   reflect.Type
	Field  string
	Owners []reflect.Type
}

func (e *AmbiguousFieldError) Error() string {
	owners := make([]string, len(e.Owners))
	for i, o := range e.Owners {
		owners[i] = o.String()
	}
	return fmt.Sprintf("field %s of type %s is ambiguous between %s", e.Field, e.Type, strings.Join(owners, ", "))
}

// NotStructError is returned when a descriptor is requested for a non-struct type.
type NotStructError struct {
	Type reflect.Type
}

func (e *NotStructError) Error() string {
	return fmt.Sprintf("type %v is not a struct", e.Type)
}

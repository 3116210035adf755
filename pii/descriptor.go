// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pii

import "reflect"

// Field is one visible field of a resolved struct type.
type Field struct {
	// Name is the Go field name.
	Name string

	// SerializedName is the `json` tag name, or Name when there is none.
	SerializedName string

	// Index is the field's index sequence for reflect.Value.FieldByIndex.
	Index []int

	// Type is the declared type of the field.
	Type reflect.Type

	// Owner is the struct type that declares the field, which differs from the
	// Descriptor's type for fields promoted from embedded structs.
	Owner reflect.Type

	// Depth is 0 for fields declared on the type itself, 1 for fields of a directly
	// embedded struct, and so on.
	Depth int

	Role Role

	// Replacement is the raw replacement token. Only set for RoleSensitive.
	Replacement string

	// Nested is true for plain fields whose declared type is, or contains through
	// pointers, slices, arrays or map values, a SensitiveDataHolder.
	Nested bool

	repl     replacement
	exported bool
	writable bool
}

// ReplacementValue returns the replacement converted to the field's type. Each call
// returns a value that shares no memory with previous calls.
func (f Field) ReplacementValue() reflect.Value {
	return f.repl.value()
}

// Exported reports whether the field is exported.
func (f Field) Exported() bool {
	return f.exported
}

// Descriptor is the resolved, immutable view of a struct type's fields.
type Descriptor struct {
	Type reflect.Type

	// Holder reports whether Type is a SensitiveDataHolder.
	Holder bool

	// Fields lists every visible field: fields declared on Type first, then fields
	// promoted from embedded structs, nearest first.
	Fields []Field

	subject  int
	byName   map[string]int
	embedded []reflect.Type
}

// SubjectID returns the subject identifier field, if the type declares one.
func (d *Descriptor) SubjectID() (Field, bool) {
	if d.subject < 0 {
		return Field{}, false
	}
	return d.Fields[d.subject], true
}

// Field looks a field up by its Go name.
func (d *Descriptor) Field(name string) (Field, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Field{}, false
	}
	return d.Fields[i], true
}

// Sensitive returns the fields with RoleSensitive.
func (d *Descriptor) Sensitive() []Field {
	var fields []Field
	for _, f := range d.Fields {
		if f.Role == RoleSensitive {
			fields = append(fields, f)
		}
	}
	return fields
}

// Nested returns the plain fields that lead to nested holders.
func (d *Descriptor) Nested() []Field {
	var fields []Field
	for _, f := range d.Fields {
		if f.Nested {
			fields = append(fields, f)
		}
	}
	return fields
}

// Identity reports whether redacting a value of this type changes nothing.
func (d *Descriptor) Identity() bool {
	for _, f := range d.Fields {
		if f.Role == RoleSensitive || f.Nested {
			return false
		}
	}
	return true
}

// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package redact produces copies of values with their sensitive fields replaced.
//
// Redaction is copy-on-write: the input is never modified. Pointers, slices and
// maps that lead to nested holders are cloned on the way down; any other reference
// held by the input is shared with the output.
package redact

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/dataprotect/pii"
)

// Redactor redacts struct values according to their pii.Descriptor.
type Redactor struct {
	resolver *pii.Resolver
	logger   hclog.Logger
}

// Option configures a Redactor.
type Option func(*Redactor)

// WithResolver sets the Resolver used to look up descriptors. Defaults to
// pii.DefaultResolver().
func WithResolver(r *pii.Resolver) Option {
	return func(x *Redactor) {
		x.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(x *Redactor) {
		x.logger = l
	}
}

// New returns a Redactor.
func New(opts ...Option) *Redactor {
	r := &Redactor{resolver: pii.DefaultResolver()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRedactor = New()

// Default returns the Redactor used by the package-level Redact function.
func Default() *Redactor {
	return defaultRedactor
}

// Redact returns a redacted copy of v using the default Redactor. v must be a struct
// or a pointer to one; a nil pointer is returned as is.
func Redact[T any](v T) (T, error) {
	return Value(defaultRedactor, v)
}

// Value is the typed form of (*Redactor).Redact.
func Value[T any](r *Redactor, v T) (T, error) {
	out, err := r.Redact(v)
	if err != nil {
		var zero T
		return zero, err
	}
	if out == nil {
		return v, nil
	}
	return out.(T), nil
}

// Redact returns a redacted copy of v. v must be a struct or a pointer to one.
// Errors only come from resolving the descriptor of v's type or of a nested holder.
func (r *Redactor) Redact(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if _, err := r.resolver.Resolve(rv.Type()); err != nil {
		return nil, err
	}

	st := newState(r)
	out, err := st.walk(rv)
	if err != nil {
		return nil, err
	}
	r.log().Trace("redacted value", "type", rv.Type())
	return out.Interface(), nil
}

func (r *Redactor) log() hclog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return hclog.L().Named("redact")
}

type ptrKey struct {
	t reflect.Type
	p uintptr
}

// state tracks pointers already copied during one Redact call, so that shared and
// cyclic pointers in the input stay shared and cyclic in the output. A pointer is
// copied once however it is reached, through a field or through embedding.
type state struct {
	r      *Redactor
	copies map[ptrKey]reflect.Value
	owned  map[ptrKey]bool
}

func newState(r *Redactor) *state {
	return &state{
		r:      r,
		copies: make(map[ptrKey]reflect.Value),
		owned:  make(map[ptrKey]bool),
	}
}

// walk returns the redacted form of v, whose type is a struct or leads to a holder.
func (st *state) walk(v reflect.Value) (reflect.Value, error) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v, nil
		}
		key := ptrKey{v.Type(), v.Pointer()}
		if c, ok := st.copies[key]; ok {
			return c, nil
		}
		c := reflect.New(v.Type().Elem())
		st.copies[key] = c
		st.owned[ptrKey{c.Type(), c.Pointer()}] = true
		e, err := st.walk(v.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		c.Elem().Set(e)
		return c, nil

	case reflect.Struct:
		return st.redactStruct(v)

	case reflect.Slice:
		if v.IsNil() {
			return v, nil
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			e, err := st.walk(v.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(e)
		}
		return out, nil

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			e, err := st.walk(v.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(e)
		}
		return out, nil

	case reflect.Map:
		if v.IsNil() {
			return v, nil
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			e, err := st.walk(iter.Value())
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(iter.Key(), e)
		}
		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("cannot redact value of kind %s", v.Kind())
}

func (st *state) redactStruct(src reflect.Value) (reflect.Value, error) {
	d, err := st.r.resolver.Resolve(src.Type())
	if err != nil {
		return reflect.Value{}, err
	}

	dst := reflect.New(src.Type()).Elem()
	dst.Set(src)
	if d.Identity() {
		return dst, nil
	}

	for _, f := range d.Fields {
		if f.Role != pii.RoleSensitive && !f.Nested {
			continue
		}
		target, ok, err := st.target(dst, f.Index)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s.%s: %w", src.Type(), f.Name, err)
		}
		if !ok {
			continue
		}
		if f.Role == pii.RoleSensitive {
			target.Set(f.ReplacementValue())
			continue
		}
		v, err := st.walk(target)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s.%s: %w", src.Type(), f.Name, err)
		}
		target.Set(v)
	}
	return dst, nil
}

// target walks index from dst to a settable field. A struct embedded by pointer on
// the way is replaced by its redacted copy, which already covers the field, and
// target reports false. It also reports false when that pointer is nil.
func (st *state) target(dst reflect.Value, index []int) (reflect.Value, bool, error) {
	v := dst
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() || st.owned[ptrKey{v.Type(), v.Pointer()}] {
				return reflect.Value{}, false, nil
			}
			c, err := st.walk(v)
			if err != nil {
				return reflect.Value{}, false, err
			}
			v.Set(c)
			return reflect.Value{}, false, nil
		}
		v = v.Field(x)
	}
	return v, true, nil
}

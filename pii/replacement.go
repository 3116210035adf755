// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pii

import (
	"encoding"
	"errors"
	"reflect"
	"strconv"
)

// NullToken is the replacement token that stands for "no value" on fields that can
// be nil. On string fields it is kept as the literal string "null".
const NullToken = "null"

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	stringType          = reflect.TypeOf("")
)

// replacement is a sensitive field's replacement, converted once to the field's type.
type replacement struct {
	v reflect.Value

	// t and token are set when v was decoded with encoding.TextUnmarshaler. Such
	// values may hold memory of their own, so they are decoded again on every use.
	t     reflect.Type
	token string
}

func newReplacement(t reflect.Type, token string) (replacement, error) {
	v, err := convert(t, token)
	if err != nil {
		return replacement{}, err
	}
	r := replacement{v: v}
	if decodesText(t, token) {
		r.t, r.token = t, token
	}
	return r, nil
}

// decodesText reports whether convert decodes token with encoding.TextUnmarshaler.
func decodesText(t reflect.Type, token string) bool {
	if token == "" || token == NullToken {
		return false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String, reflect.Interface:
		return false
	}
	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// value returns the replacement ready to be stored. Pointers, byte slices and decoded
// values are rebuilt so that redacted values never share memory with each other.
func (r replacement) value() reflect.Value {
	if r.t != nil {
		if v, err := convert(r.t, r.token); err == nil {
			return v
		}
	}
	switch r.v.Kind() {
	case reflect.Pointer:
		if r.v.IsNil() {
			return r.v
		}
		p := reflect.New(r.v.Type().Elem())
		p.Elem().Set(clone(r.v.Elem()))
		return p
	case reflect.Slice:
		return clone(r.v)
	}
	return r.v
}

func clone(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		return replacement{v: v}.value()
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		s := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(s, v)
		return s
	}
	return v
}

// convert turns a replacement token into a value assignable to t.
func convert(t reflect.Type, token string) (reflect.Value, error) {
	zero := reflect.New(t).Elem()
	null := token == "" || token == NullToken

	switch t.Kind() {
	case reflect.String, reflect.Pointer, reflect.Interface:
	default:
		if !null && reflect.PointerTo(t).Implements(textUnmarshalerType) {
			return unmarshalText(t, token)
		}
	}

	switch t.Kind() {
	case reflect.String:
		v := reflect.New(t).Elem()
		v.SetString(token)
		return v, nil

	case reflect.Bool:
		if token == "" {
			return zero, nil
		}
		b, err := strconv.ParseBool(token)
		if err != nil {
			return zero, errors.New("not a boolean")
		}
		v := reflect.New(t).Elem()
		v.SetBool(b)
		return v, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if token == "" {
			return zero, nil
		}
		i, err := strconv.ParseInt(token, 10, t.Bits())
		if err != nil {
			return zero, errors.New("not an integer of that size")
		}
		v := reflect.New(t).Elem()
		v.SetInt(i)
		return v, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if token == "" {
			return zero, nil
		}
		u, err := strconv.ParseUint(token, 10, t.Bits())
		if err != nil {
			return zero, errors.New("not an unsigned integer of that size")
		}
		v := reflect.New(t).Elem()
		v.SetUint(u)
		return v, nil

	case reflect.Float32, reflect.Float64:
		if token == "" {
			return zero, nil
		}
		f, err := strconv.ParseFloat(token, t.Bits())
		if err != nil {
			return zero, errors.New("not a floating point number")
		}
		v := reflect.New(t).Elem()
		v.SetFloat(f)
		return v, nil

	case reflect.Complex64, reflect.Complex128:
		if token == "" {
			return zero, nil
		}
		c, err := strconv.ParseComplex(token, t.Bits())
		if err != nil {
			return zero, errors.New("not a complex number")
		}
		v := reflect.New(t).Elem()
		v.SetComplex(c)
		return v, nil

	case reflect.Pointer:
		if null && t.Elem().Kind() != reflect.String {
			return zero, nil
		}
		elem, err := convert(t.Elem(), token)
		if err != nil {
			return zero, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && !null {
			v := reflect.New(t).Elem()
			v.SetBytes([]byte(token))
			return v, nil
		}
		if null {
			return zero, nil
		}
		return zero, errors.New("only byte slices take a non-null replacement")

	case reflect.Map, reflect.Chan, reflect.Func:
		if null {
			return zero, nil
		}
		return zero, errors.New("only a null replacement is allowed")

	case reflect.Interface:
		if null {
			return zero, nil
		}
		if !stringType.Implements(t) {
			return zero, errors.New("interface cannot hold a string")
		}
		v := reflect.New(t).Elem()
		v.Set(reflect.ValueOf(token))
		return v, nil

	case reflect.Struct, reflect.Array:
		if null {
			return zero, nil
		}
		return zero, errors.New("only a null replacement is allowed unless the type implements encoding.TextUnmarshaler")
	}

	return zero, errors.New("unsupported kind " + t.Kind().String())
}

func unmarshalText(t reflect.Type, token string) (reflect.Value, error) {
	p := reflect.New(t)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(token)); err != nil {
		return reflect.Value{}, err
	}
	return p.Elem(), nil
}

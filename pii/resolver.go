// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pii

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Resolver builds Descriptors and caches them for the life of the Resolver.
//
// A Resolver is safe for concurrent use. Two goroutines resolving the same type at
// once may both build a Descriptor; only the first one stored is ever returned.
type Resolver struct {
	cache   sync.Map // reflect.Type -> *Descriptor
	ignored []string
	logger  hclog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIgnoredTypes excludes types from nested redaction. A pattern is either a full
// type name such as "example.com/events.Address", or a prefix ending in "*" such as
// "example.com/events.*" for every type of a package.
func WithIgnoredTypes(patterns ...string) Option {
	return func(r *Resolver) {
		r.ignored = append(r.ignored, patterns...)
	}
}

// WithLogger sets the logger. Without it the Resolver logs to a "pii" sub-logger of
// hclog.Default().
func WithLogger(l hclog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver returns an empty Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = NewResolver()

// DefaultResolver returns the process-wide Resolver used by ResolveType.
func DefaultResolver() *Resolver {
	return defaultResolver
}

// ResolveType resolves T with the DefaultResolver.
func ResolveType[T any]() (*Descriptor, error) {
	return defaultResolver.Resolve(reflect.TypeOf((*T)(nil)).Elem())
}

func (r *Resolver) log() hclog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return hclog.L().Named("pii")
}

// Resolve returns the Descriptor of t, building it on first use. Pointer types are
// resolved as their element type. Nested holder types reachable from t, and structs
// embedded by pointer, are resolved and validated too, so a failure anywhere surfaces
// here rather than mid-redaction. Nothing built during a Resolve that fails is cached.
func (r *Resolver) Resolve(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, &NotStructError{}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &NotStructError{Type: t}
	}

	pending := make(map[reflect.Type]*Descriptor)
	d, err := r.resolve(t, pending)
	if err != nil {
		return nil, err
	}

	// Types met along the way may depend on t through a cycle, so none of them is
	// valid until t is.
	for pt, pd := range pending {
		actual, loaded := r.cache.LoadOrStore(pt, pd)
		if !loaded {
			r.log().Trace("resolved type descriptor", "type", pt, "fields", len(pd.Fields), "holder", pd.Holder)
		}
		if pt == t {
			d = actual.(*Descriptor)
		}
	}
	return d, nil
}

func (r *Resolver) resolve(t reflect.Type, pending map[reflect.Type]*Descriptor) (*Descriptor, error) {
	if d, ok := r.cache.Load(t); ok {
		return d.(*Descriptor), nil
	}
	if d, ok := pending[t]; ok {
		return d, nil
	}

	d, err := r.build(t)
	if err != nil {
		return nil, err
	}
	pending[t] = d

	for _, f := range d.Fields {
		if !f.Nested {
			continue
		}
		ht, _ := r.holderOf(f.Type)
		if _, err := r.resolve(ht, pending); err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t, f.Name, err)
		}
	}
	for _, et := range d.embedded {
		if _, err := r.resolve(et, pending); err != nil {
			return nil, fmt.Errorf("embedded %s.%s: %w", t, et.Name(), err)
		}
	}
	return d, nil
}

type level struct {
	typ      reflect.Type
	index    []int
	writable bool
}

// build walks t and its embedded structs breadth first. Names seen at a shallower
// depth hide the same names further down. A struct embedded more than once at the
// same depth is walked each time, so its fields come out ambiguous as Go's selector
// rules make them.
func (r *Resolver) build(t reflect.Type) (*Descriptor, error) {
	d := &Descriptor{
		Type:    t,
		Holder:  IsHolder(t),
		subject: -1,
		byName:  make(map[string]int),
	}

	hidden := make(map[string]bool)
	visited := make(map[reflect.Type]int)
	current := []level{{typ: t, writable: true}}

	for depth := 0; len(current) > 0; depth++ {
		var next []level
		var order []string
		candidates := make(map[string][]Field)

		for _, lv := range current {
			if at, ok := visited[lv.typ]; ok && at < depth {
				continue
			}
			visited[lv.typ] = depth

			for i := 0; i < lv.typ.NumField(); i++ {
				sf := lv.typ.Field(i)
				if sf.Type == holderType {
					continue
				}
				index := make([]int, len(lv.index)+1)
				copy(index, lv.index)
				index[len(lv.index)] = i

				if isAncestor(sf) {
					ft, writable := sf.Type, lv.writable
					if ft.Kind() == reflect.Pointer {
						// Embedded pointers are cloned before writing through them,
						// which needs the pointer field itself to be settable.
						ft, writable = ft.Elem(), writable && sf.IsExported()
					}
					next = append(next, level{typ: ft, index: index, writable: writable})
					continue
				}

				f, err := r.field(t, lv.typ, sf, index, depth, lv.writable)
				if err != nil {
					return nil, err
				}
				if _, seen := candidates[sf.Name]; !seen {
					order = append(order, sf.Name)
				}
				candidates[sf.Name] = append(candidates[sf.Name], f)
			}
		}

		for _, name := range order {
			if hidden[name] {
				continue
			}
			hidden[name] = true

			fields := candidates[name]
			if len(fields) > 1 {
				if err := ambiguous(t, name, fields); err != nil {
					return nil, err
				}
				r.log().Debug("dropping ambiguous plain field", "type", t, "field", name)
				continue
			}
			d.byName[name] = len(d.Fields)
			d.Fields = append(d.Fields, fields[0])
		}
		current = next
	}

	var subjects []string
	for i, f := range d.Fields {
		if f.Role == RoleSubjectID {
			subjects = append(subjects, f.Name)
			d.subject = i
		}
	}
	if len(subjects) > 1 {
		return nil, &DuplicateSubjectIDError{Type: t, Fields: subjects}
	}

	d.embedded = embeddedPointers(t, d.Fields)
	return d, nil
}

// embeddedPointers lists the structs embedded by pointer on the way to fields that
// redaction writes. Redaction copies each of them as a value of its own type.
func embeddedPointers(t reflect.Type, fields []Field) []reflect.Type {
	var types []reflect.Type
	seen := make(map[reflect.Type]bool)
	for _, f := range fields {
		if f.Role != RoleSensitive && !f.Nested {
			continue
		}
		cur := t
		for _, x := range f.Index[:len(f.Index)-1] {
			cur = cur.Field(x).Type
			if cur.Kind() == reflect.Pointer {
				cur = cur.Elem()
				if !seen[cur] {
					seen[cur] = true
					types = append(types, cur)
				}
			}
		}
	}
	return types
}

func (r *Resolver) field(t, owner reflect.Type, sf reflect.StructField, index []int, depth int, writable bool) (Field, error) {
	tag := sf.Tag.Get(TagKey)
	role, token, ok := parseTag(tag)
	if !ok {
		return Field{}, &TagError{Type: t, Field: sf.Name, Tag: tag}
	}

	f := Field{
		Name:           sf.Name,
		SerializedName: serializedName(sf),
		Index:          index,
		Type:           sf.Type,
		Owner:          owner,
		Depth:          depth,
		Role:           role,
		exported:       sf.IsExported(),
		writable:       writable && sf.IsExported(),
	}

	switch role {
	case RoleSensitive:
		f.Replacement = token
		if !f.writable {
			return Field{}, &UnsupportedFieldTypeError{
				Type: t, Field: sf.Name, FieldType: sf.Type, Replacement: token,
				Reason: "field cannot be set by reflection",
			}
		}
		repl, err := newReplacement(sf.Type, token)
		if err != nil {
			return Field{}, &UnsupportedFieldTypeError{
				Type: t, Field: sf.Name, FieldType: sf.Type, Replacement: token,
				Reason: err.Error(),
			}
		}
		f.repl = repl

	case RolePlain:
		f.Nested = r.ReachesHolder(sf.Type)
		if f.Nested && !f.writable {
			return Field{}, &UnsupportedFieldTypeError{
				Type: t, Field: sf.Name, FieldType: sf.Type,
				Reason: "field holds nested sensitive data but cannot be set by reflection",
			}
		}
	}

	return f, nil
}

// ambiguous decides whether same-depth duplicates can be dropped silently.
func ambiguous(t reflect.Type, name string, fields []Field) error {
	owners := make([]reflect.Type, len(fields))
	quiet := true
	for i, f := range fields {
		owners[i] = f.Owner
		if f.Role != RolePlain || f.Nested {
			quiet = false
		}
	}
	if quiet {
		return nil
	}
	return &AmbiguousFieldError{Type: t, Field: name, Owners: owners}
}

// ReachesHolder reports whether t is a holder type that is not ignored, or leads to
// one through pointers, slices, arrays or map values.
func (r *Resolver) ReachesHolder(t reflect.Type) bool {
	_, ok := r.holderOf(t)
	return ok
}

func (r *Resolver) holderOf(t reflect.Type) (reflect.Type, bool) {
	seen := make(map[reflect.Type]bool)
	for !seen[t] {
		seen[t] = true
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
		case reflect.Struct:
			return t, IsHolder(t) && !r.Ignored(t)
		default:
			return nil, false
		}
	}
	return nil, false
}

// Ignored reports whether t matches one of the ignore patterns.
func (r *Resolver) Ignored(t reflect.Type) bool {
	name := TypeName(t)
	for _, p := range r.ignored {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(name, prefix) {
				return true
			}
		} else if name == p {
			return true
		}
	}
	return false
}

// TypeName returns the package-qualified name of t, such as
// "example.com/events.UserRegistered". Unnamed types use reflect's spelling.
func TypeName(t reflect.Type) string {
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package metamodel

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/dataprotect/pii"
)

// Revisioner is implemented by types that report the revision of their payload.
type Revisioner interface {
	Revision() string
}

var revisionerType = reflect.TypeOf((*Revisioner)(nil)).Elem()

// NotHolderError is returned when a Config is requested for a type that is not a
// pii.SensitiveDataHolder.
type NotHolderError struct {
	Type reflect.Type
}

func (e *NotHolderError) Error() string {
	return fmt.Sprintf("type %v is not a sensitive data holder", e.Type)
}

// NoSubjectIDError is returned for a holder type without a subject id field.
type NoSubjectIDError struct {
	Type reflect.Type
}

func (e *NoSubjectIDError) Error() string {
	return fmt.Sprintf("type %v has no subject id field", e.Type)
}

// RecursiveTypeError is returned when a holder type reaches itself through its
// fields, so its sensitive paths would never end.
type RecursiveTypeError struct {
	Type  reflect.Type
	Chain []reflect.Type
}

func (e *RecursiveTypeError) Error() string {
	names := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		names[i] = t.String()
	}
	return fmt.Sprintf("type %v is recursive: %s", e.Type, strings.Join(names, " -> "))
}

// Generator builds Configs from Go types.
type Generator struct {
	resolver *pii.Resolver
	logger   hclog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithResolver sets the Resolver. Its ignore patterns decide which nested holders
// contribute paths. Defaults to pii.DefaultResolver().
func WithResolver(r *pii.Resolver) Option {
	return func(g *Generator) {
		g.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// NewGenerator returns a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{resolver: pii.DefaultResolver()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) log() hclog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return hclog.L().Named("metamodel")
}

// Generate returns one Config per type, in the order given.
func (g *Generator) Generate(types ...reflect.Type) (ConfigList, error) {
	list := ConfigList{Configs: make([]Config, 0, len(types))}
	for _, t := range types {
		c, err := g.Config(t)
		if err != nil {
			return ConfigList{}, err
		}
		list.Configs = append(list.Configs, c)
	}
	return list, nil
}

// Config builds the Config of a single holder type.
func (g *Generator) Config(t reflect.Type) (Config, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if !pii.IsHolder(t) {
		return Config{}, &NotHolderError{Type: t}
	}

	d, err := g.resolver.Resolve(t)
	if err != nil {
		return Config{}, err
	}
	subject, ok := d.SubjectID()
	if !ok {
		return Config{}, &NoSubjectIDError{Type: t}
	}

	c := Config{
		Type:          pii.TypeName(t),
		Revision:      revision(t),
		SubjectID:     SubjectID{Path: Root.Field(subject.SerializedName).String()},
		SensitiveData: []SensitiveData{},
	}
	if err := g.collect(d, Root, []reflect.Type{t}, &c.SensitiveData); err != nil {
		return Config{}, err
	}

	g.log().Debug("generated metamodel", "type", c.Type, "sensitive", len(c.SensitiveData))
	return c, nil
}

func (g *Generator) collect(d *pii.Descriptor, at Path, chain []reflect.Type, out *[]SensitiveData) error {
	for _, f := range d.Fields {
		switch {
		case f.Role == pii.RoleSensitive:
			*out = append(*out, SensitiveData{
				Path:             at.Field(f.SerializedName).String(),
				ReplacementValue: f.Replacement,
			})
		case f.Nested:
			if err := g.nested(f.Type, at.Field(f.SerializedName), chain, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// nested follows t down to the holder it leads to, extending the path for every
// slice, array and map on the way.
func (g *Generator) nested(t reflect.Type, at Path, chain []reflect.Type, out *[]SensitiveData) error {
	switch t.Kind() {
	case reflect.Pointer:
		return g.nested(t.Elem(), at, chain, out)
	case reflect.Slice, reflect.Array:
		return g.nested(t.Elem(), at.Elements(), chain, out)
	case reflect.Map:
		return g.nested(t.Elem(), at.Values(), chain, out)
	case reflect.Struct:
	default:
		return nil
	}

	for _, c := range chain {
		if c == t {
			return &RecursiveTypeError{Type: chain[0], Chain: append(append([]reflect.Type{}, chain...), t)}
		}
	}
	d, err := g.resolver.Resolve(t)
	if err != nil {
		return err
	}
	return g.collect(d, at, append(chain, t), out)
}

func revision(t reflect.Type) string {
	switch {
	case t.Implements(revisionerType):
		return reflect.Zero(t).Interface().(Revisioner).Revision()
	case reflect.PointerTo(t).Implements(revisionerType):
		return reflect.New(t).Interface().(Revisioner).Revision()
	}
	return ""
}

// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package metamodel

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/dataprotect/pii"
)

// Registry collects holder types so that their Configs can be generated per package.
// Event packages typically register their types from an init function.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide Registry used by Register.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds the types of values to the DefaultRegistry.
func Register(values ...any) {
	defaultRegistry.Register(values...)
}

// Register adds the types of values. Pointers are registered as their element type.
func (r *Registry) Register(values ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range values {
		t := reflect.TypeOf(v)
		if t == nil {
			continue
		}
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		r.types[pii.TypeName(t)] = t
	}
}

// Types returns the registered holder types whose package path starts with
// basePackage, sorted by type name. An empty basePackage matches every type.
func (r *Registry) Types(basePackage string) []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, t := range r.types {
		if !pii.IsHolder(t) || !strings.HasPrefix(t.PkgPath(), basePackage) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	types := make([]reflect.Type, len(names))
	for i, name := range names {
		types[i] = r.types[name]
	}
	return types
}

// Generate builds the Configs of every registered holder type under basePackage.
func (r *Registry) Generate(g *Generator, basePackage string) (ConfigList, error) {
	if g == nil {
		g = NewGenerator()
	}
	return g.Generate(r.Types(basePackage)...)
}

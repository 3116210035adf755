// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package metamodel

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/dataprotect/internal/testevents"
	"github.com/hashicorp/dataprotect/pii"
)

const eventsPkg = "github.com/hashicorp/dataprotect/internal/testevents"

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func TestGenerator_Config(t *testing.T) {
	tcs := []struct {
		name     string
		typ      reflect.Type
		resolver *pii.Resolver
		expect   Config
	}{
		{
			name: "flat event",
			typ:  typeOf[testevents.SimpleFlatEvent](),
			expect: Config{
				Type:      eventsPkg + ".SimpleFlatEvent",
				SubjectID: SubjectID{Path: "$.id"},
				SensitiveData: []SensitiveData{
					{Path: "$.value"},
				},
			},
		},
		{
			name: "embedded structs are flattened",
			typ:  typeOf[testevents.DeepInheritanceEvent](),
			expect: Config{
				Type:      eventsPkg + ".DeepInheritanceEvent",
				SubjectID: SubjectID{Path: "$.id"},
				SensitiveData: []SensitiveData{
					{Path: "$.value"},
					{Path: "$.cField", ReplacementValue: "null"},
					{Path: "$.bField", ReplacementValue: "null"},
					{Path: "$.aField", ReplacementValue: "null"},
				},
			},
		},
		{
			name: "nested holders through pointers, slices and maps",
			typ:  typeOf[*testevents.Shipment](),
			expect: Config{
				Type:      eventsPkg + ".Shipment",
				Revision:  "2",
				SubjectID: SubjectID{Path: "$.shipmentId"},
				SensitiveData: []SensitiveData{
					{Path: "$.recipient", ReplacementValue: "<name>"},
					{Path: "$.to.street", ReplacementValue: "<street>"},
					{Path: "$.lines[*].note"},
					{Path: "$.stops.*.street", ReplacementValue: "<street>"},
				},
			},
		},
		{
			name:     "ignored recursive type",
			typ:      typeOf[testevents.OrderPlaced](),
			resolver: pii.NewResolver(pii.WithIgnoredTypes(eventsPkg + ".OrderPlaced")),
			expect: Config{
				Type:      eventsPkg + ".OrderPlaced",
				SubjectID: SubjectID{Path: "$.orderId"},
				SensitiveData: []SensitiveData{
					{Path: "$.email", ReplacementValue: "<email>"},
					{Path: "$.shipping.street", ReplacementValue: "<street>"},
					{Path: "$.billing.street", ReplacementValue: "<street>"},
					{Path: "$.lines[*].note"},
					{Path: "$.contacts.*.street", ReplacementValue: "<street>"},
				},
			},
		},
		{
			name: "no sensitive fields",
			typ:  typeOf[testevents.NoSensitiveEvent](),
			expect: Config{
				Type:          eventsPkg + ".NoSensitiveEvent",
				SubjectID:     SubjectID{Path: "$.ID"},
				SensitiveData: []SensitiveData{},
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			var opts []Option
			if tc.resolver != nil {
				opts = append(opts, WithResolver(tc.resolver))
			}
			c, err := NewGenerator(opts...).Config(tc.typ)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, c)
			assert.NoError(t, c.Validate())
		})
	}
}

func TestGenerator_Errors(t *testing.T) {
	t.Run("not a holder", func(t *testing.T) {
		_, err := NewGenerator().Config(typeOf[testevents.NotAHolder]())
		var target *NotHolderError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("no subject id", func(t *testing.T) {
		_, err := NewGenerator().Config(typeOf[testevents.Address]())
		var target *NoSubjectIDError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("recursive type", func(t *testing.T) {
		_, err := NewGenerator().Config(typeOf[testevents.OrderPlaced]())
		var target *RecursiveTypeError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, typeOf[testevents.OrderPlaced](), target.Type)
		assert.Len(t, target.Chain, 2)
	})

	t.Run("resolver errors pass through", func(t *testing.T) {
		_, err := NewGenerator().Config(typeOf[testevents.DuplicateSubjectEvent]())
		var target *pii.DuplicateSubjectIDError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("generate stops at the first error", func(t *testing.T) {
		l, err := NewGenerator().Generate(typeOf[testevents.SimpleFlatEvent](), typeOf[testevents.NotAHolder]())
		assert.Error(t, err)
		assert.Empty(t, l.Configs)
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(testevents.Shipment{}, &testevents.SimpleFlatEvent{}, testevents.NotAHolder{}, nil)

	types := r.Types("github.com/hashicorp/dataprotect/internal")
	assert.Equal(t, []reflect.Type{
		typeOf[testevents.Shipment](),
		typeOf[testevents.SimpleFlatEvent](),
	}, types)
	assert.Empty(t, r.Types("example.com"))

	l, err := r.Generate(nil, "")
	require.NoError(t, err)
	require.Len(t, l.Configs, 2)
	assert.Equal(t, eventsPkg+".Shipment", l.Configs[0].Type)
	assert.Equal(t, eventsPkg+".SimpleFlatEvent", l.Configs[1].Type)
}

func TestDefaultRegistry(t *testing.T) {
	Register(testevents.ShallowInheritanceEvent{})
	assert.Contains(t, DefaultRegistry().Types(eventsPkg), typeOf[testevents.ShallowInheritanceEvent]())
}

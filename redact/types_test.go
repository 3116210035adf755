// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package redact

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/dataprotect/internal/testevents"
)

func TestRedacted(t *testing.T) {
	ev := testevents.SimpleFlatEvent{ID: "id-1", Value: "secret"}
	r := NewRedacted(ev, nil)

	assert.NotContains(t, r.String(), "secret")
	assert.Contains(t, r.String(), "id-1")
	assert.NotContains(t, fmt.Sprintf("%s", r), "secret")

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"id-1","value":""}`, string(b))

	v, err := r.Value()
	require.NoError(t, err)
	assert.Equal(t, "", v.Value)
	assert.Equal(t, "secret", ev.Value)
}

func TestRedacted_Error(t *testing.T) {
	r := NewRedacted(testevents.DuplicateSubjectEvent{ID: "a", OtherID: "b"}, New())

	assert.Equal(t, "", r.String())
	_, err := json.Marshal(r)
	assert.Error(t, err)
}

func TestNewRedactedSlice(t *testing.T) {
	in := []testevents.SimpleFlatEvent{
		{ID: "1", Value: "a"},
		{ID: "2", Value: "b"},
	}

	out := NewRedactedSlice(in, nil)
	require.Len(t, out, 2)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","value":""},{"id":"2","value":""}]`, string(b))
}

// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package redactor

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/dataprotect/metamodel"
	"github.com/hashicorp/dataprotect/redact"
)

func userConfig() metamodel.Config {
	return metamodel.Config{
		Type:      "example.com/events.UserRegistered",
		SubjectID: metamodel.SubjectID{Path: "$.userId"},
		SensitiveData: []metamodel.SensitiveData{
			{Path: "$.email", ReplacementValue: "<email>"},
			{Path: "$.addresses[*].street"},
		},
	}
}

func TestPayloadRedactor_Redact(t *testing.T) {
	tcs := []struct {
		name    string
		input   string
		expect  string
		wantErr bool
	}{
		{
			name:   "redacts sensitive paths",
			input:  `{"userId":"u-1","email":"jane@example.com","addresses":[{"street":"1 Main St","city":"Springfield"}]}`,
			expect: `{"addresses":[{"city":"Springfield","street":""}],"email":"<email>","userId":"u-1"}`,
		},
		{
			name:   "adds missing members",
			input:  `{"userId":"u-1"}`,
			expect: `{"email":"<email>","userId":"u-1"}`,
		},
		{
			name:   "keeps numbers intact",
			input:  `{"userId":12345678901234567890,"email":"x"}`,
			expect: `{"email":"<email>","userId":12345678901234567890}`,
		},
		{
			name:    "invalid json",
			input:   `{"userId":`,
			wantErr: true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewPayloadRedactor(userConfig())
			require.NoError(t, err)

			rr, err := r.Redact(strings.NewReader(tc.input))
			require.NoError(t, err)

			out, err := io.ReadAll(rr)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, string(out))
		})
	}
}

func TestNewPayloadRedactor_Invalid(t *testing.T) {
	cfg := userConfig()
	cfg.SubjectID.Path = "userId"
	_, err := NewPayloadRedactor(cfg)
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	first, err := NewPayloadRedactor(userConfig())
	require.NoError(t, err)
	second, err := NewPayloadRedactor(metamodel.Config{
		Type:          "example.com/events.UserRegistered",
		SubjectID:     metamodel.SubjectID{Path: "$.userId"},
		SensitiveData: []metamodel.SensitiveData{{Path: "$.phone", ReplacementValue: "n/a"}},
	})
	require.NoError(t, err)

	out, err := Chain(strings.NewReader(`{"userId":"u-1","email":"a","phone":"555"}`), first, second)
	require.NoError(t, err)

	b, err := io.ReadAll(out)
	require.NoError(t, err)
	assert.Equal(t, `{"email":"<email>","phone":"n/a","userId":"u-1"}`, string(b))
}

func TestPayloadRedactor_Logger(t *testing.T) {
	var buf bytes.Buffer
	l := hclog.New(&hclog.LoggerOptions{Name: "test", Output: &buf, Level: hclog.Trace})

	r, err := NewPayloadRedactor(userConfig(), redact.WithLogger(l))
	require.NoError(t, err)

	rr, err := r.Redact(strings.NewReader(`{"userId":"u-1","email":"a"}`))
	require.NoError(t, err)
	_, err = io.ReadAll(rr)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "redacted document")
	assert.Contains(t, buf.String(), "example.com/events.UserRegistered")
}

func TestPayloadRedactor_ZeroValueUsesDefault(t *testing.T) {
	rr, err := PayloadRedactor{Config: userConfig()}.Redact(strings.NewReader(`{"userId":"u-1","email":"a"}`))
	require.NoError(t, err)

	out, err := io.ReadAll(rr)
	require.NoError(t, err)
	assert.Equal(t, `{"email":"<email>","userId":"u-1"}`, string(out))
}

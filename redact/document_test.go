// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package redact

import (
	"bytes"
	"encoding/json"
	"os"
	"reflect"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/dataprotect/internal/testevents"
	"github.com/hashicorp/dataprotect/metamodel"
)

func orderConfig(t *testing.T) metamodel.Config {
	t.Helper()
	l, err := metamodel.ReadFile("../tests/resources/config/protect.json")
	require.NoError(t, err)
	c, ok := l.Lookup("github.com/hashicorp/dataprotect/internal/testevents.OrderPlaced")
	require.True(t, ok)
	return c
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	return doc
}

func TestDocument(t *testing.T) {
	tcs := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "fields, array elements and map values",
			input:  `{"orderId":"o-1","email":"a@example.com","shipping":{"street":"1 Main St","city":"X"},"lines":[{"note":"n1"},{"note":"n2"}],"contacts":{"home":{"street":"2 Side St"}}}`,
			expect: `{"orderId":"o-1","email":"<email>","shipping":{"street":"<street>","city":"X"},"lines":[{"note":""},{"note":""}],"contacts":{"home":{"street":"<street>"}}}`,
		},
		{
			name:   "missing last member is added",
			input:  `{"orderId":"o-1","shipping":{}}`,
			expect: `{"orderId":"o-1","email":"<email>","shipping":{"street":"<street>"}}`,
		},
		{
			name:   "missing parents are skipped",
			input:  `{"orderId":"o-1"}`,
			expect: `{"orderId":"o-1","email":"<email>"}`,
		},
		{
			name:   "wrong shapes are skipped",
			input:  `{"orderId":"o-1","email":"a","shipping":"n/a","lines":{"note":"x"},"contacts":[1]}`,
			expect: `{"orderId":"o-1","email":"<email>","shipping":"n/a","lines":{"note":"x"},"contacts":[1]}`,
		},
		{
			name:   "null values are replaced",
			input:  `{"orderId":"o-1","email":null,"shipping":null}`,
			expect: `{"orderId":"o-1","email":"<email>","shipping":null}`,
		},
		{
			name:   "non-object document is left alone",
			input:  `["a","b"]`,
			expect: `["a","b"]`,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			in := decode(t, tc.input)
			out, err := Document(in, orderConfig(t))
			require.NoError(t, err)
			assert.Equal(t, decode(t, tc.expect), out)
			assert.Equal(t, decode(t, tc.input), in, "input is not modified")
		})
	}
}

func TestDocument_InvalidConfig(t *testing.T) {
	tcs := []struct {
		name string
		cfg  metamodel.Config
	}{
		{
			name: "bad subject path",
			cfg:  metamodel.Config{Type: "a", SubjectID: metamodel.SubjectID{Path: "id"}},
		},
		{
			name: "bad sensitive path",
			cfg: metamodel.Config{
				Type:          "a",
				SubjectID:     metamodel.SubjectID{Path: "$.id"},
				SensitiveData: []metamodel.SensitiveData{{Path: "$[1]"}},
			},
		},
		{
			name: "subject is sensitive",
			cfg: metamodel.Config{
				Type:          "a",
				SubjectID:     metamodel.SubjectID{Path: "$.id"},
				SensitiveData: []metamodel.SensitiveData{{Path: "$.id"}},
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Document(map[string]any{"id": "x"}, tc.cfg)
			assert.Error(t, err)
		})
	}
}

func TestSubjectID(t *testing.T) {
	cfg := metamodel.Config{SubjectID: metamodel.SubjectID{Path: "$.meta.subject"}}

	id, ok := SubjectID(decode(t, `{"meta":{"subject":"s-1"}}`), cfg)
	assert.True(t, ok)
	assert.Equal(t, "s-1", id)

	_, ok = SubjectID(decode(t, `{"meta":{}}`), cfg)
	assert.False(t, ok)

	_, ok = SubjectID(decode(t, `{"meta":"s-1"}`), cfg)
	assert.False(t, ok)

	_, ok = SubjectID(decode(t, `{}`), metamodel.Config{SubjectID: metamodel.SubjectID{Path: "$.ids[*]"}})
	assert.False(t, ok)
}

func TestDocumentBytes(t *testing.T) {
	data, err := os.ReadFile("../tests/resources/events/order_placed.json")
	require.NoError(t, err)

	out, err := DocumentBytes(data, orderConfig(t))
	require.NoError(t, err)

	doc := decode(t, string(out)).(map[string]any)
	assert.Equal(t, "order-1", doc["orderId"])
	assert.Equal(t, "<email>", doc["email"])
	assert.Equal(t, float64(1250), doc["total"])

	_, err = DocumentBytes([]byte(`{"a":1} {"b":2}`), orderConfig(t))
	assert.Error(t, err)
	_, err = DocumentBytes([]byte(`{`), orderConfig(t))
	assert.Error(t, err)
}

// The struct redactor and the document redactor agree on the generated metamodel.
func TestDocument_MatchesStructRedaction(t *testing.T) {
	in := testevents.Shipment{
		ShipmentID: "s-1",
		Recipient:  "Jane",
		To:         &testevents.Address{Street: "1 Main St", City: "Springfield"},
		Lines:      []testevents.Line{{SKU: "sku-1", Note: "gift"}},
		Stops:      map[string]*testevents.Address{"depot": {Street: "9 Dock Rd", City: "Port"}},
	}

	cfg, err := metamodel.NewGenerator().Config(reflect.TypeOf(in))
	require.NoError(t, err)

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	fromDocument, err := DocumentBytes(raw, cfg)
	require.NoError(t, err)

	redacted, err := Redact(in)
	require.NoError(t, err)
	fromStruct, err := json.Marshal(redacted)
	require.NoError(t, err)

	assert.JSONEq(t, string(fromStruct), string(fromDocument))
}

func TestRedactor_DocumentLogger(t *testing.T) {
	var buf bytes.Buffer
	l := hclog.New(&hclog.LoggerOptions{Name: "test", Output: &buf, Level: hclog.Trace})
	r := New(WithLogger(l))

	out, err := r.DocumentBytes([]byte(`{"orderId":"o-1","email":"a"}`), orderConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "<email>", decode(t, string(out)).(map[string]any)["email"])

	assert.Contains(t, buf.String(), "redacted document")
	assert.Contains(t, buf.String(), "github.com/hashicorp/dataprotect/internal/testevents.OrderPlaced")
}

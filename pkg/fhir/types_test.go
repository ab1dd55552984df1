package fhir_test

import (
	"encoding/json"
	"testing"

	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchsetJSON = `{
	"resourceType": "Bundle",
	"type": "searchset",
	"total": 151,
	"link": [
		{"relation": "self", "url": "http://x/Patient/_search?name=Peter"},
		{"relation": "next", "url": "http://x/Patient/_search?name=Peter&snapshot=abc"}
	],
	"entry": [
		{"fullUrl": "http://x/Patient/example", "resource": {"resourceType": "Patient", "id": "example"}},
		{"search": {"mode": "match"}},
		{"resource": {"resourceType": "Patient", "id": "other"}}
	]
}`

func TestDocument_Bundle(t *testing.T) {
	t.Parallel()

	var bundle fhir.Document
	require.NoError(t, json.Unmarshal([]byte(searchsetJSON), &bundle))

	assert.True(t, bundle.IsBundle())
	assert.Equal(t, "Bundle", bundle.ResourceType())

	next, ok := bundle.NextLink()
	assert.True(t, ok)
	assert.Equal(t, "http://x/Patient/_search?name=Peter&snapshot=abc", next)

	self, ok := bundle.SelfLink()
	assert.True(t, ok)
	assert.Equal(t, "http://x/Patient/_search?name=Peter", self)

	_, ok = bundle.Link("previous")
	assert.False(t, ok)

	want := []fhir.Document{
		{"resourceType": "Patient", "id": "example"},
		{"resourceType": "Patient", "id": "other"},
	}
	if diff := cmp.Diff(want, bundle.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_Resource(t *testing.T) {
	t.Parallel()

	patient := fhir.Document{"resourceType": "Patient", "id": "example"}

	assert.Equal(t, "Patient", patient.ResourceType())
	assert.Equal(t, "example", patient.ID())
	assert.False(t, patient.IsBundle())

	_, ok := patient.NextLink()
	assert.False(t, ok)
	assert.Nil(t, patient.Entries())
}

func TestDocument_Empty(t *testing.T) {
	t.Parallel()

	var doc fhir.Document

	assert.Equal(t, "", doc.ResourceType())
	assert.Equal(t, "", doc.ID())
	assert.False(t, doc.IsBundle())

	_, ok := doc.Link("next")
	assert.False(t, ok)
}

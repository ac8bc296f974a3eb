package repository

import (
	"testing"

	"github.com/linskybing/rfp-portal/internal/domain/submission"
	"github.com/stretchr/testify/assert"
)

func TestDecodeIntegrationScores(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want map[string]int
	}{
		{"plain", `{"EHR":4,"Billing":2}`, map[string]int{"EHR": 4, "Billing": 2}},
		{"double encoded", `"{\"EHR\":5}"`, map[string]int{"EHR": 5}},
		{"numeric strings", `{"EHR":"3","Labs":"n/a"}`, map[string]int{"EHR": 3}},
		{"structured value", map[string]any{"EHR": 2.6}, map[string]int{"EHR": 3}},
		{"malformed", `{"EHR":`, map[string]int{}},
		{"empty", "", map[string]int{}},
		{"missing", nil, map[string]int{}},
		{"wrong shape", `[1,2,3]`, map[string]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeIntegrationScores(tt.raw))
		})
	}
}

func TestDecodeReferences(t *testing.T) {
	refs := []submission.Reference{
		{Company: "Clinic A", ContactName: "Ann", Email: "ann@a.test"},
		{Company: "Clinic B", ContactName: "Bob"},
	}
	encoded := encodeBlob(refs)

	assert.Equal(t, refs, decodeReferences(encoded))
	assert.Equal(t, refs, decodeReferences(encodeBlob(encoded)))
	assert.Equal(t, []submission.Reference{}, decodeReferences("not json"))
	assert.Equal(t, []submission.Reference{}, decodeReferences(`{"company":"x"}`))
	assert.Equal(t, []submission.Reference{}, decodeReferences("null"))
}

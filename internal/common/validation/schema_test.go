package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantValid bool
		wantField string
	}{
		{
			name:      "scores only",
			payload:   `{"probability":80,"reachScore":60,"relevanceScore":40}`,
			wantValid: true,
		},
		{
			name: "full payload with mixed scalars",
			payload: `{"probability":80,"reachScore":60,"relevanceScore":40,
				"businessProfile":{"industry":"Retail","yearsInBusiness":12},
				"technicalAssessment":{"techStack":["Go","React"],"integrationScore":4},
				"clientRelationships":{"successStories":3},
				"indicators":["a","b"],"salesPitch":"Great fit"}`,
			wantValid: true,
		},
		{
			name:      "null section",
			payload:   `{"probability":80,"reachScore":60,"relevanceScore":40,"marketPosition":null}`,
			wantValid: true,
		},
		{
			name:      "unknown keys allowed",
			payload:   `{"probability":80,"reachScore":60,"relevanceScore":40,"model":"v2"}`,
			wantValid: true,
		},
		{
			name:      "list given as string",
			payload:   `{"probability":80,"reachScore":60,"relevanceScore":40,"technicalAssessment":{"techStack":"Go"}}`,
			wantField: "technicalAssessment.techStack",
		},
		{
			name:      "section given as array",
			payload:   `{"probability":80,"reachScore":60,"relevanceScore":40,"businessProfile":["Retail"]}`,
			wantField: "businessProfile",
		},
		{
			name:      "rating given as string",
			payload:   `{"probability":80,"reachScore":60,"relevanceScore":40,"complianceGrowth":{"digitalPresenceScore":"4"}}`,
			wantField: "complianceGrowth.digitalPresenceScore",
		},
		{
			name:      "score given as string",
			payload:   `{"probability":"80","reachScore":60,"relevanceScore":40}`,
			wantField: "probability",
		},
		{
			name:      "nested object in list",
			payload:   `{"probability":80,"reachScore":60,"relevanceScore":40,"indicators":[{"a":1}]}`,
			wantField: "indicators.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidatePayload(decode(t, tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid, result.GetErrorMessages())
			if tt.wantField != "" {
				assert.True(t, result.HasErrors(tt.wantField), result.GetErrorMessages())
				assert.Equal(t, "INVALID_TYPE", result.Errors[0].Code)
			}
		})
	}
}

func TestValidateAgainst(t *testing.T) {
	schema := decode(t, `{"type":"object","required":["url"],"properties":{"url":{"type":"string"}}}`)

	result, err := ValidateAgainst(schema, decode(t, `{"url":"https://example.com"}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = ValidateAgainst(schema, decode(t, `{}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Len(t, result.GetErrorMessages(), 1)
}

func TestGetErrorsForField(t *testing.T) {
	vr := &ValidationResult{Errors: []ValidationError{
		{Field: "marketPosition.awards", Message: "bad"},
		{Field: "marketPosition.segments.0", Message: "bad"},
		{Field: "marketPositionX", Message: "other"},
	}}
	assert.Len(t, vr.GetErrorsForField("marketPosition"), 2)
	assert.False(t, vr.HasErrors("marketPosition"))
}

package validation

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed evaluation.schema.json
var evaluationSchemaJSON []byte

var (
	evaluationSchemaOnce sync.Once
	evaluationSchema     *gojsonschema.Schema
	evaluationSchemaErr  error
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidatePayload checks the shape of a decoded evaluation payload: sections are
// objects, list fields are arrays of scalars, ratings and scores are numbers.
// Presence of the mandatory scores is not checked here.
func ValidatePayload(doc map[string]interface{}) (*ValidationResult, error) {
	schema, err := payloadSchema()
	if err != nil {
		return nil, err
	}
	return validate(schema, doc)
}

// ValidateAgainst validates doc against an arbitrary JSON schema document.
func ValidateAgainst(schemaMap, doc map[string]interface{}) (*ValidationResult, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return validate(schema, doc)
}

func payloadSchema() (*gojsonschema.Schema, error) {
	evaluationSchemaOnce.Do(func() {
		evaluationSchema, evaluationSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(evaluationSchemaJSON))
		if evaluationSchemaErr != nil {
			evaluationSchemaErr = fmt.Errorf("compile evaluation schema: %w", evaluationSchemaErr)
		}
	})
	return evaluationSchema, evaluationSchemaErr
}

func validate(schema *gojsonschema.Schema, doc map[string]interface{}) (*ValidationResult, error) {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a field and everything nested under it.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

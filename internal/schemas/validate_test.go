package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"}
	}
}`

const validContent = `{
	"header": {
		"first_name": "Alex",
		"last_name": "Johnson",
		"email": "alex.johnson@example.com",
		"phone": "+1-212-555-7890",
		"location": "New York, NY"
	},
	"experiences": [
		{"role": "Data Engineer", "company": "DataCorp", "end_date": null, "bullets": ["Built ETL pipelines"]}
	],
	"education": [{"degree": "BSc", "start_year": 2015, "end_year": 2019}],
	"skills": [{"category": "Programming", "items": ["python"]}]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON_ValidJSON(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", personSchema)
	jsonPath := writeFile(t, "doc.json", `{"name": "test"}`)

	err := ValidateJSON(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON_MissingField(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", personSchema)
	jsonPath := writeFile(t, "doc.json", `{"age": 30}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	jsonPath := writeFile(t, "doc.json", `{"name": "test"}`)

	err := ValidateJSON("testdata/nonexistent_schema.json", jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_NonExistentJSON(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", personSchema)

	err := ValidateJSON(schemaPath, "testdata/nonexistent_json.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", personSchema)
	jsonPath := writeFile(t, "malformed.json", "{ invalid json }")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"name": "test"}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"age": 30}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}

func TestResumeContentSchema_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal(ResumeContentSchema(), &v))
	assert.Equal(t, "ResumeContent", v["title"])
}

func TestValidateResumeContent_Valid(t *testing.T) {
	assert.NoError(t, ValidateResumeContent([]byte(validContent)))
}

func TestValidateResumeContent_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		document string
		field    string
	}{
		{
			name:     "missing header",
			document: `{"experiences": []}`,
			field:    "(root)",
		},
		{
			name:     "header missing first_name",
			document: `{"header": {"last_name": "J", "email": "e", "phone": "p", "location": "l"}}`,
			field:    "header",
		},
		{
			name:     "header wrong type",
			document: `{"header": {"first_name": 123, "last_name": "J", "email": "e", "phone": "p", "location": "l"}}`,
			field:    "header.first_name",
		},
		{
			name:     "education not a list",
			document: `{"header": {"first_name": "A", "last_name": "J", "email": "e", "phone": "p", "location": "l"}, "education": {}}`,
			field:    "education",
		},
		{
			name:     "unknown entry field",
			document: `{"header": {"first_name": "A", "last_name": "J", "email": "e", "phone": "p", "location": "l"}, "projects": [{"name": "x", "stars": 5}]}`,
			field:    "projects.0",
		},
		{
			name:     "skills missing category",
			document: `{"header": {"first_name": "A", "last_name": "J", "email": "e", "phone": "p", "location": "l"}, "skills": [{"items": ["go"]}]}`,
			field:    "skills.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResumeContent([]byte(tt.document))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestResumeContentSchema_ReturnsCopy(t *testing.T) {
	a := ResumeContentSchema()
	a[0] = 'X'
	assert.NotEqual(t, byte('X'), ResumeContentSchema()[0])
}

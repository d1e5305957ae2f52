package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["spreadsheet_id"],
	"properties": {
		"spreadsheet_id": {"type": "string"},
		"schedule_hours": {"type": "integer", "minimum": 0}
	}
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON_ValidDocument(t *testing.T) {
	schemaPath := writeTemp(t, "schema.json", testSchema)
	jsonPath := writeTemp(t, "doc.json", `{"spreadsheet_id": "1abc", "schedule_hours": 6}`)

	assert.NoError(t, ValidateJSON(schemaPath, jsonPath))
}

func TestValidateJSON_MissingRequiredField(t *testing.T) {
	schemaPath := writeTemp(t, "schema.json", testSchema)
	jsonPath := writeTemp(t, "doc.json", `{"schedule_hours": 6}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_WrongType(t *testing.T) {
	schemaPath := writeTemp(t, "schema.json", testSchema)
	jsonPath := writeTemp(t, "doc.json", `{"spreadsheet_id": "1abc", "schedule_hours": "six"}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	jsonPath := writeTemp(t, "doc.json", `{}`)

	err := ValidateJSON("/nonexistent/schema.json", jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_NonExistentDocument(t *testing.T) {
	schemaPath := writeTemp(t, "schema.json", testSchema)

	err := ValidateJSON(schemaPath, "/nonexistent/doc.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedDocument(t *testing.T) {
	schemaPath := writeTemp(t, "schema.json", testSchema)
	jsonPath := writeTemp(t, "doc.json", "{ invalid json }")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
}

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"spreadsheet_id": "1abc"}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"schedule_hours": -1}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "spreadsheet_id", Message: "is required"},
			{Field: "schedule_hours", Message: "must be an integer"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "spreadsheet_id")
	assert.Contains(t, errorMsg, "schedule_hours")
}

func TestValidateJSONString_NestedFieldPathReported(t *testing.T) {
	schema := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["backend"],
		"properties": {
			"backend": {
				"type": "object",
				"required": ["kind"],
				"properties": {
					"kind": {"type": "string"}
				}
			}
		}
	}`

	err := ValidateJSONString(schema, `{"backend": {}}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	require.Greater(t, len(validationErr.Errors), 0)
	assert.NotEmpty(t, validationErr.Errors[0].Field)
}

func TestResolveSchemaPath_NotFound(t *testing.T) {
	assert.Empty(t, ResolveSchemaPath("schemas/no_such.schema.json"))
}

func TestResolveSchemaPath_FindsRelativeFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "schemas"), 0755))
	path := filepath.Join(dir, "schemas", "config.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	resolved := ResolveSchemaPath(filepath.Join("schemas", "config.schema.json"))
	assert.NotEmpty(t, resolved)
}

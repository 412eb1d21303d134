package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calculatorArgs struct {
	Operation string  `json:"operation" jsonschema:"description=One of add or multiply"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Precision int     `json:"precision,omitempty"`
}

func TestGenerateJSONSchema(t *testing.T) {
	raw, err := GenerateJSONSchema(calculatorArgs{})
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok, "schema must have properties")
	assert.Contains(t, props, "operation")
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")

	required, ok := schema["required"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, required, "operation")
	assert.NotContains(t, required, "precision")
}

func TestMergeJSONObjects(t *testing.T) {
	merged, err := MergeJSONObjects(
		json.RawMessage(`{"a":1,"b":2}`),
		json.RawMessage(`{"b":3,"c":4}`),
		nil,
	)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":3,"c":4}`, string(merged))
}

func TestMergeJSONObjectsRejectsNonObjects(t *testing.T) {
	_, err := MergeJSONObjects(json.RawMessage(`[1,2,3]`))
	assert.Error(t, err)
}

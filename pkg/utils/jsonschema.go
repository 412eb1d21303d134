package utils

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema reflects a JSON Schema document from a Go struct.
// This is the usual way to build a tool's input schema: declare the
// argument struct, reflect it, and register the tool with the result.
func GenerateJSONSchema(v interface{}) (json.RawMessage, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}

	schema := reflector.Reflect(v)
	schema.Version = ""

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// MergeJSONObjects merges multiple JSON objects, with later objects taking
// precedence on key collisions.
func MergeJSONObjects(objects ...json.RawMessage) (json.RawMessage, error) {
	merged := make(map[string]interface{})

	for _, obj := range objects {
		if len(obj) == 0 {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal(obj, &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal object: %w", err)
		}
		for k, v := range m {
			merged[k] = v
		}
	}

	return json.Marshal(merged)
}

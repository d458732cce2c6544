package config

import (
	"encoding/json"
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonSchema(t *testing.T) {
	schemaJson, err := JSONSchema()

	assert.NoError(t, err)
	assert.NotNil(t, schemaJson)
	assert.Contains(t, string(schemaJson), "authoring")
	assert.Contains(t, string(schemaJson), "max_retry_attempts")

	unmarshalledSchema := &jsonschema.Schema{}
	err = unmarshalledSchema.UnmarshalJSON(schemaJson)
	assert.NoError(t, err)
}

func TestJsonSchemaUsesConfigKeys(t *testing.T) {
	schemaJson, err := JSONSchema()
	require.NoError(t, err)

	var schema struct {
		Defs map[string]struct {
			Properties map[string]any `json:"properties"`
		} `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(schemaJson, &schema))

	root, ok := schema.Defs["Config"]
	require.True(t, ok)
	assert.Contains(t, root.Properties, "authoring")
	assert.NotContains(t, root.Properties, "Authoring")

	app, ok := schema.Defs["AppConfig"]
	require.True(t, ok)
	assert.Contains(t, app.Properties, "usage_scenario")
	assert.Contains(t, app.Properties, "version_id")
}

package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultDefinition(t *testing.T) {
	def, err := LoadDefinition("")
	require.NoError(t, err)

	assert.Equal(t, []string{"BookFlight", "GetWeather", "None"}, def.Intents)
	assert.Equal(t, []string{"Location"}, def.Entities)
	require.Len(t, def.HierarchicalEntities, 1)
	assert.Equal(t, []string{"Origin", "Destination"}, def.HierarchicalEntities[0].Children)
	require.Len(t, def.ClosedLists, 1)
	assert.Len(t, def.ClosedLists[0].SubLists, 4)
	assert.Equal(t, []string{"number", "datetimeV2"}, def.PrebuiltEntities)
	assert.Len(t, def.Utterances, 7)

	for _, u := range def.Utterances {
		for _, l := range u.EntityLabels {
			assert.Equal(t, "Location", l.EntityName)
			assert.Less(t, l.EndCharIndex, len(u.Text), u.Text)
			assert.LessOrEqual(t, l.StartCharIndex, l.EndCharIndex, u.Text)
		}
	}
	first := def.Utterances[0]
	label := first.EntityLabels[0]
	assert.Equal(t, "London", first.Text[label.StartCharIndex:label.EndCharIndex+1])
}

func TestLoadDefinitionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
intents: [Greet]
utterances:
  - text: hi there
    intent: Greet
`), 0o600))

	def, err := LoadDefinition(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Greet"}, def.Intents)
	assert.Empty(t, def.Entities)
	require.Len(t, def.Utterances, 1)
	assert.Equal(t, "hi there", def.Utterances[0].Text)

	_, err = LoadDefinition(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseDefinitionValidation(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{
			name: "no intents",
			yaml: `entities: [Location]`,
		},
		{
			name: "duplicate intents",
			yaml: `intents: [Greet, Greet]`,
		},
		{
			name: "empty entity name",
			yaml: "intents: [Greet]\nentities: ['']",
		},
		{
			name: "hierarchical entity without children",
			yaml: `
intents: [Greet]
hierarchical_entities:
  - name: Trip
`,
		},
		{
			name: "duplicate canonical form",
			yaml: `
intents: [Greet]
closed_lists:
  - name: Cities
    sub_lists:
      - canonical_form: London
        list: [LON]
      - canonical_form: London
        list: [londres]
`,
		},
		{
			name: "utterance without intent",
			yaml: `
intents: [Greet]
utterances:
  - text: hi
`,
		},
		{
			name: "malformed yaml",
			yaml: `intents: [Greet`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

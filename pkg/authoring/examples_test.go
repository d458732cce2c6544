package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getzep/nlu-authoring/pkg/models"
	"github.com/getzep/nlu-authoring/pkg/testutils"
)

func seedIntents(t *testing.T, c *Client, appID string, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := c.CreateIntent(context.Background(), appID, testVersion, name)
		require.NoError(t, err)
	}
}

func TestAddExample(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()
	appID := fake.SeedApp("TravelAgent", testVersion)
	seedIntents(t, c, appID, "BookFlight")

	resp, err := c.AddExample(ctx, appID, testVersion, testutils.TestExamples[0])
	require.NoError(t, err)
	assert.Equal(t, testutils.TestExamples[0].Text, resp.UtteranceText)
	assert.NotZero(t, resp.ExampleID)

	_, err = c.AddExample(ctx, appID, testVersion, models.LabeledExample{Text: "hi", IntentName: "Unknown"})
	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestAddExamplesPassesLabelsThrough(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()
	appID := fake.SeedApp("TravelAgent", testVersion)
	seedIntents(t, c, appID, "BookFlight")

	examples := []models.LabeledExample{
		testutils.TestExamples[0],
		{
			Text:       "fly to Paris",
			IntentName: "BookFlight",
			EntityLabels: []models.EntityLabel{
				{EntityName: "Location", StartCharIndex: 7, EndCharIndex: 40},
			},
		},
	}

	results, err := c.AddExamples(ctx, appID, testVersion, examples)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].HasError)
	require.NotNil(t, results[0].Value)
	assert.Equal(t, examples[0].Text, results[0].Value.UtteranceText)

	assert.True(t, results[1].HasError)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, "BadArgument", results[1].Error.Code)

	expected, err := json.Marshal(examples)
	require.NoError(t, err)
	require.Len(t, fake.BatchBodies, 1)
	assert.JSONEq(t, string(expected), string(fake.BatchBodies[0]))
}

func TestAddExamplesBatches(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()
	appID := fake.SeedApp("TravelAgent", testVersion)
	seedIntents(t, c, appID, "BookFlight")

	examples := make([]models.LabeledExample, 2*MaxBatchSize+10)
	for i := range examples {
		examples[i] = models.LabeledExample{Text: fmt.Sprintf("book flight %d", i), IntentName: "BookFlight"}
	}

	results, err := c.AddExamples(ctx, appID, testVersion, examples)
	require.NoError(t, err)
	assert.Len(t, results, len(examples))
	assert.Equal(t, 3, fake.Calls("POST", "examples"))
	assert.Equal(t, examples[len(examples)-1].Text, results[len(results)-1].Value.UtteranceText)

	reviewed, err := c.ReviewExamples(ctx, appID, testVersion)
	require.NoError(t, err)
	assert.Len(t, reviewed, len(examples))
	assert.Equal(t, "BookFlight", reviewed[0].IntentLabel)
	// 210 examples are 3 pages
	assert.Equal(t, 3, fake.Calls("GET", "examples"))
}

func TestAddExamplesEmpty(t *testing.T) {
	c, fake := newTestClient(t)
	appID := fake.SeedApp("TravelAgent", testVersion)

	results, err := c.AddExamples(context.Background(), appID, testVersion, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, fake.Calls("POST", "examples"))
}

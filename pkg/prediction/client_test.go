package prediction

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getzep/nlu-authoring/pkg/authoring"
	"github.com/getzep/nlu-authoring/pkg/httputil"
	"github.com/getzep/nlu-authoring/pkg/models"
	"github.com/getzep/nlu-authoring/pkg/testutils"
)

func TestQuery(t *testing.T) {
	fake := testutils.NewFakeAuthoringService(testutils.TestAuthoringKey, testutils.TestEndpointKey)
	defer fake.Close()
	cfg := testutils.NewTestConfig(fake.URL())
	ctx := context.Background()

	authoringClient := authoring.NewClient(cfg)
	appID := fake.SeedApp("TravelAgent", "0.1")
	_, err := authoringClient.CreateIntent(ctx, appID, "0.1", "BookFlight")
	require.NoError(t, err)
	_, err = authoringClient.AddExample(ctx, appID, "0.1", testutils.TestExamples[0])
	require.NoError(t, err)

	result, err := NewClient(cfg).Query(ctx, appID, "Book a flight to London")
	require.NoError(t, err)

	assert.Equal(t, "Book a flight to London", result.Query)
	require.NotNil(t, result.TopScoringIntent)
	assert.Equal(t, "BookFlight", result.TopScoringIntent.Intent)
	assert.Equal(t, 1, fake.Calls("GET", "predict"))
}

func TestQueryWrongKey(t *testing.T) {
	fake := testutils.NewFakeAuthoringService(testutils.TestAuthoringKey, testutils.TestEndpointKey)
	defer fake.Close()

	cfg := testutils.NewTestConfig(fake.URL())
	cfg.Endpoint.Key = "wrong"
	appID := fake.SeedApp("TravelAgent", "0.1")

	_, err := NewClient(cfg).Query(context.Background(), appID, "hello")

	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestNewClientFallsBackToAuthoringURL(t *testing.T) {
	cfg := testutils.NewTestConfig("https://westus.api.cognitive.microsoft.com")
	cfg.Endpoint.URL = ""

	c := NewClient(cfg)
	base, ok := c.http.(*httputil.HTTPBase)
	require.True(t, ok)
	assert.Equal(t, cfg.Authoring.URL, base.BaseURL)
	assert.Equal(t, httputil.SubscriptionKeyParam, base.KeyQueryParam)
}

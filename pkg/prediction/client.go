// Package prediction queries a published app through the runtime endpoint.
package prediction

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/getzep/nlu-authoring/config"
	"github.com/getzep/nlu-authoring/pkg/httputil"
	"github.com/getzep/nlu-authoring/pkg/models"
)

const (
	APIPath    = "luis/v2.0/apps"
	ServerName = "prediction"
)

type Client struct {
	http    httputil.HTTPBaser
	staging bool
}

// NewClient returns a runtime client keyed with the endpoint key. It queries
// the staging slot when the app is published to staging.
func NewClient(cfg *config.Config) *Client {
	endpointURL := cfg.Endpoint.URL
	if endpointURL == "" {
		endpointURL = cfg.Authoring.URL
	}

	return &Client{
		http: &httputil.HTTPBase{
			BaseURL:          endpointURL,
			APIKey:           cfg.Endpoint.Key,
			KeyQueryParam:    httputil.SubscriptionKeyParam,
			ServerName:       ServerName,
			RequestTimeOut:   cfg.HTTP.Timeout,
			MaxRetryAttempts: cfg.HTTP.MaxRetryAttempts,
		},
		staging: cfg.App.IsStaging,
	}
}

// Query returns the model's prediction for text.
func (c *Client) Query(ctx context.Context, appID, text string) (*models.PredictionResult, error) {
	query := url.Values{
		"q":       []string{text},
		"verbose": []string{"true"},
		"staging": []string{strconv.FormatBool(c.staging)},
	}

	var result models.PredictionResult
	path := APIPath + "/" + url.PathEscape(appID)
	if err := c.http.Request(ctx, http.MethodGet, path, query, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to query app %s: %w", appID, err)
	}
	return &result, nil
}

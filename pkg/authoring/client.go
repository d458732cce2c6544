// Package authoring is a client for the authoring API of the hosted NLU
// service. Resources are resolved by name with FindOrCreate over collections
// scanned with ListAll, and training is awaited with Train.
package authoring

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/getzep/nlu-authoring/config"
	"github.com/getzep/nlu-authoring/internal"
	"github.com/getzep/nlu-authoring/pkg/httputil"
	"github.com/getzep/nlu-authoring/pkg/models"
)

var log = internal.GetLogger()

const (
	APIPath    = "luis/api/v2.0"
	ServerName = "authoring"

	// DefaultPollInterval is the fixed delay between training status polls.
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultMaxTrainingWait = 10 * time.Minute
)

type Client struct {
	http            httputil.HTTPBaser
	pollInterval    time.Duration
	maxTrainingWait time.Duration
}

// NewClient returns a client for the authoring API described by cfg.
func NewClient(cfg *config.Config) *Client {
	maxWait := cfg.Training.MaxWait
	if maxWait == 0 {
		maxWait = DefaultMaxTrainingWait
	}
	pollInterval := cfg.Training.PollInterval
	if pollInterval == 0 {
		pollInterval = DefaultPollInterval
	}

	return &Client{
		http: &httputil.HTTPBase{
			BaseURL:          strings.TrimSuffix(cfg.Authoring.URL, "/") + "/" + APIPath,
			APIKey:           cfg.Authoring.Key,
			KeyHeader:        httputil.SubscriptionKeyHeader,
			ServerName:       ServerName,
			RequestTimeOut:   cfg.HTTP.Timeout,
			MaxRetryAttempts: cfg.HTTP.MaxRetryAttempts,
		},
		pollInterval:    pollInterval,
		maxTrainingWait: maxWait,
	}
}

func appPath(appID string, parts ...string) string {
	return strings.Join(append([]string{"apps", url.PathEscape(appID)}, parts...), "/")
}

func versionPath(appID, versionID string, parts ...string) string {
	return appPath(appID, append([]string{"versions", url.PathEscape(versionID)}, parts...)...)
}

// pager returns a PageFunc that lists path with skip/take query parameters.
func pager[T any](c *Client, path string) PageFunc[T] {
	return func(ctx context.Context, skip, take int) ([]T, error) {
		query := url.Values{
			"skip": []string{strconv.Itoa(skip)},
			"take": []string{strconv.Itoa(take)},
		}
		var page []T
		if err := c.http.Request(ctx, http.MethodGet, path, query, nil, &page); err != nil {
			return nil, err
		}
		return page, nil
	}
}

// create posts payload to path and returns the id the service answers with.
func (c *Client) create(ctx context.Context, path string, payload any) (string, error) {
	var id string
	if err := c.http.Request(ctx, http.MethodPost, path, nil, payload, &id); err != nil {
		return "", err
	}
	return id, nil
}

func (c *Client) delete(ctx context.Context, path string) error {
	var status models.OperationStatus
	return c.http.Request(ctx, http.MethodDelete, path, nil, nil, &status)
}

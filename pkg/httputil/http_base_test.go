package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getzep/nlu-authoring/config"
	"github.com/getzep/nlu-authoring/pkg/models"
)

func TestRequestSendsKeyAndBody(t *testing.T) {
	var gotKey, gotRequestID, gotUserAgent, gotSkip string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(SubscriptionKeyHeader)
		gotRequestID = r.Header.Get(RequestIDHeader)
		gotUserAgent = r.Header.Get("User-Agent")
		gotSkip = r.URL.Query().Get("skip")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`"4a6f0e5c-0000-0000-0000-000000000000"`))
	}))
	defer srv.Close()

	h := &HTTPBase{
		BaseURL:    srv.URL + "/luis/api/v2.0/",
		APIKey:     "secret",
		KeyHeader:  SubscriptionKeyHeader,
		ServerName: "test-request-sends-key",
	}

	var id string
	err := h.Request(
		context.Background(),
		http.MethodPost,
		"/apps/",
		url.Values{"skip": []string{"0"}},
		map[string]string{"name": "TravelAgent"},
		&id,
	)
	require.NoError(t, err)

	assert.Equal(t, "4a6f0e5c-0000-0000-0000-000000000000", id)
	assert.Equal(t, "secret", gotKey)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, config.UserAgent(), gotUserAgent)
	assert.Equal(t, "0", gotSkip)
	assert.Equal(t, "TravelAgent", gotBody["name"])
}

func TestRequestKeyInQuery(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get(SubscriptionKeyParam)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	h := &HTTPBase{
		BaseURL:       srv.URL,
		APIKey:        "runtime",
		KeyQueryParam: SubscriptionKeyParam,
		ServerName:    "test-key-in-query",
	}

	err := h.Request(context.Background(), http.MethodGet, "luis/v2.0/apps/x", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "runtime", gotKey)
}

func TestRequestClientErrorIsTypedAndNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BadArgument","message":"An intent with the same name already exists"}}`))
	}))
	defer srv.Close()

	h := &HTTPBase{BaseURL: srv.URL, ServerName: "test-client-error"}

	err := h.Request(context.Background(), http.MethodPost, "intents", nil, map[string]string{}, nil)
	require.Error(t, err)

	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "BadArgument", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "same name")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestRequestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	h := &HTTPBase{BaseURL: srv.URL, ServerName: "test-not-found"}

	err := h.Request(context.Background(), http.MethodGet, "apps/missing", nil, nil, nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIgnoreClientErrorRetryPolicy(t *testing.T) {
	testCases := []struct {
		name   string
		method string
		status int
		retry  bool
	}{
		{"ok", http.MethodGet, http.StatusOK, false},
		{"bad request", http.MethodGet, http.StatusBadRequest, false},
		{"conflict", http.MethodGet, http.StatusConflict, false},
		{"too many requests", http.MethodGet, http.StatusTooManyRequests, true},
		{"unavailable", http.MethodGet, http.StatusServiceUnavailable, true},
		{"unavailable post", http.MethodPost, http.StatusServiceUnavailable, false},
		{"bad gateway delete", http.MethodDelete, http.StatusBadGateway, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			retry, _ := IgnoreClientErrorRetryPolicy(
				context.Background(),
				&http.Response{
					StatusCode: tc.status,
					Status:     http.StatusText(tc.status),
					Request:    &http.Request{Method: tc.method},
				},
				nil,
			)
			assert.Equal(t, tc.retry, retry)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	retry, err := IgnoreClientErrorRetryPolicy(ctx, nil, nil)
	assert.False(t, retry)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestRetriesOnlyGet(t *testing.T) {
	testCases := []struct {
		name      string
		method    string
		path      string
		wantCalls int32
		wantErr   bool
	}{
		{"train is sent once", http.MethodPost, "apps/a/versions/0.1/train", 1, true},
		{"create is sent once", http.MethodPost, "apps/a/versions/0.1/intents", 1, true},
		{"list is retried", http.MethodGet, "apps/a/versions/0.1/intents", 2, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) == 1 {
					w.Header().Set("Retry-After", "0")
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_, _ = w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			h := &HTTPBase{BaseURL: srv.URL, MaxRetryAttempts: 3, ServerName: "test-retries-" + tc.method}

			err := h.Request(context.Background(), tc.method, tc.path, nil, nil, nil)
			if tc.wantErr {
				var apiErr *models.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

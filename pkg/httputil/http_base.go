package httputil

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/getzep/nlu-authoring/config"
	"github.com/getzep/nlu-authoring/internal"
	"github.com/getzep/nlu-authoring/pkg/models"
)

var log = internal.GetLogger()

var httpClients sync.Map

const (
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultMaxRetryAttempts = 3
	MaxIdleConns            = 100
	MaxIdleConnsPerHost     = 20
	IdleConnTimeout         = 30 * time.Second

	SubscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
	SubscriptionKeyParam  = "subscription-key"
	RequestIDHeader       = "X-Request-Id"
)

type HTTPBaser interface {
	Request(ctx context.Context, method, path string, query url.Values, payload, out any) error
}

var _ HTTPBaser = &HTTPBase{}

// HTTPBase is a MixIn for clients of JSON APIs keyed by a subscription key. The
// key travels either in KeyHeader or in the KeyQueryParam query parameter.
type HTTPBase struct {
	BaseURL          string
	APIKey           string
	KeyHeader        string
	KeyQueryParam    string
	ServerName       string
	RequestTimeOut   time.Duration
	MaxRetryAttempts int
}

// Request sends payload (if not nil) as a JSON body to BaseURL+path and decodes
// a 2xx response body into out (if not nil). Any other status is returned as a
// *models.APIError.
func (h *HTTPBase) Request(
	ctx context.Context,
	method, path string,
	query url.Values,
	payload, out any,
) error {
	var requestTimeout time.Duration
	if h.RequestTimeOut != 0 {
		requestTimeout = h.RequestTimeOut
	} else {
		requestTimeout = DefaultHTTPTimeout
	}

	var maxRetryAttempts int
	if h.MaxRetryAttempts != 0 {
		maxRetryAttempts = h.MaxRetryAttempts
	} else {
		maxRetryAttempts = DefaultMaxRetryAttempts
	}
	if method != http.MethodGet {
		maxRetryAttempts = 0
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	httpClient := NewRetryableHTTPClient(
		maxRetryAttempts,
		requestTimeout,
		IgnoreClientErrorRetryPolicy,
		h.ServerName,
	)

	requestURL, err := h.buildURL(path, query)
	if err != nil {
		return err
	}

	var body io.Reader = http.NoBody
	if payload != nil {
		p, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(p)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return err
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())
	req.Header.Set(RequestIDHeader, requestID)
	if h.KeyHeader != "" {
		req.Header.Set(h.KeyHeader, h.APIKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(method, path, resp.StatusCode, rb)
		log.WithField("request_id", requestID).Debugf("request failed: %v", apiErr)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(rb)) == 0 {
		return nil
	}

	if err := json.Unmarshal(rb, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}

	return nil
}

func (h *HTTPBase) buildURL(path string, query url.Values) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(h.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid request url: %w", err)
	}

	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if h.KeyQueryParam != "" {
		q.Set(h.KeyQueryParam, h.APIKey)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func newAPIError(method, path string, statusCode int, body []byte) *models.APIError {
	apiErr := &models.APIError{
		StatusCode: statusCode,
		Method:     method,
		URL:        path,
		Body:       body,
	}

	var envelope models.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}

	return apiErr
}

// NewRetryableHTTPClient returns a new retryable HTTP client with the given retryMax and timeout.
// The retryable HTTP transport is wrapped in an OpenTelemetry transport. Clients are
// cached per server name and settings.
func NewRetryableHTTPClient(
	retryMax int,
	timeout time.Duration,
	retryPolicy retryablehttp.CheckRetry,
	serverName string,
) *http.Client {
	cacheKey := fmt.Sprintf("%s|%d|%s", serverName, retryMax, timeout)
	client, ok := httpClients.Load(cacheKey)
	if ok {
		if httpClient, ok := client.(*http.Client); ok {
			return httpClient
		}
	}

	retryableHTTPClient := &retryablehttp.Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
				MaxIdleConns:          MaxIdleConns,
				MaxIdleConnsPerHost:   MaxIdleConnsPerHost,
				IdleConnTimeout:       IdleConnTimeout,
				ResponseHeaderTimeout: timeout,
			},
		},
		Logger:       internal.NewLeveledLogrus(internal.GetLogger()),
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 30 * time.Second,
		RetryMax:     retryMax,
		Backoff:      retryablehttp.DefaultBackoff,
		CheckRetry:   retryPolicy,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(
			retryableHTTPClient.StandardClient().Transport,
			otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
				return otelhttptrace.NewClientTrace(ctx)
			}),
		),
	}

	httpClients.Store(cacheKey, httpClient)

	return httpClient
}

// IgnoreClientErrorRetryPolicy retries connection errors, 429 and 5xx responses
// to GET requests. Other 4xx responses and any response to a create, train,
// publish or delete call are returned as-is.
func IgnoreClientErrorRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	// do not retry on context.Canceled or context.DeadlineExceeded
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if resp != nil && resp.Request != nil && resp.Request.Method != http.MethodGet {
		return false, nil
	}

	if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusTooManyRequests {
		return false, nil
	}

	if resp != nil && resp.StatusCode >= http.StatusMultipleChoices {
		log.Debugf("retry policy invoked with response status %s", resp.Status)
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

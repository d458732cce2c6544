package models

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNotFound = errors.New("not found")

// APIError is returned for any non-2xx response from the remote service.
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	// Code and Message come from the service's error envelope when present.
	Code    string
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Code != "" || e.Message != "" {
		return fmt.Sprintf(
			"%s %s: %d %s: %s",
			e.Method,
			e.URL,
			e.StatusCode,
			e.Code,
			e.Message,
		)
	}
	return fmt.Sprintf("%s %s: %d - %s", e.Method, e.URL, e.StatusCode, string(e.Body))
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// ErrorEnvelope is the error body returned by the authoring service.
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

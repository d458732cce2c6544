package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTrainingStatus(t *testing.T) {
	testCases := []struct {
		status   string
		statusID int
		want     TrainingStatus
	}{
		{"", 0, TrainingStatusSuccess},
		{"", 1, TrainingStatusUpToDate},
		{"", 2, TrainingStatusInProgress},
		{"", 3, TrainingStatusFail},
		{"", 9, TrainingStatusQueued},
		{"", 42, ""},
		{"InProgress", 0, TrainingStatusInProgress},
		{"Fail", 1, TrainingStatusFail},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%q/%d", tc.status, tc.statusID), func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveTrainingStatus(tc.status, tc.statusID))
		})
	}
}

func TestAPIError(t *testing.T) {
	notFound := &APIError{
		StatusCode: http.StatusNotFound,
		Method:     http.MethodGet,
		URL:        "apps/1",
		Code:       "NotFound",
		Message:    "The application was not found.",
	}
	assert.Equal(t, "GET apps/1: 404 NotFound: The application was not found.", notFound.Error())
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", notFound), ErrNotFound)

	badRequest := &APIError{
		StatusCode: http.StatusBadRequest,
		Method:     http.MethodPost,
		URL:        "apps/",
		Body:       []byte("bad"),
	}
	assert.Equal(t, "POST apps/: 400 - bad", badRequest.Error())
	assert.False(t, errors.Is(badRequest, ErrNotFound))
}

package authoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/getzep/nlu-authoring/pkg/models"
)

// ErrTrainingTimeout is returned by Train when models are still InProgress after
// the maximum wait.
var ErrTrainingTimeout = errors.New("training still in progress after the maximum wait")

// StartTraining submits a training request for a version.
func (c *Client) StartTraining(ctx context.Context, appID, versionID string) (*models.TrainResponse, error) {
	var resp models.TrainResponse
	if err := c.http.Request(ctx, http.MethodPost, versionPath(appID, versionID, "train"), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TrainingStatus returns the training status of every model of a version.
func (c *Client) TrainingStatus(
	ctx context.Context,
	appID, versionID string,
) ([]models.ModelTrainingInfo, error) {
	var statuses []models.ModelTrainingInfo
	if err := c.http.Request(ctx, http.MethodGet, versionPath(appID, versionID, "train"), nil, nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// Train submits a training request and waits for it to finish.
//
// An immediate UpToDate is a success without polling. Queued starts polling
// every pollInterval until no model is InProgress; any other immediate status
// is a failure. A failed training is reported in the result, not as an error.
// When the wait exceeds maxTrainingWait the last InProgress result is returned
// with ErrTrainingTimeout.
func (c *Client) Train(ctx context.Context, appID, versionID string) (*models.TrainingResult, error) {
	resp, err := c.StartTraining(ctx, appID, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to start training: %w", err)
	}

	status := resp.TrainingStatus()
	log.Infof("Training request for version %s answered %s", versionID, status)

	switch status {
	case models.TrainingStatusUpToDate:
		return &models.TrainingResult{Success: true, Status: models.TrainingStatusUpToDate}, nil
	case models.TrainingStatusQueued:
	default:
		return &models.TrainingResult{Success: false, Status: status}, nil
	}

	statuses, err := c.waitForTraining(ctx, appID, versionID)
	if errors.Is(err, ErrTrainingTimeout) {
		return &models.TrainingResult{
			Success: false,
			Status:  models.TrainingStatusInProgress,
			Details: statuses,
		}, err
	}
	if err != nil {
		return nil, err
	}

	return ClassifyTraining(statuses), nil
}

func (c *Client) waitForTraining(
	ctx context.Context,
	appID, versionID string,
) ([]models.ModelTrainingInfo, error) {
	if err := sleep(ctx, c.pollInterval); err != nil {
		return nil, err
	}

	maxRetries := int(c.maxTrainingWait / c.pollInterval)

	policy := retrypolicy.Builder[[]models.ModelTrainingInfo]().
		HandleIf(func(statuses []models.ModelTrainingInfo, err error) bool {
			return err == nil && AnyInProgress(statuses)
		}).
		WithDelay(c.pollInterval).
		WithMaxRetries(maxRetries).
		ReturnLastFailure().
		Build()

	attempt := 0
	statuses, err := failsafe.NewExecutor[[]models.ModelTrainingInfo](policy).
		WithContext(ctx).
		Get(func() ([]models.ModelTrainingInfo, error) {
			attempt++
			statuses, err := c.TrainingStatus(ctx, appID, versionID)
			if err == nil {
				log.Debugf("Training status poll #%d: %d of %d models in progress",
					attempt, countStatus(statuses, models.TrainingStatusInProgress), len(statuses))
			}
			return statuses, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to poll training status: %w", err)
	}

	if AnyInProgress(statuses) {
		return statuses, ErrTrainingTimeout
	}

	return statuses, nil
}

// ClassifyTraining folds per-model statuses into one result: any Fail fails,
// all UpToDate is UpToDate, anything else is Success.
func ClassifyTraining(statuses []models.ModelTrainingInfo) *models.TrainingResult {
	if countStatus(statuses, models.TrainingStatusFail) > 0 {
		return &models.TrainingResult{Success: false, Status: models.TrainingStatusFail, Details: statuses}
	}

	if countStatus(statuses, models.TrainingStatusUpToDate) == len(statuses) {
		return &models.TrainingResult{Success: true, Status: models.TrainingStatusUpToDate}
	}

	return &models.TrainingResult{Success: true, Status: models.TrainingStatusSuccess, Details: statuses}
}

// AnyInProgress reports whether any model is still training.
func AnyInProgress(statuses []models.ModelTrainingInfo) bool {
	return countStatus(statuses, models.TrainingStatusInProgress) > 0
}

func countStatus(statuses []models.ModelTrainingInfo, status models.TrainingStatus) int {
	n := 0
	for _, s := range statuses {
		if s.TrainingStatus() == status {
			n++
		}
	}
	return n
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

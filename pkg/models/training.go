package models

// TrainingStatus is the training state of an app version or of one of its models.
type TrainingStatus string

const (
	TrainingStatusSuccess    TrainingStatus = "Success"
	TrainingStatusUpToDate   TrainingStatus = "UpToDate"
	TrainingStatusInProgress TrainingStatus = "InProgress"
	TrainingStatusFail       TrainingStatus = "Fail"
	TrainingStatusQueued     TrainingStatus = "Queued"
)

var trainingStatusIDs = map[int]TrainingStatus{
	0: TrainingStatusSuccess,
	1: TrainingStatusUpToDate,
	2: TrainingStatusInProgress,
	3: TrainingStatusFail,
	9: TrainingStatusQueued,
}

// ResolveTrainingStatus prefers the textual status and falls back to the
// numeric status id.
func ResolveTrainingStatus(status string, statusID int) TrainingStatus {
	if status != "" {
		return TrainingStatus(status)
	}
	if s, ok := trainingStatusIDs[statusID]; ok {
		return s
	}
	return ""
}

// TrainResponse is the immediate answer to a training request.
type TrainResponse struct {
	StatusID int    `json:"statusId"`
	Status   string `json:"status"`
}

func (r TrainResponse) TrainingStatus() TrainingStatus {
	return ResolveTrainingStatus(r.Status, r.StatusID)
}

type ModelTrainingDetails struct {
	StatusID         int    `json:"statusId"`
	Status           string `json:"status"`
	ExampleCount     int    `json:"exampleCount"`
	FailureReason    string `json:"failureReason,omitempty"`
	TrainingDateTime string `json:"trainingDateTime,omitempty"`
}

// ModelTrainingInfo is the training status of one model of an app version.
type ModelTrainingInfo struct {
	ModelID string               `json:"modelId"`
	Details ModelTrainingDetails `json:"details"`
}

func (m ModelTrainingInfo) TrainingStatus() TrainingStatus {
	return ResolveTrainingStatus(m.Details.Status, m.Details.StatusID)
}

// TrainingResult is the overall outcome of a training run. Details holds the
// last per-model status list on failure or partial completion.
type TrainingResult struct {
	Success bool                `json:"success"`
	Status  TrainingStatus      `json:"status"`
	Details []ModelTrainingInfo `json:"details,omitempty"`
}

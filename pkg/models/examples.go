package models

// EntityLabel marks a span of an example's text. StartCharIndex and
// EndCharIndex are zero-based and inclusive. They are not checked against the
// text locally; the service rejects malformed labels.
type EntityLabel struct {
	EntityName     string `json:"entityName"     yaml:"entity"`
	StartCharIndex int    `json:"startCharIndex" yaml:"start"`
	EndCharIndex   int    `json:"endCharIndex"   yaml:"end"`
}

// LabeledExample is an utterance with its expected intent and entity labels.
type LabeledExample struct {
	Text         string        `json:"text"                   yaml:"text"     validate:"required"`
	IntentName   string        `json:"intentName"             yaml:"intent"   validate:"required"`
	EntityLabels []EntityLabel `json:"entityLabels,omitempty" yaml:"entities"`
}

type LabelExampleResponse struct {
	UtteranceText string `json:"UtteranceText"`
	ExampleID     int64  `json:"ExampleId"`
}

// BatchLabelResult is one entry of a batch add response, in request order.
type BatchLabelResult struct {
	Value    *LabelExampleResponse `json:"value"`
	HasError bool                  `json:"hasError"`
	Error    *OperationStatus      `json:"error,omitempty"`
}

type IntentPrediction struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type EntityPrediction struct {
	EntityName      string `json:"entityName"`
	StartTokenIndex int    `json:"startTokenIndex"`
	EndTokenIndex   int    `json:"endTokenIndex"`
	Phrase          string `json:"phrase"`
}

// LabeledUtterance is an example as returned by the review listing.
type LabeledUtterance struct {
	ID                int64              `json:"id"`
	Text              string             `json:"text"`
	TokenizedText     []string           `json:"tokenizedText"`
	IntentLabel       string             `json:"intentLabel"`
	EntityLabels      []EntityPrediction `json:"entityLabels"`
	IntentPredictions []IntentPrediction `json:"intentPredictions"`
	EntityPredictions []EntityPrediction `json:"entityPredictions"`
}

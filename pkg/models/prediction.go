package models

type IntentScore struct {
	Intent string  `json:"intent"`
	Score  float64 `json:"score"`
}

type EntityMatch struct {
	Entity     string  `json:"entity"`
	Type       string  `json:"type"`
	StartIndex int     `json:"startIndex"`
	EndIndex   int     `json:"endIndex"`
	Score      float64 `json:"score,omitempty"`
}

// PredictionResult is the runtime endpoint's answer for one query.
type PredictionResult struct {
	Query            string        `json:"query"`
	TopScoringIntent *IntentScore  `json:"topScoringIntent,omitempty"`
	Intents          []IntentScore `json:"intents,omitempty"`
	Entities         []EntityMatch `json:"entities"`
}

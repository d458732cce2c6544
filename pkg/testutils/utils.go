package testutils

import (
	"time"

	"github.com/getzep/nlu-authoring/config"
)

const (
	TestAuthoringKey = "test-authoring-key"
	TestEndpointKey  = "test-endpoint-key"
)

// NewTestConfig returns a config pointing at serviceURL with the test keys.
func NewTestConfig(serviceURL string) *config.Config {
	return &config.Config{
		Authoring: config.AuthoringConfig{URL: serviceURL, Key: TestAuthoringKey},
		Endpoint:  config.EndpointConfig{URL: serviceURL, Key: TestEndpointKey},
		App: config.AppConfig{
			Name:          "TravelAgent",
			Description:   "test app",
			Culture:       "en-us",
			Domain:        "Travel",
			UsageScenario: "IoT",
			VersionID:     "0.1",
			PublishRegion: "westus",
		},
		Training: config.TrainingConfig{MaxWait: time.Minute, PollInterval: time.Millisecond},
		HTTP:     config.HTTPConfig{Timeout: 5 * time.Second, MaxRetryAttempts: 1},
		Workflow: config.WorkflowConfig{Cleanup: config.CleanupNone, Query: "book a flight to London"},
		Log:      config.LogConfig{Level: "debug"},
	}
}

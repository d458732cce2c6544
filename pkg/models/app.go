package models

import (
	"encoding/json"
	"time"
)

// Resource is anything the authoring service lists by name and identifies by an
// opaque id.
type Resource interface {
	ResourceID() string
	ResourceName() string
}

type ApplicationCreateObject struct {
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Culture          string `json:"culture"`
	Domain           string `json:"domain,omitempty"`
	UsageScenario    string `json:"usageScenario,omitempty"`
	InitialVersionID string `json:"initialVersionId,omitempty"`
}

type AppInfo struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Culture           string          `json:"culture"`
	UsageScenario     string          `json:"usageScenario"`
	Domain            string          `json:"domain"`
	VersionsCount     int             `json:"versionsCount"`
	CreatedDateTime   *time.Time      `json:"createdDateTime,omitempty"`
	Endpoints         json.RawMessage `json:"endpoints,omitempty"`
	EndpointHitsCount int             `json:"endpointHitsCount"`
	ActiveVersion     string          `json:"activeVersion"`
}

func (a AppInfo) ResourceID() string   { return a.ID }
func (a AppInfo) ResourceName() string { return a.Name }

type ApplicationPublishObject struct {
	VersionID string `json:"versionId"`
	IsStaging bool   `json:"isStaging"`
	Region    string `json:"region,omitempty"`
}

// PublishResult is the endpoint information returned after publishing.
type PublishResult struct {
	VersionID           string     `json:"versionId"`
	IsStaging           bool       `json:"isStaging"`
	EndpointURL         string     `json:"endpointUrl"`
	Region              string     `json:"region"`
	AssignedEndpointKey string     `json:"assignedEndpointKey"`
	EndpointRegion      string     `json:"endpointRegion"`
	PublishedDateTime   *time.Time `json:"publishedDateTime,omitempty"`
	FailedRegions       string     `json:"failedRegions"`
}

// OperationStatus is returned by delete calls.
type OperationStatus struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package config

import "fmt"

// Overridden at build time with -ldflags "-X github.com/getzep/nlu-authoring/config.Version=...".
var (
	Version    = "dev"
	CommitHash = "n/a"
	BuildTime  = "n/a"
)

var VersionString = fmt.Sprintf("%s-%s (%s)", Version, CommitHash, BuildTime)

// UserAgent is sent with every request to the service.
func UserAgent() string {
	return "nlu-authoring/" + Version
}

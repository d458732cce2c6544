package config

import "time"

// Config holds the configuration of the application
// Use config.LoadConfig to create a new instance
type Config struct {
	Authoring AuthoringConfig `mapstructure:"authoring" yaml:"authoring"`
	Endpoint  EndpointConfig  `mapstructure:"endpoint"  yaml:"endpoint"`
	App       AppConfig       `mapstructure:"app"       yaml:"app"`
	Training  TrainingConfig  `mapstructure:"training"  yaml:"training"`
	HTTP      HTTPConfig      `mapstructure:"http"      yaml:"http"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"  yaml:"workflow"`
	Log       LogConfig       `mapstructure:"log"       yaml:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"   yaml:"tracing"`
}

// AuthoringConfig points at the authoring API of a region.
type AuthoringConfig struct {
	URL string `mapstructure:"url" yaml:"url" validate:"required,url"`
	// Key is loaded from ENV (AuthoringKey) rather than the config file.
	Key string `mapstructure:"key" yaml:"key" validate:"required"`
}

// EndpointConfig points at the runtime prediction endpoint. URL defaults to the
// authoring URL.
type EndpointConfig struct {
	URL string `mapstructure:"url" yaml:"url" validate:"omitempty,url"`
	Key string `mapstructure:"key" yaml:"key"`
}

type AppConfig struct {
	Name          string `mapstructure:"name"           yaml:"name"           validate:"required"`
	Description   string `mapstructure:"description"    yaml:"description"`
	Culture       string `mapstructure:"culture"        yaml:"culture"        validate:"required"`
	Domain        string `mapstructure:"domain"         yaml:"domain"`
	UsageScenario string `mapstructure:"usage_scenario" yaml:"usage_scenario"`
	VersionID     string `mapstructure:"version_id"     yaml:"version_id"     validate:"required"`
	PublishRegion string `mapstructure:"publish_region" yaml:"publish_region"`
	IsStaging     bool   `mapstructure:"is_staging"     yaml:"is_staging"`
}

type TrainingConfig struct {
	// MaxWait bounds the status polling loop. Zero means the default.
	MaxWait      time.Duration `mapstructure:"max_wait"      yaml:"max_wait"      validate:"gte=0"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" validate:"gte=0"`
}

type HTTPConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"            yaml:"timeout"            validate:"gte=0"`
	MaxRetryAttempts int           `mapstructure:"max_retry_attempts" yaml:"max_retry_attempts" validate:"gte=0"`
}

type WorkflowConfig struct {
	// DefinitionFile is a YAML app definition. The embedded travel agent
	// definition is used when empty.
	DefinitionFile string `mapstructure:"definition_file" yaml:"definition_file"`
	Cleanup        string `mapstructure:"cleanup"         yaml:"cleanup"         validate:"omitempty,oneof=none resources app"`
	// Query is sent to the published model when an endpoint key is set.
	Query string `mapstructure:"query" yaml:"query"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}

// TracingConfig enables OTLP export of request spans. The collector is set
// with the standard OTEL_EXPORTER_OTLP_ENDPOINT variable.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"      yaml:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

const (
	CleanupNone      = "none"
	CleanupResources = "resources"
	CleanupApp       = "app"
)

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/getzep/nlu-authoring/internal"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

var validate = validator.New()

// envAliases are the plain environment keys accepted alongside the NLU_ prefixed ones.
var envAliases = map[string][]string{
	"authoring.url": {"NLU_AUTHORING_URL", "AuthoringUrl"},
	"authoring.key": {"NLU_AUTHORING_KEY", "AuthoringKey"},
	"endpoint.key":  {"NLU_ENDPOINT_KEY", "EndpointKey"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint.url", "")
	v.SetDefault("app.name", "TravelAgent")
	v.SetDefault("app.description", "Books flights and answers travel questions")
	v.SetDefault("app.culture", "en-us")
	v.SetDefault("app.domain", "Travel")
	v.SetDefault("app.usage_scenario", "IoT")
	v.SetDefault("app.version_id", "0.1")
	v.SetDefault("app.publish_region", "westus")
	v.SetDefault("app.is_staging", false)
	v.SetDefault("training.max_wait", 10*time.Minute)
	v.SetDefault("training.poll_interval", 500*time.Millisecond)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.max_retry_attempts", 3)
	v.SetDefault("workflow.definition_file", "")
	v.SetDefault("workflow.cleanup", CleanupNone)
	v.SetDefault("workflow.query", "find flights to London in February")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "nlu-authoring")
}

// LoadConfig loads the config file and ENV variables into a Config struct.
// A missing default config.yaml is not an error; a missing explicit file is.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetConfigType("yaml")

	v.SetEnvPrefix("NLU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
		log.Debug("no config file found, using defaults and environment")
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Endpoint.URL == "" {
		cfg.Endpoint.URL = cfg.Authoring.URL
	}

	return &cfg, nil
}

// Validate checks the loaded config against its struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level and format based on the config file. The level
// defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogFormat(cfg.Log.Format)
	internal.SetLogLevel(level)
	internal.GetLogger().Debug("Log level set to: ", level)
}

// Redacted returns a copy of cfg with secrets masked, suitable for printing.
func Redacted(cfg *Config) Config {
	out := *cfg
	out.Authoring.Key = mask(out.Authoring.Key)
	out.Endpoint.Key = mask(out.Endpoint.Key)
	return out
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/getzep/nlu-authoring/config"
	"github.com/getzep/nlu-authoring/internal"
	"github.com/getzep/nlu-authoring/pkg/authoring"
	"github.com/getzep/nlu-authoring/pkg/prediction"
	"github.com/getzep/nlu-authoring/pkg/workflow"
)

// run makes one pass over the app. Errors from the pass are logged and the
// process still exits normally; configuration errors are fatal.
func run() {
	cfg := loadConfig()

	log.Infof("Starting nlu-authoring version %s", config.VersionString)

	def, err := workflow.LoadDefinition(cfg.Workflow.DefinitionFile)
	if err != nil {
		log.Fatalf("Error loading app definition: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := setupTracing(ctx, cfg)
	defer shutdown()

	report, err := workflow.NewRunner(cfg, def).Run(ctx)
	if err != nil {
		log.Errorf("Workflow failed: %s", err)
	} else {
		report.Print(os.Stdout)
	}

	fmt.Println("Done.")
}

func query(text string) {
	cfg := loadConfig()
	if cfg.Endpoint.Key == "" {
		log.Fatal("endpoint.key must be set to query the published app")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := setupTracing(ctx, cfg)
	defer shutdown()

	appID := queryAppID
	if appID == "" {
		id, found, err := authoring.NewClient(cfg).FindApp(ctx, cfg.App.Name)
		if err != nil {
			log.Fatalf("Failed to look up app %s: %s", cfg.App.Name, err)
		}
		if !found {
			log.Fatalf("App %s not found", cfg.App.Name)
		}
		appID = id
	}

	result, err := prediction.NewClient(cfg).Query(ctx, appID, text)
	if err != nil {
		log.Fatal(err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

// setupTracing starts span export when enabled. The returned function flushes
// pending spans.
func setupTracing(ctx context.Context, cfg *config.Config) func() {
	if !cfg.Tracing.Enabled {
		return func() {}
	}

	shutdown, err := internal.InitTracing(ctx, cfg.Tracing.ServiceName)
	if err != nil {
		log.Errorf("Tracing disabled: %s", err)
		return func() {}
	}

	return func() {
		if err := shutdown(context.Background()); err != nil {
			log.Errorf("Error flushing traces: %s", err)
		}
	}
}

// loadConfig loads, overrides and validates the config, handling the flags
// that don't need the service.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring nlu-authoring: %s", err)
	}

	if err := applyOverrides(cfg); err != nil {
		log.Fatalf("Error applying flags: %s", err)
	}

	handleCLIOptions(cfg)

	config.SetLogLevel(cfg)

	if err := config.Validate(cfg); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// applyOverrides merges the non-empty flag values into cfg.
func applyOverrides(cfg *config.Config) error {
	overrides := config.Config{
		App: config.AppConfig{
			Name:      appName,
			VersionID: versionID,
		},
		Workflow: config.WorkflowConfig{
			DefinitionFile: definitionFile,
			Cleanup:        cleanup,
		},
	}
	return mergo.Merge(cfg, overrides, mergo.WithOverride)
}

// handleCLIOptions handles CLI options that don't require the service
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		out, err := yaml.Marshal(config.Redacted(cfg))
		if err != nil {
			log.Fatalf("Error dumping config: %s", err)
		}
		fmt.Print(string(out))
		os.Exit(0)
	}
}

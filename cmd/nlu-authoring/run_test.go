package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getzep/nlu-authoring/config"
	"github.com/getzep/nlu-authoring/pkg/testutils"
)

func TestApplyOverrides(t *testing.T) {
	t.Cleanup(func() {
		appName, versionID, definitionFile, cleanup = "", "", "", ""
	})

	t.Run("no flags keeps config", func(t *testing.T) {
		cfg := testutils.NewTestConfig("http://localhost")
		want := *cfg

		require.NoError(t, applyOverrides(cfg))
		assert.Equal(t, want, *cfg)
	})

	t.Run("flags override config", func(t *testing.T) {
		appName, versionID, cleanup = "FlightBot", "0.2", config.CleanupApp
		cfg := testutils.NewTestConfig("http://localhost")

		require.NoError(t, applyOverrides(cfg))
		assert.Equal(t, "FlightBot", cfg.App.Name)
		assert.Equal(t, "0.2", cfg.App.VersionID)
		assert.Equal(t, config.CleanupApp, cfg.Workflow.Cleanup)
		assert.Equal(t, "en-us", cfg.App.Culture)
		assert.Equal(t, testutils.TestAuthoringKey, cfg.Authoring.Key)
	})
}

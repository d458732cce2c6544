package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/getzep/nlu-authoring/config"
	"github.com/getzep/nlu-authoring/internal"
)

var (
	log *logrus.Logger

	cfgFile        string
	showVersion    bool
	dumpConfig     bool
	definitionFile string
	appName        string
	versionID      string
	cleanup        string
	queryAppID     string
)

var cmd = &cobra.Command{
	Use:   "nlu-authoring",
	Short: "nlu-authoring builds, trains and publishes an NLU app through the authoring API",
	Run:   func(cmd *cobra.Command, args []string) { run() },
}

var queryCmd = &cobra.Command{
	Use:     "query [text]",
	Short:   "Query the published app",
	Example: `nlu-authoring query "book a flight to London"`,
	Args:    cobra.ExactArgs(1),
	Run:     func(cmd *cobra.Command, args []string) { query(args[0]) },
}

var dumpJsonSchemaCmd = &cobra.Command{
	Use:     "json-schema",
	Short:   "Generates JSON Schema for the configuration file",
	Example: "nlu-authoring json-schema > config_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(schema))
		return nil
	},
}

func init() {
	cmd.AddCommand(queryCmd)
	cmd.AddCommand(dumpJsonSchemaCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")
	cmd.PersistentFlags().StringVar(&appName, "app-name", "", "app name, overrides app.name")
	cmd.PersistentFlags().StringVar(&versionID, "version-id", "", "app version, overrides app.version_id")

	cmd.Flags().StringVarP(&definitionFile, "definition", "f", "", "app definition file (default embedded travel agent)")
	cmd.Flags().StringVar(&cleanup, "cleanup", "", "what to delete after the run: none, resources or app")

	queryCmd.Flags().StringVar(&queryAppID, "app-id", "", "app id (default: look up app.name)")
}

// Execute executes the root cobra command.
func Execute() {
	log = internal.GetLogger()
	log.SetLevel(logrus.InfoLevel)

	err := cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}

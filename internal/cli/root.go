package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/lcacost/internal/config"
	"github.com/rshade/lcacost/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var (
	// logger is the package-level logger for CLI operations.
	logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration
	// baseLogger is logger without the cli component, handed to packages
	// that tag their own events.
	baseLogger zerolog.Logger //nolint:gochecknoglobals // Set with logger
)

// Persistent flag names shared by every command.
const (
	flagDebug      = "debug"
	flagConfig     = "config"
	flagProjectDir = "project-dir"
	flagDataset    = "dataset"
	flagCatalog    = "catalog"
	flagOutput     = "output"
	flagSelect     = "select"
	flagQuery      = "query"
)

// NewRootCmd creates the root Cobra command for the lcacost CLI. It wires
// configuration, logging and tracing, then the analysis, catalog, serve and
// config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "lcacost",
		Short:         "Compare lifecycle impacts and costs of building materials",
		Long:          "lcacost: lifecycle impact breakdowns, total cost of ownership, marginal abatement cost and payback for building assemblies",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	pf := cmd.PersistentFlags()
	pf.Bool(flagDebug, false, "enable debug logging")
	pf.String(flagConfig, "", "config file (default $LCACOST_HOME/config.yaml or ~/.lcacost/config.yaml)")
	pf.String(flagProjectDir, "", "project directory holding .lcacost/config.yaml (default: search upward)")
	pf.String(flagDataset, "", "material dataset file (YAML or JSON); default is the built-in table")
	pf.String(flagCatalog, "", "SQLite catalog to read materials from instead of a dataset file")
	pf.StringP(flagOutput, "o", "", "output format: table, json or csv (default from config)")
	pf.String(flagSelect, "", "comma-separated material names to compare (default: all)")
	pf.StringP(flagQuery, "q", "", "only include materials whose name contains this text")

	cmd.AddCommand(
		newMaterialsCmd(), newBreakdownCmd(), newTCOCmd(), newMACCmd(),
		newPaybackCmd(), newReportCmd(), newInsightsCmd(),
		newCatalogCmd(), newServeCmd(), newConfigCmd(),
	)
	return cmd
}

// loadConfig resolves the project directory and loads configuration fresh
// for this invocation. --config replaces the global file.
func loadConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	flagDir, _ := cmd.Flags().GetString(flagProjectDir)
	wd, _ := os.Getwd()
	projectDir := config.ResolveProjectDir(ctx, flagDir, wd)
	config.SetResolvedProjectDir(projectDir)

	path, _ := cmd.Flags().GetString(flagConfig)
	if path == "" {
		config.SetGlobalConfig(config.NewWithProjectDir(ctx, projectDir))
		return nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Phase breakdown of every built-in material in kg CO2e
  lcacost breakdown

  # Water use as percentages of each material's total
  lcacost breakdown --category water --chart percentage

  # Total cost of ownership over 50 years at 5%
  lcacost tco --horizon 50 --rate 5

  # Marginal abatement cost curve against a baseline
  lcacost mac --baseline "2x6 Wall"

  # Everything for two materials as JSON
  lcacost report --select "Rammed Earth,2x6 Wall" --baseline "2x6 Wall" -o json

  # Import a dataset into a catalog and analyze from it
  lcacost catalog import --dataset materials.yaml --catalog materials.db
  lcacost tco --catalog materials.db

  # Serve the JSON API
  lcacost serve --addr 127.0.0.1:8080`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		newConfigInitCmd(), newConfigGetCmd(), newConfigSetCmd(),
		newConfigListCmd(), newConfigValidateCmd(),
	)
	return cmd
}

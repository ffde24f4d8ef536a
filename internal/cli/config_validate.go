package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/config"
)

// newConfigValidateCmd creates the config validate command.
func newConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the merged global, project and environment configuration:
output format and precision, log level and format, analysis defaults and
the server address.`,
		Example: `  lcacost config validate
  lcacost config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			cmd.Printf("Configuration is valid\n")
			if verbose {
				printConfigValues(cmd, cfg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every effective value")
	return cmd
}

// newConfigGetCmd creates the config get command.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Print one configuration value",
		Example: `  lcacost config get analysis.horizon_years`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(v)
			return nil
		},
	}
}

// newConfigSetCmd creates the config set command. The change is validated
// before the global file is written.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one value in the global configuration file",
		Example: `  lcacost config set analysis.discount_rate_percent 5
  lcacost config set output.default_format json`,
		Args: cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("refusing to save invalid configuration: %w", err)
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			logger.Info().Ctx(cmd.Context()).
				Str("operation", "config_set").
				Str("key", args[0]).
				Str("path", cfg.ConfigPath()).
				Msg("configuration updated")
			cmd.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

// newConfigListCmd creates the config list command.
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every effective configuration value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			printConfigValues(cmd, config.GetGlobalConfig())
			return nil
		},
	}
}

func printConfigValues(cmd *cobra.Command, cfg *config.Config) {
	keys := config.Keys()
	slices.Sort(keys)
	for _, k := range keys {
		v, _ := cfg.Get(k)
		cmd.Printf("%s = %s\n", k, v)
	}
}

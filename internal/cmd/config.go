package cmd

import (
	"fmt"

	"github.com/Digital-Shane/title-lens/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(c *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the saved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		newConfigShowCommand(c),
		newConfigSetAliasesCommand(c),
		newConfigResetCommand(c),
	)
	return cmd
}

func newConfigShowCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as JSON: the saved file with defaults filled
in and TITLE_LENS_* environment overrides applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd, c.cfg)
		},
	}
}

func newConfigSetAliasesCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-aliases alias [alias...]",
		Short: "Replace the season folder keywords",
		Long: `Replace the keywords that mark a folder as a season, for example
"season", "staffel" or "s0". Matching ignores case.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.SetSeasonAliases(args); err != nil {
				return err
			}
			path, err := c.saveConfig(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %d season aliases to %s\n", c.theme.Icon("success"), len(cfg.SeasonAliases), path)
			return nil
		},
	}
}

func newConfigResetCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "reset",
		Short:       "Restore the default configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.saveConfig(config.DefaultConfig())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Restored defaults in %s\n", c.theme.Icon("success"), path)
			return nil
		},
	}
}

package cmd

import (
	"fmt"

	"github.com/Digital-Shane/title-lens/internal/log"
	"github.com/Digital-Shane/title-lens/internal/tui/report"

	"github.com/spf13/cobra"
)

func newHistoryCommand(c *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent analysis sessions",
		Long: `Show the analysis sessions recorded under ~/.title-lens/logs, newest first.

Sessions older than log_retention_days are removed automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := log.ReadSessions(limit)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if c.jsonOutput {
				if sessions == nil {
					sessions = []*log.LogSession{}
				}
				return writeJSON(cmd, sessions)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.RenderHistory(c.theme, sessions))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of sessions to show (0 for all)")
	return cmd
}

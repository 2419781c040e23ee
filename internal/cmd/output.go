package cmd

import (
	"encoding/json"
	"errors"

	"github.com/Digital-Shane/title-lens/internal/analyzer"
	"github.com/Digital-Shane/title-lens/internal/library"
	"github.com/Digital-Shane/title-lens/internal/metadata"

	"github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resultJSON is the JSON form of one scanned entry.
type resultJSON struct {
	Name      string             `json:"name"`
	Path      string             `json:"path"`
	Metadata  *metadata.Metadata `json:"metadata,omitempty"`
	Error     string             `json:"error,omitempty"`
	ErrorCode analyzer.Code      `json:"error_code,omitempty"`
}

func toResultJSON(results []library.Result) []resultJSON {
	out := make([]resultJSON, 0, len(results))
	for _, r := range results {
		item := resultJSON{Name: r.Name, Path: r.Path, Metadata: r.Metadata}
		if r.Err != nil {
			item.Error = r.Err.Error()
			var aerr *analyzer.Error
			if errors.As(r.Err, &aerr) {
				item.ErrorCode = aerr.Code
			}
		}
		out = append(out, item)
	}
	return out
}

// runProgram runs an interactive model full screen.
func runProgram(model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

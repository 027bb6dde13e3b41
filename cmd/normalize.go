package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/naka-gawa/github-skills/internal/normalize"
	"github.com/naka-gawa/github-skills/internal/scoring"
	"github.com/spf13/cobra"
)

type normalizeOutput struct {
	Repositories []domain.RepositoryRecord `json:"repositories"`
	Scores       map[string]float64        `json:"scores"`
	Warning      string                    `json:"warning,omitempty"`
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalizes and scores a saved GraphQL repository payload without touching storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := loadConfig(cmd, false)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("file")
		var data []byte
		if path == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}

		payload, err := normalize.Decode(data)
		if err != nil {
			return err
		}
		records, warning := normalize.Normalize(payload)
		out := normalizeOutput{Repositories: records, Scores: scoring.Compute(records)}
		if warning != nil {
			logger.Warn().Err(warning).Msg("some repositories could not be normalized")
			out.Warning = warning.Error()
		}
		return printJSON(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringP("file", "f", "", "Path to the payload JSON, or - for stdin (required)")
	normalizeCmd.MarkFlagRequired("file")
}

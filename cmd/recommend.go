package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Prints career recommendations for a synced user as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		view, _ := cmd.Flags().GetString("view")
		if view != "full" && view != "skills" && view != "careers" {
			return fmt.Errorf("invalid --view %q: use full, skills or careers", view)
		}

		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		username, _ := cmd.Flags().GetString("user")
		user, err := a.store.FindUserByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("failed to find user %s: %w", username, err)
		}

		switch view {
		case "skills":
			return printJSON(cmd, a.aggregator.SkillAnalysis(ctx, *user))
		case "careers":
			return printJSON(cmd, a.aggregator.CareerAnalysis(ctx, *user))
		default:
			return printJSON(cmd, a.aggregator.GetRecommendations(ctx, *user))
		}
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringP("user", "u", "", "Local user name (required)")
	recommendCmd.Flags().String("view", "full", "Which part to print: full, skills or careers")
	recommendCmd.MarkFlagRequired("user")
}

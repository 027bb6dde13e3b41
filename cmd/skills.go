package cmd

import (
	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Prints a user's stored skill scores and their summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		username, _ := cmd.Flags().GetString("user")
		p, err := a.portfolio.Get(cmd.Context(), username)
		if err != nil {
			return err
		}
		return printJSON(cmd, p)
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.Flags().StringP("user", "u", "", "Local user name (required)")
	skillsCmd.MarkFlagRequired("user")
}

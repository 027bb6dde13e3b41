package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetches a user's repositories from GitHub and updates their skill scores",
	Long: `Fetches the repositories of the account behind the access token, stores them
and recomputes the user's skill scores. The token is read from GITHUB_TOKEN; when
it is unset the token stored for the user is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		username, _ := cmd.Flags().GetString("user")
		user, err := a.store.FindUserByUsername(ctx, username)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			user = &domain.User{Username: username}
		case err != nil:
			return err
		}

		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			user.AccessToken = token
		}
		if !user.HasAccessToken() {
			return fmt.Errorf("no access token for %s: set the GITHUB_TOKEN environment variable", username)
		}
		if err := a.store.SaveUser(ctx, user); err != nil {
			return err
		}

		result, err := a.sync.Sync(ctx, user)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringP("user", "u", "", "Local user name to sync (required)")
	syncCmd.MarkFlagRequired("user")
}

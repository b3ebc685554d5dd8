// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "better-auth-admin",
	Short: "Better Auth Admin is a web dashboard for a better-auth server",
	Long: `Better Auth Admin is a web dashboard for the admin and organization
plugins of a better-auth server: users, sessions, bans, impersonation,
organizations, members and invitations.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

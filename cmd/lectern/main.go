package main

import (
	"os"

	"github.com/spf13/cobra"

	"lectern/internal/interfaces/cli/migrate"
	"lectern/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lectern",
		Short: "Lectern - course materials dashboard backend",
		Long:  `Lectern serves the authentication and session lifecycle for the course materials dashboard, with built-in server and migration commands.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "school-directory",
	Short: "School directory service",
	Long: `Accepts school submissions with an image and lists the directory.

Available subcommands:
  serve   - Run the HTTP API
  migrate - Create or update the schools table`,
	SilenceUsage: true,
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Migrate the schools table before serving")
	migrateCmd.Flags().BoolVar(&createDatabase, "create-database", false, "Create DB_NAME on the server first if it does not exist")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

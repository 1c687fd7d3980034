package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL      string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Strata - composable model mixins for PostgreSQL",
	Long: `Strata layers composable behaviors over a type-safe PostgreSQL model:
slug derivation, opaque global identifiers, and pluggable ID generation,
stacked onto a generic query builder.

Features:
  - Type-safe query builder with generics
  - Struct-tag based schemas with a central registry
  - Composable mixins: slugs, global IDs, ID generators
  - Full transaction support with savepoints`,
	Version: "0.4.1",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (required for database-backed commands)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

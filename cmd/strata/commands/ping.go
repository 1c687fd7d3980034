package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/strataorm/strata/cmd/strata/output"
	"github.com/strataorm/strata/pkg/runtime"
)

// pingCmd verifies database connectivity
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Verify database connectivity",
	Long: `Connect to the database and run a ping.

Examples:
  strata ping --db postgres://localhost:5432/myapp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dbURL == "" {
			return fmt.Errorf("--db is required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		start := time.Now()
		db, err := runtime.ConnectWithURL(ctx, dbURL)
		if err != nil {
			output.Error("connection failed: %v", err)
			return err
		}
		defer db.Close()

		if err := db.Ping(ctx); err != nil {
			output.Error("ping failed: %v", err)
			return err
		}

		output.Success("database reachable (%s)", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

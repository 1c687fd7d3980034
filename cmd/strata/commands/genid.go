package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/strataorm/strata/cmd/strata/output"
	"github.com/strataorm/strata/pkg/builder"
	"github.com/strataorm/strata/pkg/model"
	"github.com/strataorm/strata/pkg/runtime"
)

var (
	// genid flags
	genidTable     string
	genidPK        string
	genidStart     int64
	genidIncrement int64
	genidPrefix    string
	genidSeparator string
	genidPadding   int
	genidSuffix    int
)

// genidCmd groups ID generation strategies
var genidCmd = &cobra.Command{
	Use:   "genid",
	Short: "Generate primary keys with a named strategy",
	Long: `Generate a primary key using one of the ID generator strategies.

The numeric and prefixed strategies inspect the current maximum in a live
table and need --db, --table and --pk. The uuid and timestamp strategies
run offline.

Subcommands:
  uuid       - Random version-4 UUID
  timestamp  - Millisecond epoch, optionally with a random digit suffix
  numeric    - Sequential integer based on the table's current maximum
  prefixed   - PREFIX-0042 style sequential identifier`,
}

var genidUUIDCmd = &cobra.Command{
	Use:   "uuid",
	Short: "Generate a random UUID",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStrategy(model.UUIDStrategy{}, false)
	},
}

var genidTimestampCmd = &cobra.Command{
	Use:   "timestamp",
	Short: "Generate a timestamp-based ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStrategy(model.TimestampStrategy{RandomSuffixDigits: genidSuffix}, false)
	},
}

var genidNumericCmd = &cobra.Command{
	Use:   "numeric",
	Short: "Generate the next sequential integer ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStrategy(model.NumericStrategy{Start: genidStart, Increment: genidIncrement}, true)
	},
}

var genidPrefixedCmd = &cobra.Command{
	Use:   "prefixed",
	Short: "Generate the next prefixed sequential ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		if genidPrefix == "" {
			return fmt.Errorf("--prefix is required")
		}
		return runStrategy(model.PrefixedStrategy{
			Prefix:    genidPrefix,
			Separator: genidSeparator,
			Padding:   genidPadding,
			Increment: genidIncrement,
		}, true)
	},
}

func runStrategy(strategy model.IDStrategy, needsDB bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ref := model.ModelRef{Table: genidTable, PrimaryKey: genidPK}

	if needsDB {
		if dbURL == "" {
			return fmt.Errorf("--db is required for this strategy")
		}
		if genidTable == "" {
			return fmt.Errorf("--table is required for this strategy")
		}

		db, err := runtime.ConnectWithURL(ctx, dbURL)
		if err != nil {
			return err
		}
		defer db.Close()
		ref.DB = builder.New(db)
	}

	id, err := strategy.Generate(ctx, ref)
	if err != nil {
		return err
	}

	output.Result(fmt.Sprint(id))
	return nil
}

func init() {
	genidCmd.PersistentFlags().StringVar(&genidTable, "table", "", "Table to inspect for the current maximum")
	genidCmd.PersistentFlags().StringVar(&genidPK, "pk", "id", "Primary key column")
	genidCmd.PersistentFlags().Int64Var(&genidIncrement, "increment", 1, "Step between generated IDs")

	genidNumericCmd.Flags().Int64Var(&genidStart, "start", 0, "First ID for an empty table (default 1)")

	genidTimestampCmd.Flags().IntVar(&genidSuffix, "suffix", 0, "Random digits appended to the timestamp")

	genidPrefixedCmd.Flags().StringVar(&genidPrefix, "prefix", "", "Identifier prefix (required)")
	genidPrefixedCmd.Flags().StringVar(&genidSeparator, "separator", "-", "Separator between prefix and number")
	genidPrefixedCmd.Flags().IntVar(&genidPadding, "padding", 0, "Zero-pad the numeric part to this width")

	genidCmd.AddCommand(genidUUIDCmd)
	genidCmd.AddCommand(genidTimestampCmd)
	genidCmd.AddCommand(genidNumericCmd)
	genidCmd.AddCommand(genidPrefixedCmd)
	rootCmd.AddCommand(genidCmd)
}

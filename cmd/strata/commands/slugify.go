package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/strataorm/strata/cmd/strata/output"
	"github.com/strataorm/strata/pkg/model"
)

var (
	// Slugify flags
	slugSeparator  string
	slugCase       string
	slugTruncate   int
	slugDictionary []string
)

// slugifyCmd derives a slug from raw text
var slugifyCmd = &cobra.Command{
	Use:   "slugify TEXT",
	Short: "Derive a URL-safe slug from text",
	Long: `Derive a URL-safe slug from raw text using the same pipeline the slug
mixin applies on insert: dictionary substitution, casing, separator
collapsing and truncation.

Examples:
  strata slugify "This is a Test Title"
  strata slugify "C++ and JavaScript" --dict 'c\+\+=cpp' --dict 'javascript=js'
  strata slugify "A Very Long Title" --truncate 10
  strata slugify "Hello World" --separator _ --case upper`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSlugify(args[0])
	},
}

func runSlugify(text string) error {
	opts := model.SlugOptions{
		Separator: slugSeparator,
		Case:      model.SlugCase(slugCase),
		Truncate:  slugTruncate,
	}

	for _, entry := range slugDictionary {
		pattern, replacement, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("invalid dictionary entry %q, expected pattern=replacement", entry)
		}
		opts.Dictionary = append(opts.Dictionary, model.SlugRule{
			Pattern:     pattern,
			Replacement: replacement,
		})
	}

	slug := model.Slugify(text, opts)

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"input": text,
			"slug":  slug,
		})
	}

	if verbose {
		output.KeyValue("input", text)
		output.KeyValue("slug", slug)
		return nil
	}

	output.Result(slug)
	return nil
}

func init() {
	slugifyCmd.Flags().StringVar(&slugSeparator, "separator", "-", "Separator between slug words")
	slugifyCmd.Flags().StringVar(&slugCase, "case", "", "Casing: lower (default), upper, capitalize, none")
	slugifyCmd.Flags().IntVar(&slugTruncate, "truncate", 0, "Hard-cut the slug to this many characters (0 = no limit)")
	slugifyCmd.Flags().StringArrayVar(&slugDictionary, "dict", nil, "Dictionary substitution pattern=replacement (repeatable, applied in order)")

	rootCmd.AddCommand(slugifyCmd)
}

package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/gnosia/internal/model"
	"github.com/ppiankov/gnosia/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	mergeOut     string
	mergeCompact bool
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge <collection> [collection...]",
	Short: "Merge serialized knowledge collections without scanning",
	Long: `Merge deduplicates facts and items across knowledge collections by
content hash. Duplicate records keep the highest confidence and fitness
seen, union their origins, and take the most recent timestamp. Input
order does not affect the result.

Standard, trie-shaped, and sectioned manuscript layouts are recognized.
Corrupt collections are skipped with a warning.

Example:
  gnosia merge run1.json run2.json --json merged.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeOut, "json", "merged.json", "output JSON path")
	mergeCmd.Flags().BoolVar(&mergeCompact, "compact", false, "emit compact JSON instead of indented")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	cfg.Output.Pretty = !mergeCompact
	cfg.Cache.Enabled = false

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("pipeline init: %w", err)
	}

	result, err := p.MergeOnly(args)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.Pretty)
	if err := renderer.RenderJSON(result.KnowledgeBase, mergeOut); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	renderer.RenderSummary(os.Stdout, result)

	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/gnosia/internal/model"
	"github.com/ppiankov/gnosia/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON        string
	mergeWith      []string
	kbPath         string
	catalogPath    string
	cacheDir       string
	scanTimeout    time.Duration
	workers        int
	generations    int
	threshold      float64
	noCache        bool
	compact        bool
	oracleProvider string
	oracleModel    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Scan a corpus directory and build a knowledge base",
	Long: `Scan walks a directory of documents to:
- Extract category-pattern facts from text, markdown, and HTML
- Mine structural facts from JSON and YAML trees
- Corroborate categories against the validation oracle
- Filter facts by neighborhood fitness
- Merge with prior knowledge bases and emit aggregate statistics

Example:
  gnosia scan ./docs
  gnosia scan ./docs --json kb.json --merge-with prior.json
  gnosia scan ./docs --oracle openai --oracle-model gpt-4o-mini
  gnosia scan ./docs --kb gnosia.db --generations 3`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "knowledge.json", "output JSON path")
	scanCmd.Flags().StringSliceVar(&mergeWith, "merge-with", nil, "prior knowledge collections to merge in (repeatable)")
	scanCmd.Flags().StringVar(&kbPath, "kb", "", "SQLite knowledge base to merge with and persist to")
	scanCmd.Flags().BoolVar(&compact, "compact", false, "emit compact JSON instead of indented")

	// Extraction flags
	scanCmd.Flags().StringVar(&catalogPath, "catalog", "", "category catalog overlay (YAML)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 10*time.Minute, "overall scan timeout")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "extraction workers (0 = number of CPUs)")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache")
	scanCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "extraction cache directory")

	// Scoring flags
	scanCmd.Flags().Float64Var(&threshold, "threshold", 0, "survival threshold override (0 = default)")
	scanCmd.Flags().IntVar(&generations, "generations", 0, "filter generations override (0 = default)")

	// Oracle flags
	scanCmd.Flags().StringVar(&oracleProvider, "oracle", "static", "validation oracle provider (static, openai)")
	scanCmd.Flags().StringVar(&oracleModel, "oracle-model", "gpt-4o-mini", "remote oracle model name")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", root)
		fmt.Fprintf(os.Stderr, "Oracle: %s\n", oracleProvider)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.Extraction.CatalogPath = catalogPath
	cfg.Concurrency.Workers = workers
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Output.Verbose = verbose
	cfg.Output.Pretty = !compact
	cfg.Output.KBPath = kbPath
	if threshold > 0 {
		cfg.Scoring.SurvivalThreshold = threshold
	}
	if generations > 0 {
		cfg.Scoring.Generations = generations
	}

	cfg.Oracle.Provider = oracleProvider
	if oracleProvider == "openai" {
		cfg.Oracle.Model = oracleModel
		cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Oracle.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	// Create pipeline
	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("pipeline init: %w", err)
	}

	result, err := p.Run(ctx, root, mergeWith)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Kept %d facts\n", len(result.KnowledgeBase.Collections.Facts))
		fmt.Fprintf(os.Stderr, "✓ Validation ratio: %.2f\n", result.KnowledgeBase.Meta.ValidationRatio)
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(cfg.Output.Pretty)
	if err := renderer.RenderJSON(result.KnowledgeBase, outJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	renderer.RenderSummary(os.Stdout, result)

	return nil
}

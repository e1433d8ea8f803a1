package cli

import (
	"fmt"
	"strings"

	"github.com/ppiankov/gnosia/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogOverlay string

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the category catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog categories",
	Long:  `Display every category with its rank, keywords, and dependencies, after applying any overlay file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(catalogOverlay)
		if err != nil {
			return err
		}

		for _, c := range cat.Categories() {
			fmt.Printf("%-24s rank=%d", c.ID, c.Rank)
			if c.ExternallyValidated {
				fmt.Printf(" external")
			}
			fmt.Println()
			if len(c.Keywords) > 0 {
				fmt.Printf("  keywords:     %s\n", strings.Join(c.Keywords, ", "))
			}
			if len(c.Dependencies) > 0 {
				fmt.Printf("  dependencies: %s\n", strings.Join(c.Dependencies, ", "))
			}
		}

		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the catalog",
	Long:  `Check the catalog for duplicate identifiers and dangling dependencies. Exits non-zero on the first defect found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(catalogOverlay)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Catalog valid: %d categories\n", cat.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogValidateCmd)

	catalogCmd.PersistentFlags().StringVar(&catalogOverlay, "catalog", "", "category catalog overlay (YAML)")
}

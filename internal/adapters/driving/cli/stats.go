package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show local index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	stats, err := indexerService.Stats(cmd.Context(), domain.SourceEdinet)
	if err != nil {
		return fmt.Errorf("reading index statistics: %w", err)
	}

	cmd.Printf("Source: %s\n", stats.Source)
	cmd.Printf("Documents: %d\n", stats.Total)
	if stats.Total == 0 {
		cmd.Println("The index is empty. Run 'filings index' to build it.")
		return nil
	}

	cmd.Printf("Date range: %s to %s\n",
		stats.DateMin.Format(domain.DateLayout), stats.DateMax.Format(domain.DateLayout))

	if len(stats.TopCompanies) > 0 {
		cmd.Println("\nTop companies:")
		for _, company := range stats.TopCompanies {
			cmd.Printf("  %5d  %s\n", company.Count, company.CompanyName)
		}
	}
	return nil
}

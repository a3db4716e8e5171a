package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

var (
	indexFrom string
	indexTo   string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the local filing index for a date range",
	Long: `Crawls the EDINET daily listing for every weekday in the given range
and upserts the filings into the local index. Weekend dates are skipped
and a failed date is logged and skipped rather than aborting the run.`,
	RunE: runIndex,
}

var updateDays int

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh the index for the last N days",
	RunE:  runUpdate,
}

func init() {
	indexCmd.Flags().StringVar(&indexFrom, "from", "", "start date (YYYY-MM-DD)")
	indexCmd.Flags().StringVar(&indexTo, "to", "", "end date (YYYY-MM-DD, default today)")
	_ = indexCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(indexCmd)

	updateCmd.Flags().IntVar(&updateDays, "days", 7, "number of days back to refresh")
	rootCmd.AddCommand(updateCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	from, err := time.Parse(domain.DateLayout, indexFrom)
	if err != nil {
		return fmt.Errorf("invalid --from date %q: %w", indexFrom, err)
	}

	to := time.Now().UTC()
	if indexTo != "" {
		to, err = time.Parse(domain.DateLayout, indexTo)
		if err != nil {
			return fmt.Errorf("invalid --to date %q: %w", indexTo, err)
		}
	}

	count, err := indexerService.BuildIndexByDate(cmd.Context(), from, to)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	cmd.Printf("Indexed %d documents.\n", count)
	return nil
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	count, err := indexerService.UpdateIndex(cmd.Context(), updateDays)
	if err != nil {
		return fmt.Errorf("index update failed: %w", err)
	}

	cmd.Printf("Indexed %d documents over the last %d days.\n", count, updateDays)
	return nil
}

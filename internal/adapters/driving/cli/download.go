package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driving"
)

var (
	downloadTicker string
	downloadType   string
	downloadFrom   string
	downloadTo     string
	downloadLimit  int
)

var downloadCmd = &cobra.Command{
	Use:   "download [document-id]...",
	Short: "Download filing archives",
	Long: `Downloads the archives for the given indexed documents and waits for
the transfers to finish. With --ticker, downloads every indexed filing
matching the filters instead of explicit document IDs. Downloads run
concurrently up to the configured limit; documents beyond the limit
are started as slots free up.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&downloadTicker, "ticker", "", "download all indexed filings for a ticker")
	downloadCmd.Flags().StringVar(&downloadType, "type", "", "restrict batch downloads to one filing type")
	downloadCmd.Flags().StringVar(&downloadFrom, "from", "", "earliest filing date for batch downloads (YYYY-MM-DD)")
	downloadCmd.Flags().StringVar(&downloadTo, "to", "", "latest filing date for batch downloads (YYYY-MM-DD)")
	downloadCmd.Flags().IntVarP(&downloadLimit, "limit", "n", 0, "maximum filings per batch download")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	if downloadService == nil || documentStore == nil {
		return errors.New("download service not configured")
	}

	ctx := cmd.Context()

	if downloadTicker != "" {
		return runBatchDownload(cmd)
	}
	if len(args) == 0 {
		return errors.New("provide document IDs or --ticker")
	}

	remaining := args
	failed := 0

	for len(remaining) > 0 {
		id := remaining[0]

		doc, err := documentStore.Get(ctx, id)
		if err != nil {
			cmd.Printf("  %s: not in index (%v)\n", id, err)
			remaining = remaining[1:]
			failed++
			continue
		}

		if downloadService.IsDownloaded(doc) {
			cmd.Printf("  %s: already downloaded\n", doc.Key())
			remaining = remaining[1:]
			continue
		}

		if _, err := downloadService.Start(ctx, doc); err != nil {
			if errors.Is(err, domain.ErrTooManyDownloads) {
				// At capacity; wait for the current batch before retrying.
				if waitErr := downloadService.Wait(ctx); waitErr != nil {
					return waitErr
				}
				continue
			}
			return err
		}

		cmd.Printf("  %s: started\n", doc.Key())
		remaining = remaining[1:]
	}

	if err := downloadService.Wait(ctx); err != nil {
		return err
	}

	for _, progress := range downloadService.All() {
		if progress.State == driving.DownloadCompleted {
			cmd.Printf("  %s: %s -> %s\n", progress.DocumentKey, progress.State, progress.Path)
		} else {
			cmd.Printf("  %s: %s (%s)\n", progress.DocumentKey, progress.State, progress.Message)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(args))
	}
	return nil
}

// runBatchDownload resolves filings from the local index and drains
// them through the download pool.
func runBatchDownload(cmd *cobra.Command) error {
	ctx := cmd.Context()

	req := domain.DownloadRequest{
		Source: domain.SourceEdinet,
		Ticker: downloadTicker,
		Limit:  downloadLimit,
		Format: domain.FormatComplete,
	}
	if downloadType != "" {
		ft := domain.ParseFilingType(downloadType)
		req.FilingType = &ft
	}
	if downloadFrom != "" {
		from, err := time.Parse(domain.DateLayout, downloadFrom)
		if err != nil {
			return fmt.Errorf("invalid --from date %q: %w", downloadFrom, err)
		}
		req.DateFrom = &from
	}
	if downloadTo != "" {
		to, err := time.Parse(domain.DateLayout, downloadTo)
		if err != nil {
			return fmt.Errorf("invalid --to date %q: %w", downloadTo, err)
		}
		req.DateTo = &to
	}

	keys, err := downloadService.StartBatch(ctx, req)
	if err != nil {
		return fmt.Errorf("batch download failed: %w", err)
	}
	if len(keys) == 0 {
		cmd.Println("Nothing to download.")
		return nil
	}

	if err := downloadService.Wait(ctx); err != nil {
		return err
	}

	failed := 0
	for _, progress := range downloadService.All() {
		if progress.State == driving.DownloadCompleted {
			cmd.Printf("  %s: %s -> %s\n", progress.DocumentKey, progress.State, progress.Path)
		} else {
			cmd.Printf("  %s: %s (%s)\n", progress.DocumentKey, progress.State, progress.Message)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(keys))
	}
	return nil
}

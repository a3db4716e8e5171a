package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

var (
	searchTicker  string
	searchCompany string
	searchType    string
	searchSource  string
	searchFrom    string
	searchTo      string
	searchLimit   int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search the local filing index",
	Long: `Searches the local index with optional filters. The positional text
argument matches against company names and indexed content previews.
All filters combine with AND; no filters lists the most recent filings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchTicker, "ticker", "", "filter by ticker")
	searchCmd.Flags().StringVar(&searchCompany, "company", "", "filter by company name substring")
	searchCmd.Flags().StringVar(&searchType, "type", "", "filter by filing type")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "filter by source")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "earliest filing date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "latest filing date (YYYY-MM-DD)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query, err := buildSearchQuery(args)
	if err != nil {
		return err
	}

	docs, err := searchService.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, docs)
	}
	return outputSearchTable(cmd, docs)
}

func buildSearchQuery(args []string) (domain.SearchQuery, error) {
	var query domain.SearchQuery

	if len(args) > 0 && args[0] != "" {
		query.TextQuery = &args[0]
	}
	if searchTicker != "" {
		query.Ticker = &searchTicker
	}
	if searchCompany != "" {
		query.CompanyName = &searchCompany
	}
	if searchType != "" {
		ft := domain.ParseFilingType(searchType)
		query.FilingType = &ft
	}
	if searchSource != "" {
		src := domain.ParseSource(searchSource)
		query.Source = &src
	}
	if searchFrom != "" {
		from, err := time.Parse(domain.DateLayout, searchFrom)
		if err != nil {
			return query, fmt.Errorf("invalid --from date %q: %w", searchFrom, err)
		}
		query.DateFrom = &from
	}
	if searchTo != "" {
		to, err := time.Parse(domain.DateLayout, searchTo)
		if err != nil {
			return query, fmt.Errorf("invalid --to date %q: %w", searchTo, err)
		}
		query.DateTo = &to
	}
	return query, nil
}

func outputSearchJSON(cmd *cobra.Command, docs []domain.Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, docs []domain.Document) error {
	if len(docs) == 0 {
		cmd.Println("No filings found.")
		return nil
	}

	cmd.Printf("Found %d filings:\n\n", len(docs))
	for i := range docs {
		doc := &docs[i]
		cmd.Printf("  [%d] %s  %s  %s\n", i+1, doc.DateString(), doc.Ticker, doc.CompanyName)
		cmd.Printf("      %s (%s)  id=%s\n", doc.FilingType, doc.Format, doc.ID)
		if desc := doc.Metadata["doc_description"]; desc != "" {
			cmd.Printf("      %s\n", desc)
		}
		cmd.Println()
	}
	return nil
}

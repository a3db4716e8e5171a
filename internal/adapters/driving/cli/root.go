// Package cli provides the cobra command surface for filings-cli.
// Commands hold no business logic; they parse flags, call the driving
// ports and render the results.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/filings-cli/internal/core/ports/driven"
	"github.com/custodia-labs/filings-cli/internal/core/ports/driving"
	"github.com/custodia-labs/filings-cli/internal/logger"
)

// version is the build version, overridable at link time.
var version = "dev"

// Injected services. Set through SetServices before Execute; commands
// fail with a configuration error when their service is missing.
var (
	indexerService  driving.IndexerService
	searchService   driving.SearchService
	downloadService driving.DownloadService
	contentService  driving.ContentService
	documentStore   driven.DocumentStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "filings",
	Short: "Index, search and read corporate disclosure filings",
	Long: `filings builds a local index of corporate disclosure filings from the
EDINET API, downloads filing archives and extracts readable sections
from them. All queries run against the local SQLite index.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

// Services holds the ports the commands depend on.
type Services struct {
	Indexer  driving.IndexerService
	Search   driving.SearchService
	Download driving.DownloadService
	Content  driving.ContentService
	Store    driven.DocumentStore
}

// SetServices wires the ports into the command tree.
func SetServices(s Services) {
	indexerService = s.Indexer
	searchService = s.Search
	downloadService = s.Download
	contentService = s.Content
	documentStore = s.Store
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

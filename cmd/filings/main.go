// Command filings is the entry point for the filings CLI. It assembles
// the adapters and core services, wires them into the command tree and
// runs it.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/filings-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/filings-cli/internal/adapters/driven/edinet"
	"github.com/custodia-labs/filings-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/filings-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/filings-cli/internal/archive"
	"github.com/custodia-labs/filings-cli/internal/core/services"
	edinetnorm "github.com/custodia-labs/filings-cli/internal/normalisers/edinet"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	cfg, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer store.Close()

	client := edinet.NewClient(cfg)
	normaliser := edinetnorm.New()
	reader := archive.NewReader()

	content := services.NewContent(reader, store, cfg)
	defer content.Close()

	cli.SetServices(cli.Services{
		Indexer:  services.NewIndexer(client, store, normaliser, cfg),
		Search:   services.NewSearch(store),
		Download: services.NewDownloads(client, store, cfg),
		Content:  content,
		Store:    store,
	})

	return cli.Execute()
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

var readQuiet bool

var readCmd = &cobra.Command{
	Use:   "read <document-id>",
	Short: "Read extracted sections of a downloaded filing",
	Long: `Extracts and prints the readable sections of a downloaded filing
archive. The archive must have been fetched with 'filings download'
first. Section text is truncated to the configured preview length.`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	readCmd.Flags().BoolVar(&readQuiet, "no-truncate-note", false, "omit the truncation notice under each section")
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	if contentService == nil || documentStore == nil {
		return errors.New("content service not configured")
	}

	ctx := cmd.Context()

	doc, err := documentStore.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("document %s: %w", args[0], err)
	}

	sections, err := contentService.Load(ctx, doc)
	if err != nil {
		if errors.Is(err, domain.ErrNotDownloaded) {
			return fmt.Errorf("archive for %s is not downloaded; run 'filings download %s' first",
				doc.Key(), doc.ID)
		}
		return err
	}
	if len(sections) == 0 {
		cmd.Println("No readable sections in the archive.")
		return nil
	}

	cmd.Printf("%s  %s  %s (%s)\n", doc.DateString(), doc.CompanyName, doc.FilingType, doc.Format)
	for _, section := range sections {
		cmd.Printf("\n--- %s (%s) ---\n", section.SectionType, section.Filename)
		cmd.Println(section.Content)
		if !readQuiet && section.FullLength > len(section.Content) {
			cmd.Printf("[truncated, %d characters in full]\n", section.FullLength)
		}
	}
	return nil
}

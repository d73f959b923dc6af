package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Fetch documents and build the embedding index",
	Long: `Fetches documents from the configured source, splits them into
chunks and embeds each chunk into the local cache. Chunks whose content
is already cached under the active provider are skipped, so re-indexing
unchanged documents costs nothing.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	ctx := cmd.Context()

	cmd.Println("Fetching documents...")
	docs, err := documentSource.FetchDocuments(ctx)
	if err != nil {
		return fmt.Errorf("fetching documents: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}
	cmd.Printf("Indexing %d documents...\n", len(docs))

	summary, err := pipelineService.Index(ctx, docs)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %d documents: %d chunks (%d embedded, %d cached)\n",
		summary.DocumentsIndexed, summary.ChunksProcessed,
		summary.ChunksEmbedded, summary.ChunksSkipped)
	return nil
}

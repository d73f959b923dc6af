package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show embedding cache statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	stats, err := pipelineService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	cmd.Printf("Cached embeddings: %d\n", stats.Records)
	cmd.Printf("Documents indexed: %d\n", stats.DocumentsIndexed)
	if len(stats.ProvidersUsed) > 0 {
		cmd.Printf("Providers: %s\n", strings.Join(stats.ProvidersUsed, ", "))
	}
	return nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryTopK int

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Embeds the question, retrieves the most similar indexed chunks and
generates an answer grounded in them. Source references are listed
below the answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is empty")
	}

	k := queryTopK
	if k <= 0 {
		k = settings.Retrieval.TopK
	}
	if k <= 0 {
		k = 5
	}

	answer, err := pipelineService.Query(cmd.Context(), question, k)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range answer.Sources {
			title := src.DocumentTitle
			if title == "" {
				title = src.DocumentID
			}
			cmd.Printf("  [%d] %s (chunk %d, score %.2f)\n", i+1, title, src.Position, src.Score)
		}
	}
	return nil
}

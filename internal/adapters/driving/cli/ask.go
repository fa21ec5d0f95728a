package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

var (
	askOwner   string
	askTopK    int
	askDocIDs  []string
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Retrieves the most relevant passages from the owner's documents and
streams a grounded answer to the terminal. The answer uses only the
retrieved context; when the documents do not cover the question, the
model says so.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askOwner, "owner", "o", "", "owner namespace (default: configured default owner)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve (default: configured top_k)")
	askCmd.Flags().StringArrayVar(&askDocIDs, "doc", nil, "restrict retrieval to a document id (repeatable)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "print retrieved sources before the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if generationService == nil {
		return errors.New("generation service not configured")
	}

	query := args[0]
	owner := resolveOwner(askOwner)
	ctx := cmd.Context()

	passages, err := retrievalService.Retrieve(ctx, query, owner, domain.RetrieveOptions{
		TopK:   askTopK,
		DocIDs: askDocIDs,
	})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if len(passages) == 0 {
		cmd.Println("No relevant documents found for the query.")
		cmd.Println("Ingest some documents first with 'documind ingest'.")
		return nil
	}

	if askSources {
		printSources(cmd, passages)
	}

	for event := range generationService.Stream(ctx, query, passages) {
		switch {
		case event.Err != nil:
			cmd.Println()
			return fmt.Errorf("generation failed: %w", event.Err)
		case event.Done:
			cmd.Println()
		default:
			cmd.Print(event.Token)
		}
	}

	return nil
}

// printSources lists the retrieved passages feeding the answer.
func printSources(cmd *cobra.Command, passages []domain.Passage) {
	cmd.Println("Sources:")
	for i, p := range passages {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, p.Filename(), p.Score)
	}
	cmd.Println()
}

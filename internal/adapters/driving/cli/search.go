package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

var (
	searchOwner string
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search your documents",
	Long: `Performs semantic search across the owner's documents and prints the
most relevant passages. Near-duplicate passages are filtered so the
results cover distinct content.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchOwner, "owner", "o", "", "owner namespace (default: configured default owner)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default: configured search top_k)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	query := args[0]
	owner := resolveOwner(searchOwner)

	passages, err := retrievalService.SearchDocuments(cmd.Context(), query, owner, domain.RetrieveOptions{
		TopK: searchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, passages)
	}

	return outputSearchTable(cmd, passages)
}

// searchResult is the JSON output shape for one search hit.
type searchResult struct {
	DocID    string  `json:"doc_id"`
	ChunkID  string  `json:"chunk_id"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
	Content  string  `json:"content"`
}

func outputSearchJSON(cmd *cobra.Command, passages []domain.Passage) error {
	results := make([]searchResult, 0, len(passages))
	for _, p := range passages {
		results = append(results, searchResult{
			DocID:    p.DocID,
			ChunkID:  p.ChunkID,
			Filename: p.Filename(),
			Score:    p.Score,
			Content:  p.Content,
		})
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, passages []domain.Passage) error {
	if len(passages) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, p := range passages {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, p.Filename(), p.Score)
		cmd.Printf("      %s\n", snippet(p.Content, 160))
		cmd.Println()
	}

	return nil
}

// snippet truncates content to a display-friendly length.
func snippet(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}

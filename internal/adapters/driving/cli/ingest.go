package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

var (
	ingestOwner    string
	ingestDocID    string
	ingestMetadata []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest text files into the index",
	Long: `Reads one or more plain-text files, splits them into chunks, embeds
them and stores them in the owner's namespace. Each file becomes one
document; a document id is generated unless --doc-id is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestOwner, "owner", "o", "", "owner namespace (default: configured default owner)")
	ingestCmd.Flags().StringVar(&ingestDocID, "doc-id", "", "document id (only valid with a single file)")
	ingestCmd.Flags().StringArrayVarP(&ingestMetadata, "meta", "m", nil, "extra metadata as key=value (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}
	if ingestDocID != "" && len(args) > 1 {
		return errors.New("--doc-id can only be used with a single file")
	}

	metadata, err := parseMetadata(ingestMetadata)
	if err != nil {
		return err
	}

	owner := resolveOwner(ingestOwner)
	ctx := cmd.Context()

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		result, err := ingestionService.Ingest(ctx, domain.IngestRequest{
			Text:     string(data),
			DocID:    ingestDocID,
			Owner:    owner,
			Filename: filepath.Base(path),
			FileSize: int64(len(data)),
			Metadata: metadata,
		})
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		cmd.Printf("Ingested %s: %d chunks (doc %s)\n", path, result.ChunksCreated, result.DocID)
	}

	return nil
}

// parseMetadata converts repeated key=value flags into a map.
func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	metadata := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q, expected key=value", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}

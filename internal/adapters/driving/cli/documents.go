package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsOwner string

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage ingested documents",
	Long:    `List, inspect, or delete documents in an owner's namespace.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsGet,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its chunks",
	Long:  `Removes the document record and every chunk it owns from the index.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

func init() {
	documentsCmd.PersistentFlags().StringVarP(&documentsOwner, "owner", "o", "", "owner namespace (default: configured default owner)")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsGetCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	owner := resolveOwner(documentsOwner)

	docs, err := documentService.List(cmd.Context(), owner)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents found for owner: %s\n", owner)
		return nil
	}

	cmd.Printf("Documents for owner %s:\n\n", owner)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Filename: %s\n", docs[i].Filename)
		cmd.Printf("    Chunks:   %d\n", docs[i].ChunkCount)
		cmd.Printf("    Uploaded: %s\n", docs[i].UploadedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentsGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	owner := resolveOwner(documentsOwner)

	doc, err := documentService.Get(cmd.Context(), owner, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Owner:     %s\n", doc.Owner)
	cmd.Printf("  Filename:  %s\n", doc.Filename)
	cmd.Printf("  File size: %d bytes\n", doc.FileSize)
	cmd.Printf("  Chunks:    %d\n", doc.ChunkCount)
	cmd.Printf("  Uploaded:  %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	owner := resolveOwner(documentsOwner)

	if err := documentService.Delete(cmd.Context(), owner, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", docID)
	return nil
}

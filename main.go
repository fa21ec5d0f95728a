// Command documind is a personal document Q&A tool. It ingests text
// documents into a per-owner vector index and answers questions about
// them with retrieval-augmented generation.
package main

import (
	"fmt"
	"os"

	"github.com/documind-labs/documind-cli/internal/adapters/driven/ai"
	"github.com/documind-labs/documind-cli/internal/adapters/driven/config/file"
	"github.com/documind-labs/documind-cli/internal/adapters/driven/storage/sqlite"
	"github.com/documind-labs/documind-cli/internal/adapters/driving/cli"
	"github.com/documind-labs/documind-cli/internal/chunker"
	"github.com/documind-labs/documind-cli/internal/core/services"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("init config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	// Construction is cheap: the embedding adapter defers connectivity
	// checks to first use and the LLM adapter is a plain HTTP client,
	// so commands that never touch a provider start instantly.
	embeddingService, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}
	llmService, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		return fmt.Errorf("create LLM service: %w", err)
	}

	docStore := store.DocumentStore()
	vectorIndex := store.VectorIndex()

	svcs := cli.Services{
		Generation:   services.NewGenerationService(llmService),
		Document:     services.NewDocumentService(docStore, vectorIndex),
		Settings:     settingsService,
		DefaultOwner: settings.DefaultOwner,
	}

	// Without an embedding provider the index cannot be written or
	// queried; the commands then report themselves as not configured.
	if embeddingService != nil {
		splitter := chunker.New(
			chunker.WithTargetSize(settings.Chunking.TargetSize),
			chunker.WithOverlap(settings.Chunking.Overlap),
		)
		svcs.Ingestion = services.NewIngestionService(splitter, embeddingService, vectorIndex, docStore)
		svcs.Retrieval = services.NewRetrievalService(embeddingService, vectorIndex, settings.Retrieval)
	}

	cli.SetVersion(version)
	cli.SetServices(svcs)
	return cli.Execute()
}

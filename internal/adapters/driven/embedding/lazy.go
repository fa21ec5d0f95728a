// Package embedding provides shared embedding service plumbing used by
// the provider-specific adapters in its subpackages.
package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
	"github.com/documind-labs/documind-cli/internal/logger"
)

// Ensure Lazy implements the interface.
var _ driven.EmbeddingService = (*Lazy)(nil)

// Factory constructs the underlying embedding service on first use.
type Factory func(ctx context.Context) (driven.EmbeddingService, error)

// Lazy defers embedding service construction until the first call that
// needs it, so commands that never embed anything do not pay model
// startup or connection cost. Construction happens exactly once; a
// failure is sticky and every subsequent call reports
// domain.ErrModelUnavailable without retrying.
type Lazy struct {
	factory Factory

	// mu guards initialization and every read of service and initErr,
	// so metadata calls racing the first embed never observe a
	// half-published service.
	mu      sync.Mutex
	started bool
	service driven.EmbeddingService
	initErr error

	// dimensions and model describe the configured service before it
	// is constructed.
	dimensions int
	model      string
}

// NewLazy wraps a factory in a lazily initialized embedding service.
// The dimensions and model are advertised before initialization so
// callers can size storage without forcing construction.
func NewLazy(factory Factory, dimensions int, model string) *Lazy {
	return &Lazy{
		factory:    factory,
		dimensions: dimensions,
		model:      model,
	}
}

// get initializes the underlying service on first call. Concurrent
// first-use callers block until the single construction attempt
// finishes.
func (l *Lazy) get(ctx context.Context) (driven.EmbeddingService, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		l.started = true
		logger.Debug("Initializing embedding service: %s", l.model)
		service, err := l.factory(ctx)
		if err != nil {
			logger.Warn("Embedding service initialization failed: %v", err)
			l.initErr = fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
		} else {
			l.service = service
		}
	}

	if l.initErr != nil {
		return nil, l.initErr
	}
	return l.service, nil
}

// current returns the initialized service, or nil if construction has
// not happened or failed.
func (l *Lazy) current() driven.EmbeddingService {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.service
}

// Embed generates a vector embedding for the given text.
func (l *Lazy) Embed(ctx context.Context, text string) ([]float32, error) {
	service, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return service.Embed(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts.
func (l *Lazy) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	service, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return service.EmbedBatch(ctx, texts)
}

// Dimensions returns the embedding vector size.
func (l *Lazy) Dimensions() int {
	if service := l.current(); service != nil {
		return service.Dimensions()
	}
	return l.dimensions
}

// ModelName returns the name of the embedding model being used.
func (l *Lazy) ModelName() string {
	if service := l.current(); service != nil {
		return service.ModelName()
	}
	return l.model
}

// Ping forces initialization and validates the underlying service.
func (l *Lazy) Ping(ctx context.Context) error {
	service, err := l.get(ctx)
	if err != nil {
		return err
	}
	return service.Ping(ctx)
}

// Close releases the underlying service if it was ever constructed.
func (l *Lazy) Close() error {
	if service := l.current(); service != nil {
		return service.Close()
	}
	return nil
}

// Package memory provides an in-memory vector index with per-owner
// namespaces. It backs tests and ephemeral sessions; the sqlite
// adapter provides the persistent equivalent.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// entry is one stored vector with its payload.
type entry struct {
	id        string
	embedding []float32
	content   string
	metadata  map[string]string
}

// VectorIndex stores embeddings in per-owner namespaces and answers
// nearest-neighbour queries by brute-force cosine distance. Insertion
// order breaks distance ties, so repeated queries over unchanged data
// return identical orderings.
type VectorIndex struct {
	mu         sync.RWMutex
	namespaces map[string][]entry
}

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		namespaces: make(map[string][]entry),
	}
}

// Add stores entries under the owner's namespace. The write is
// all-or-nothing: every entry is validated against the namespace
// before anything is stored, so a duplicate ID or a dimension mismatch
// anywhere in the batch leaves the namespace untouched.
func (idx *VectorIndex) Add(_ context.Context, owner string, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	existing := idx.namespaces[owner]

	dims := 0
	if len(existing) > 0 {
		dims = len(existing[0].embedding)
	}

	ids := make(map[string]struct{}, len(existing)+len(entries))
	for _, e := range existing {
		ids[e.id] = struct{}{}
	}

	for _, in := range entries {
		if _, dup := ids[in.ID]; dup {
			return fmt.Errorf("entry %s: %w", in.ID, domain.ErrDuplicateID)
		}
		ids[in.ID] = struct{}{}

		if dims == 0 {
			dims = len(in.Embedding)
		} else if len(in.Embedding) != dims {
			return fmt.Errorf("entry %s: got %d dimensions, namespace has %d: %w",
				in.ID, len(in.Embedding), dims, domain.ErrDimensionMismatch)
		}
	}

	for _, in := range entries {
		embedding := make([]float32, len(in.Embedding))
		copy(embedding, in.Embedding)

		metadata := make(map[string]string, len(in.Metadata))
		for k, v := range in.Metadata {
			metadata[k] = v
		}

		existing = append(existing, entry{
			id:        in.ID,
			embedding: embedding,
			content:   in.Content,
			metadata:  metadata,
		})
	}

	idx.namespaces[owner] = existing
	return nil
}

// Query returns up to k entries from the owner's namespace ordered by
// ascending cosine distance to the query vector. Ties keep insertion
// order. An unknown owner yields no hits.
func (idx *VectorIndex) Query(
	_ context.Context, owner string, query []float32, k int, filter *driven.VectorFilter,
) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	namespace := idx.namespaces[owner]
	if len(namespace) == 0 {
		return nil, nil
	}

	type scored struct {
		pos      int
		distance float64
	}

	candidates := make([]scored, 0, len(namespace))
	for pos, e := range namespace {
		if !filter.Matches(e.metadata) {
			continue
		}
		if len(e.embedding) != len(query) {
			return nil, fmt.Errorf("query has %d dimensions, namespace has %d: %w",
				len(query), len(e.embedding), domain.ErrDimensionMismatch)
		}
		candidates = append(candidates, scored{pos: pos, distance: cosineDistance(query, e.embedding)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		e := namespace[candidates[i].pos]
		// Hand out a copy; callers mutating hit metadata must not
		// reach the stored entry.
		metadata := make(map[string]string, len(e.metadata))
		for key, v := range e.metadata {
			metadata[key] = v
		}
		hits[i] = driven.VectorHit{
			ID:       e.id,
			Content:  e.content,
			Metadata: metadata,
			Distance: candidates[i].distance,
		}
	}

	return hits, nil
}

// Delete removes matching entries from the owner's namespace. A nil
// filter clears the namespace. Deleting from an unknown owner is a
// no-op.
func (idx *VectorIndex) Delete(_ context.Context, owner string, filter *driven.VectorFilter) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	namespace, ok := idx.namespaces[owner]
	if !ok {
		return nil
	}

	if filter == nil {
		delete(idx.namespaces, owner)
		return nil
	}

	kept := namespace[:0]
	for _, e := range namespace {
		if !filter.Matches(e.metadata) {
			kept = append(kept, e)
		}
	}

	if len(kept) == 0 {
		delete(idx.namespaces, owner)
		return nil
	}
	idx.namespaces[owner] = kept
	return nil
}

// Count returns the number of entries in the owner's namespace.
func (idx *VectorIndex) Count(_ context.Context, owner string) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.namespaces[owner]), nil
}

// Close releases resources. In-memory data is simply dropped.
func (idx *VectorIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.namespaces = make(map[string][]entry)
	return nil
}

// cosineDistance is 1 minus the cosine similarity of a and b. A zero
// vector on either side yields the maximum distance of 1.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

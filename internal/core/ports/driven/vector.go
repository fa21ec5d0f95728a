package driven

import "context"

// VectorIndex provides namespace-partitioned vector storage and
// nearest-neighbour search. One namespace exists per owner; namespaces
// are created implicitly and idempotently on first use. Retrieval for
// one owner must never surface another owner's entries - this is the
// tenancy-isolation boundary of the whole pipeline.
//
// The distance metric is cosine distance (1 - cosine similarity),
// fixed per deployment to match the embedding space.
type VectorIndex interface {
	// Add inserts entries into the owner's namespace atomically: either
	// every entry is stored or none is. Returns domain.ErrDuplicateID
	// when an entry's ID already exists in the namespace (the index
	// never silently overwrites) and domain.ErrDimensionMismatch when a
	// vector's width differs from the index dimensionality.
	Add(ctx context.Context, owner string, entries []VectorEntry) error

	// Query returns up to k entries nearest to the query vector,
	// ordered by ascending distance. Ties break by insertion order,
	// earliest first, for determinism. An optional filter restricts
	// candidates before ranking.
	Query(ctx context.Context, owner string, query []float32, k int, filter *VectorFilter) ([]VectorHit, error)

	// Delete removes all entries in the owner's namespace matching the
	// filter. A filter matching zero entries is a no-op, not an error.
	Delete(ctx context.Context, owner string, filter *VectorFilter) error

	// Count returns the number of entries in the owner's namespace.
	Count(ctx context.Context, owner string) (int, error)

	// Close releases resources.
	Close() error
}

// VectorEntry is one (id, vector, text, metadata) tuple to store.
type VectorEntry struct {
	// ID is unique within the owner's namespace.
	ID string

	// Embedding is the vector representation of Content.
	Embedding []float32

	// Content is the original text span.
	Content string

	// Metadata carries string key-value pairs for filtering.
	Metadata map[string]string
}

// VectorFilter restricts query or delete operations.
// Conditions combine with AND; a nil filter matches everything.
type VectorFilter struct {
	// DocIDs matches entries whose doc_id metadata is in the set.
	DocIDs []string

	// Metadata matches entries whose metadata contains every listed
	// key with exactly the listed value.
	Metadata map[string]string
}

// Matches reports whether the given metadata satisfies the filter.
func (f *VectorFilter) Matches(metadata map[string]string) bool {
	if f == nil {
		return true
	}
	if len(f.DocIDs) > 0 {
		found := false
		for _, id := range f.DocIDs {
			if metadata["doc_id"] == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for k, v := range f.Metadata {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the matched entry.
	ID string

	// Content is the stored text span.
	Content string

	// Metadata is the stored metadata.
	Metadata map[string]string

	// Distance is the cosine distance to the query, lower is closer.
	Distance float64
}

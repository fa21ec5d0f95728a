package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
)

// vectorIndex implements driven.VectorIndex on the vectors table.
// Search is brute force: all of an owner's vectors are loaded and
// ranked by cosine distance in Go. Namespaces stay small enough for a
// single-user tool that this beats maintaining an ANN structure.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Add inserts entries inside one transaction so the batch is
// all-or-nothing. Duplicate IDs and dimension mismatches are checked
// before any insert.
func (v *vectorIndex) Add(ctx context.Context, owner string, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Namespace dimensionality comes from any existing row.
	dims := 0
	row := tx.QueryRowContext(ctx,
		"SELECT dims FROM vectors WHERE owner = ? LIMIT 1", owner)
	if err := row.Scan(&dims); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading namespace dimensions: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.ID]; dup {
			return fmt.Errorf("entry %s: %w", entry.ID, domain.ErrDuplicateID)
		}
		seen[entry.ID] = struct{}{}

		var count int
		row := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM vectors WHERE owner = ? AND id = ?", owner, entry.ID)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("checking entry %s: %w", entry.ID, err)
		}
		if count > 0 {
			return fmt.Errorf("entry %s: %w", entry.ID, domain.ErrDuplicateID)
		}

		if dims == 0 {
			dims = len(entry.Embedding)
		} else if len(entry.Embedding) != dims {
			return fmt.Errorf("entry %s: got %d dimensions, namespace has %d: %w",
				entry.ID, len(entry.Embedding), dims, domain.ErrDimensionMismatch)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (owner, id, embedding, dims, content, metadata, doc_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		metadataJSON, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for %s: %w", entry.ID, err)
		}

		if _, err := stmt.ExecContext(ctx, owner, entry.ID,
			float32SliceToBytes(entry.Embedding), len(entry.Embedding),
			entry.Content, string(metadataJSON),
			entry.Metadata[domain.MetaDocID]); err != nil {
			return fmt.Errorf("inserting entry %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query returns up to k entries nearest to the query vector, ordered
// by ascending cosine distance with insertion order breaking ties.
func (v *vectorIndex) Query(
	ctx context.Context, owner string, query []float32, k int, filter *driven.VectorFilter,
) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT id, embedding, content, metadata
		FROM vectors WHERE owner = ?
		ORDER BY seq
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var candidates []driven.VectorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id, content, metadataJSON string
		var embeddingBlob []byte
		if err := rows.Scan(&id, &embeddingBlob, &content, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}

		var metadata map[string]string
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata for %s: %w", id, err)
		}

		if !filter.Matches(metadata) {
			continue
		}

		embedding := bytesToFloat32Slice(embeddingBlob)
		if len(embedding) != len(query) {
			return nil, fmt.Errorf("query has %d dimensions, namespace has %d: %w",
				len(query), len(embedding), domain.ErrDimensionMismatch)
		}

		candidates = append(candidates, driven.VectorHit{
			ID:       id,
			Content:  content,
			Metadata: metadata,
			Distance: cosineDistance(query, embedding),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k], nil
}

// Delete removes matching entries from the owner's namespace. A nil
// filter clears the namespace. Filters beyond doc_id are applied on
// the stored metadata row by row.
func (v *vectorIndex) Delete(ctx context.Context, owner string, filter *driven.VectorFilter) error {
	if filter == nil {
		if _, err := v.store.db.ExecContext(ctx,
			"DELETE FROM vectors WHERE owner = ?", owner); err != nil {
			return fmt.Errorf("clearing namespace: %w", err)
		}
		return nil
	}

	// Fast path: doc_id-only filters hit the indexed column.
	if len(filter.Metadata) == 0 && len(filter.DocIDs) > 0 {
		for _, docID := range filter.DocIDs {
			if _, err := v.store.db.ExecContext(ctx,
				"DELETE FROM vectors WHERE owner = ? AND doc_id = ?", owner, docID); err != nil {
				return fmt.Errorf("deleting vectors for document %s: %w", docID, err)
			}
		}
		return nil
	}

	rows, err := v.store.db.QueryContext(ctx,
		"SELECT seq, metadata FROM vectors WHERE owner = ?", owner)
	if err != nil {
		return fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var doomed []int64
	for rows.Next() {
		var seq int64
		var metadataJSON string
		if err := rows.Scan(&seq, &metadataJSON); err != nil {
			return fmt.Errorf("scanning vector: %w", err)
		}

		var metadata map[string]string
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return fmt.Errorf("unmarshaling metadata: %w", err)
		}

		if filter.Matches(metadata) {
			doomed = append(doomed, seq)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating vectors: %w", err)
	}

	for _, seq := range doomed {
		if _, err := v.store.db.ExecContext(ctx,
			"DELETE FROM vectors WHERE seq = ?", seq); err != nil {
			return fmt.Errorf("deleting vector %d: %w", seq, err)
		}
	}
	return nil
}

// Count returns the number of entries in the owner's namespace.
func (v *vectorIndex) Count(ctx context.Context, owner string) (int, error) {
	var count int
	err := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vectors WHERE owner = ?", owner).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return count, nil
}

// Close is a no-op; the owning Store manages the connection.
func (v *vectorIndex) Close() error {
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

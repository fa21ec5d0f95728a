package domain

import "time"

// Reserved metadata keys set by the ingestion pipeline.
// Extra metadata supplied by callers must not override these.
const (
	MetaDocID      = "doc_id"
	MetaChunkID    = "chunk_id"
	MetaChunkIndex = "chunk_index"
	MetaOwner      = "owner"
	MetaFilename   = "filename"
)

// Document represents a registered document owned by a single user.
// The vector index does not model documents directly; it only sees
// chunks sharing a doc_id. The registry keeps this record so callers
// can list and delete documents.
type Document struct {
	// ID is the unique document identifier.
	ID string

	// Owner identifies the user whose namespace holds the chunks.
	Owner string

	// Filename is the original upload filename.
	Filename string

	// FileSize is the size of the uploaded file in bytes.
	FileSize int64

	// ChunkCount is the number of chunks stored for this document.
	ChunkCount int

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time
}

// Chunk is a bounded span of a document's text, the atomic unit of
// embedding and retrieval. Chunks are immutable once created and are
// deleted en masse when their owning document is deleted.
type Chunk struct {
	// ID is unique within the owner's namespace,
	// formatted "{doc_id}_chunk_{index}".
	ID string

	// DocID links to the owning document.
	DocID string

	// Owner identifies the namespace the chunk lives in.
	Owner string

	// Index is the ordinal position within the document.
	Index int

	// Content is the text span.
	Content string

	// Metadata carries source metadata merged with the reserved keys.
	Metadata map[string]string
}

// Passage is a retrieved chunk with its normalised relevance score.
// Derived per query, never persisted.
type Passage struct {
	// Content is the chunk text.
	Content string

	// DocID is the owning document.
	DocID string

	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the normalised similarity in [0, 1], higher is better.
	Score float64

	// Metadata is the chunk metadata as stored at ingestion.
	Metadata map[string]string
}

// Filename returns the source filename recorded in the passage
// metadata, or "Unknown" when absent.
func (p Passage) Filename() string {
	if name, ok := p.Metadata[MetaFilename]; ok && name != "" {
		return name
	}
	return "Unknown"
}

// IngestRequest carries the inputs for document ingestion.
// Text arrives already extracted; the core does not parse binary formats.
type IngestRequest struct {
	// Text is the extracted plain text of the document.
	Text string

	// DocID is the unique document identifier.
	DocID string

	// Owner is the namespace the document belongs to. The core trusts
	// this completely; authorization happens upstream.
	Owner string

	// Filename is the original upload filename.
	Filename string

	// FileSize is the size of the uploaded file in bytes.
	FileSize int64

	// Metadata is extra metadata merged into every chunk. Reserved
	// keys are ignored.
	Metadata map[string]string
}

// IngestResult reports a successful ingestion.
type IngestResult struct {
	// DocID echoes the ingested document identifier.
	DocID string

	// ChunksCreated is the number of chunks stored, which always
	// equals the number the chunker produced.
	ChunksCreated int
}

// RetrieveOptions configures a retrieval query.
type RetrieveOptions struct {
	// TopK is the maximum number of passages to return.
	TopK int

	// DocIDs restricts retrieval to specific documents when non-empty.
	DocIDs []string
}

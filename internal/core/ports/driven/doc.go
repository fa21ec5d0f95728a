// Package driven holds the interfaces the core calls out through: the
// secondary ports of the hexagon. Services depend on these; adapters
// under internal/adapters/driven implement them.
//
// VectorIndex, EmbeddingService, DocumentStore and ConfigStore are
// required for a functioning pipeline. LLMService may be nil, in which
// case answer generation reports itself unavailable while ingestion
// and search keep working.
//
// This package imports only domain, never an adapter.
package driven

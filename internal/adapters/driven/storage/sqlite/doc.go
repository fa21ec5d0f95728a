// Package sqlite persists the document registry and the vector index
// in one SQLite database, by default ~/.documind/data/documind.db.
//
// The driver is modernc.org/sqlite, pure Go, so the binary
// cross-compiles without CGO. Vectors are stored as little-endian
// float32 BLOBs and searched with brute-force cosine distance within
// the owner's namespace; at personal-corpus scale a linear scan beats
// the complexity of an ANN index. Schema changes ship as versioned
// .up.sql files under migrations/. SQLite's WAL-mode locking makes all
// operations safe for concurrent use.
package sqlite

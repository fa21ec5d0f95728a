// Package domain defines DocuMind's core entities and sentinel errors:
// Document (a registered document owned by one user), Chunk (the unit
// of embedding), Passage (a retrieved chunk with its relevance score),
// StreamEvent (one event on a generation stream) and the settings
// types.
//
// Domain sits at the centre of the hexagon. It imports only the
// standard library; every other package depends on it and it depends
// on nothing else.
package domain

// Package chunker splits document text into overlapping spans sized
// for embedding and retrieval.
package chunker

import "strings"

// DefaultTargetSize is the default number of characters per span.
const DefaultTargetSize = 800

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// separators is the boundary priority order: paragraph breaks, line
// breaks, sentence ends, plain whitespace. A hard character cut is the
// last resort, guaranteeing termination on input with no whitespace.
var separators = []string{"\n\n", "\n", ". ", " "}

// Splitter splits text into overlapping spans, preferring natural
// boundaries over mid-sentence cuts. Splitting is deterministic: the
// same input and parameters always yield the same spans.
type Splitter struct {
	targetSize int
	overlap    int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithTargetSize sets the maximum span length in characters.
func WithTargetSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.targetSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive spans in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		targetSize: DefaultTargetSize,
		overlap:    DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must stay strictly below the target size.
	if s.overlap >= s.targetSize {
		s.overlap = s.targetSize / 4
	}

	return s
}

// TargetSize returns the configured maximum span length.
func (s *Splitter) TargetSize() int {
	return s.targetSize
}

// Overlap returns the configured span overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split returns the ordered spans of text. Empty or all-whitespace
// input yields no spans; callers treat that as an ingestion failure.
// Spans never exceed the target size; consecutive spans overlap by
// exactly the configured overlap except where a boundary cut shortened
// the preceding span.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Work in runes so sizes count characters, not bytes.
	runes := []rune(text)
	total := len(runes)

	spans := make([]string, 0, total/(s.targetSize-s.overlap)+1)

	start := 0
	for start < total {
		end := start + s.targetSize
		if end >= total {
			spans = append(spans, string(runes[start:total]))
			break
		}

		end = s.cutPoint(runes, start, end)
		spans = append(spans, string(runes[start:end]))

		next := end - s.overlap
		if next <= start {
			// Span shorter than the overlap; step past it instead of
			// looping forever.
			next = end
		}
		start = next
	}

	return spans
}

// cutPoint finds the best split position in (start, end], trying each
// separator class in priority order and keeping the separator on the
// left side of the cut. Falls back to a hard cut at end.
func (s *Splitter) cutPoint(runes []rune, start, end int) int {
	window := string(runes[start:end])

	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx <= 0 {
			continue
		}
		cut := start + len([]rune(window[:idx])) + len([]rune(sep))
		if cut > start && cut <= end {
			return cut
		}
	}

	return end
}

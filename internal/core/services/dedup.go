package services

import (
	"sort"
	"strings"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// defaultSimilarityThreshold is the word-overlap ratio above which two
// passages from the same document count as duplicates.
const defaultSimilarityThreshold = 0.7

// crossDocSimilarityThreshold applies across different documents;
// passages this similar are duplicates no matter where they came from.
const crossDocSimilarityThreshold = 0.9

// fingerprintLength is how many leading characters form the quick
// duplicate fingerprint.
const fingerprintLength = 100

// deduplicatePassages drops passages that repeat content already kept.
// Passages are considered in descending score order, so the best
// scoring copy of any duplicated content survives. The prefix
// fingerprint short-circuits exact repeats; the word-overlap check
// catches near-duplicates the fingerprint misses.
func deduplicatePassages(passages []domain.Passage, threshold float64) []domain.Passage {
	if len(passages) == 0 {
		return passages
	}

	sorted := make([]domain.Passage, len(passages))
	copy(sorted, passages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	kept := make([]domain.Passage, 0, len(sorted))
	seenFingerprints := make(map[string]struct{}, len(sorted))

	for _, candidate := range sorted {
		fingerprint := contentFingerprint(candidate.Content)
		if _, seen := seenFingerprints[fingerprint]; seen {
			continue
		}

		if isDuplicate(candidate, kept, threshold) {
			continue
		}

		kept = append(kept, candidate)
		seenFingerprints[fingerprint] = struct{}{}
	}

	return kept
}

// isDuplicate reports whether the candidate overlaps too heavily with
// any already kept passage.
func isDuplicate(candidate domain.Passage, kept []domain.Passage, threshold float64) bool {
	for _, existing := range kept {
		similarity := contentSimilarity(candidate.Content, existing.Content)

		if candidate.DocID == existing.DocID && similarity > threshold {
			return true
		}
		if similarity > crossDocSimilarityThreshold {
			return true
		}
	}
	return false
}

// contentFingerprint normalizes the leading characters of a passage
// for exact-repeat detection.
func contentFingerprint(content string) string {
	runes := []rune(content)
	if len(runes) > fingerprintLength {
		runes = runes[:fingerprintLength]
	}
	return strings.ToLower(strings.TrimSpace(string(runes)))
}

// contentSimilarity is the Jaccard similarity of the two passages'
// word sets.
func contentSimilarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}

	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(content string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(content))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

package resolver

import (
	"strings"

	"github.com/inherent-design/empack/internal/providers"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// candidate is an unscored, unversioned hit from a registry search, before
// confidence scoring and version materialization.
type candidate struct {
	id            string
	slug          string
	name          string
	source        providers.RegistrySource
	downloads     int64
	confidence    float64
}

const (
	weightExactSubstring = 0.5
	weightSlugSimilarity = 0.3
	weightDownloadRank   = 0.2
)

// scoreCandidates assigns each candidate a confidence in [0,1] combining
// exact-substring name match, normalized Levenshtein slug similarity, and
// download-count percentile within the result page (the share of the page's
// other candidates with fewer downloads; 1 for a single-candidate page).
func scoreCandidates(candidates []candidate, query string) []candidate {
	if len(candidates) == 0 {
		return candidates
	}

	normalizedQuery := strings.ToLower(strings.TrimSpace(query))

	out := make([]candidate, len(candidates))
	for i, c := range candidates {
		substringScore := 0.0
		if strings.Contains(strings.ToLower(c.name), normalizedQuery) {
			substringScore = 1.0
		}

		similarity := slugSimilarity(normalizedQuery, strings.ToLower(c.slug))

		downloadRank := 1.0
		if len(candidates) > 1 {
			fewer := 0
			for _, other := range candidates {
				if other.downloads < c.downloads {
					fewer++
				}
			}
			downloadRank = float64(fewer) / float64(len(candidates)-1)
		}

		c.confidence = weightExactSubstring*substringScore +
			weightSlugSimilarity*similarity +
			weightDownloadRank*downloadRank
		out[i] = c
	}
	return out
}

// slugSimilarity returns a [0,1] similarity derived from normalized
// Levenshtein distance: 1 for an identical slug, approaching 0 as the edit
// distance grows relative to the longer string's length.
func slugSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	similarity := 1 - float64(distance)/float64(longest)
	if similarity < 0 {
		return 0
	}
	return similarity
}

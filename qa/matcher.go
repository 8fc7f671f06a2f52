package qa

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultThreshold is the minimum similarity score required to accept a
// stored question as the answer source.
const DefaultThreshold = 80

// MatchResult holds the best-scoring stored question for a query.
type MatchResult struct {
	Question string
	Score    int
}

// Match scores the query against every candidate using the weighted fuzzy
// ratio (0-100) and returns the best candidate when it clears the threshold.
// When several candidates share the maximum score the first one encountered
// wins. An empty candidate list yields no match.
func Match(query string, candidates []string, threshold int) (MatchResult, bool) {
	best := MatchResult{Score: -1}
	for _, candidate := range candidates {
		score := fuzzy.WRatio(query, candidate)
		if score > best.Score {
			best = MatchResult{Question: candidate, Score: score}
		}
	}
	if best.Score < 0 || best.Score < threshold {
		return MatchResult{}, false
	}
	return best, true
}

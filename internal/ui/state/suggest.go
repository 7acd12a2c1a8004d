package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns the candidates matching query, best match first. An empty
// query returns every candidate in its original order.
func Suggest(candidates []string, query string) []string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return append([]string(nil), candidates...)
	}
	best := BestMatchIndex(candidates, trimmed)
	ranks := fuzzy.RankFindNormalizedFold(trimmed, candidates)
	out := make([]string, 0, len(ranks)+1)
	seen := make(map[int]struct{}, len(ranks)+1)
	if best >= 0 && matches(candidates[best], trimmed, ranks, best) {
		out = append(out, candidates[best])
		seen[best] = struct{}{}
	}
	for idx, candidate := range candidates {
		if _, ok := seen[idx]; ok {
			continue
		}
		if matches(candidate, trimmed, ranks, idx) {
			out = append(out, candidate)
			seen[idx] = struct{}{}
		}
	}
	return out
}

func matches(candidate, query string, ranks fuzzy.Ranks, idx int) bool {
	for _, rank := range ranks {
		if rank.OriginalIndex == idx {
			return true
		}
	}
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(query))
}

// BestMatchIndex returns the index of the candidate that best matches query:
// exact, then prefix, then substring, then the closest fuzzy match. It
// returns -1 when nothing matches.
func BestMatchIndex(candidates []string, query string) int {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		if len(candidates) == 0 {
			return -1
		}
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, c := range candidates {
		if strings.EqualFold(c, trimmed) {
			return i
		}
	}
	for i, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), lower) {
			return i
		}
	}
	for i, c := range candidates {
		if strings.Contains(strings.ToLower(c), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, candidates)
	if len(ranks) == 0 {
		return -1
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(candidates) {
		return -1
	}
	return best.OriginalIndex
}

// Complete returns the best match for query, if any.
func Complete(candidates []string, query string) (string, bool) {
	if strings.TrimSpace(query) == "" {
		return "", false
	}
	idx := BestMatchIndex(candidates, query)
	if idx < 0 {
		return "", false
	}
	return candidates[idx], true
}

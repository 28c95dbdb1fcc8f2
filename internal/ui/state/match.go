package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MatchIndices returns, in original order, the indices of labels matching
// query. Fuzzy matches win; when there are none a plain case-insensitive
// substring match is tried. An empty query matches everything.
func MatchIndices(labels []string, query string) []int {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		all := make([]int, len(labels))
		for i := range labels {
			all[i] = i
		}
		return all
	}
	if ranks := fuzzy.RankFindNormalizedFold(trimmed, labels); len(ranks) > 0 {
		hit := make([]bool, len(labels))
		for _, rank := range ranks {
			if rank.OriginalIndex >= 0 && rank.OriginalIndex < len(labels) {
				hit[rank.OriginalIndex] = true
			}
		}
		out := make([]int, 0, len(ranks))
		for i, ok := range hit {
			if ok {
				out = append(out, i)
			}
		}
		return out
	}
	lower := strings.ToLower(trimmed)
	var out []int
	for i, label := range labels {
		if strings.Contains(strings.ToLower(label), lower) {
			out = append(out, i)
		}
	}
	return out
}

// BestMatch returns the index of the label the cursor should land on for
// query: exact, then prefix, then substring, then the closest fuzzy match.
// It returns -1 for an empty label set.
func BestMatch(labels []string, query string) int {
	if len(labels) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, label := range labels {
		if strings.EqualFold(label, trimmed) {
			return i
		}
	}
	for i, label := range labels {
		if strings.HasPrefix(strings.ToLower(label), lower) {
			return i
		}
	}
	for i, label := range labels {
		if strings.Contains(strings.ToLower(label), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance ||
			(rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(labels) {
		return 0
	}
	return best.OriginalIndex
}

package catalog

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/nsrpc/nsrpc/internal/domain"
)

// Filter returns the titles whose name fuzzily matches query, best first.
// Ties keep catalog order. An empty query returns titles unchanged.
func Filter(titles []domain.Title, query string) []domain.Title {
	if query == "" {
		return titles
	}

	names := make([]string, len(titles))
	for i, t := range titles {
		names[i] = t.Name
	}

	ranks := fuzzy.RankFindFold(query, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	result := make([]domain.Title, len(ranks))
	for i, r := range ranks {
		result[i] = titles[r.OriginalIndex]
	}
	return result
}

// Package budget trims the classified candidate list to the total-size
// ceiling. The algorithm is a single greedy pass over candidates sorted by
// relevance, deliberately trading knapsack optimality for predictable,
// reproducible output.
package budget

import (
	"sort"

	"github.com/jadenpxrk/prism/internal/model"
)

// Select returns the highest-relevance subset of included candidates whose
// content fits within maxTotalBytes, plus the admitted byte total.
//
// Only candidates with content participate. Sorting is stable: equal
// relevance keeps walker discovery order. A candidate that would overflow the
// remaining budget is skipped and never retried.
func Select(candidates []*model.Candidate, maxTotalBytes int64) ([]*model.Candidate, int64) {
	eligible := make([]*model.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Included && cand.Content != "" {
			eligible = append(eligible, cand)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Relevance > eligible[j].Relevance
	})

	var selected []*model.Candidate
	var total int64
	for _, cand := range eligible {
		size := int64(len(cand.Content))
		if total+size > maxTotalBytes {
			continue
		}
		selected = append(selected, cand)
		total += size
	}
	return selected, total
}

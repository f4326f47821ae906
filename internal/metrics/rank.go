package metrics

import (
	"math"
	"sort"
)

// Ranking is the position of one value within its ranked group.
type Ranking struct {
	Rank       int     // 1-based, descending by value; ties share the minimum rank
	Total      int     // size of the ranked group
	Percentile float64 // (total - rank + 1) / total * 100, one decimal
}

// ComputeRankings assigns descending minimum-tie ranks to values: the
// largest value gets rank 1 and equal values share the smallest rank of
// their run. The result is positional (out[i] ranks values[i]) and is
// invariant under reordering of the input.
func ComputeRankings(values []float64) []Ranking {
	n := len(values)
	if n == 0 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] > values[idx[b]]
	})

	out := make([]Ranking, n)
	rank := 1
	for pos, i := range idx {
		if pos > 0 && values[i] != values[idx[pos-1]] {
			rank = pos + 1
		}
		out[i] = Ranking{
			Rank:       rank,
			Total:      n,
			Percentile: round1(float64(n-rank+1) / float64(n) * 100),
		}
	}
	return out
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

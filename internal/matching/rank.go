package matching

import "sort"

// Rank drops results under minScore, orders by descending score then candidate id,
// and keeps at most limit results. A limit of zero or less keeps everything.
func Rank[C any](results []Scored[C], minScore float64, limit int) []Scored[C] {
	kept := make([]Scored[C], 0, len(results))
	for _, r := range results {
		if r.Score >= minScore {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].CandidateID < kept[j].CandidateID
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// AverageScore is the mean score of results rounded to two decimals, 0 for none.
func AverageScore[C any](results []Scored[C]) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	return Round2(sum / float64(len(results)))
}

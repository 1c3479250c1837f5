package matcher

import "sort"

// Rank returns a copy ordered by score, highest first. Ties keep input order.
func Rank(results []Result) []Result {
	ranked := make([]Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// AtLeast keeps results scoring threshold or more.
func AtLeast(results []Result, threshold int) []Result {
	var out []Result
	for _, r := range results {
		if r.Score >= threshold {
			out = append(out, r)
		}
	}
	return out
}

// Package analytics computes grouped summary statistics and cross-metric
// correlations over a view.
package analytics

// pairwiseSum adds values with pairwise accumulation, which keeps rounding
// error growth logarithmic instead of linear for long series.
func pairwiseSum(values []float64) float64 {
	const base = 32
	if len(values) <= base {
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum
	}
	mid := len(values) / 2
	return pairwiseSum(values[:mid]) + pairwiseSum(values[mid:])
}

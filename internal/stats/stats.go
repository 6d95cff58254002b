// Package stats computes per-round population statistics over fitness
// scores: min, max, mean, median, and quartiles.
package stats

import "sort"

// kahanSum accumulates values with Kahan's compensated-summation
// algorithm, grounded on original_source/utils.cpp's kahan_sum: a round
// of several thousand fitness scores summed naively drifts measurably in
// float64, and the original went out of its way to avoid that.
func kahanSum(values []float64) float64 {
	sum := 0.0
	compensation := 0.0
	for _, v := range values {
		y := v - compensation
		t := sum + y
		compensation = (t - sum) - y
		sum = t
	}
	return sum
}

// PopulationStatistics summarizes one round's fitness distribution.
// It is a plain value, computed fresh per call rather than held as
// mutable accumulator state — each round's scores are a new population,
// not a running stream.
type PopulationStatistics struct {
	Min, Max, Mean, Median       float64
	FirstQuartile, ThirdQuartile float64
}

// Calculate builds a PopulationStatistics over scores. It panics on an
// empty input, matching the original's precondition that fitness
// statistics are only ever computed over a non-empty generation.
func Calculate(scores []float64) PopulationStatistics {
	if len(scores) == 0 {
		panic("stats: cannot summarize an empty population")
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	n := len(sorted)
	return PopulationStatistics{
		Min:           sorted[0],
		Max:           sorted[n-1],
		Mean:          kahanSum(sorted) / float64(n),
		Median:        median(sorted),
		FirstQuartile: nearestRank(sorted, n/4),
		ThirdQuartile: nearestRank(sorted, (3*n)/4),
	}
}

// median reproduces utils.cpp's PopulationStatistics::compute median
// formula exactly, including its even-n quirk: instead of averaging the
// two middle elements (n/2-1, n/2), it averages (n/2, n/2+1) — one
// position too high. For odd n it is the plain middle element. This is
// nearest-rank indexing, not linear interpolation; spec.md is silent on
// the exact formula, so the original's actual behavior is the ground
// truth here, quirk included.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 != 0 {
		return sorted[n/2]
	}
	hi := n/2 + 1
	if hi >= n {
		// The original indexes one past the array end here when n==2;
		// that's undefined behavior in C++, not a formula to reproduce.
		// Clamp to the last element instead of reading out of bounds.
		hi = n - 1
	}
	return (sorted[n/2] + sorted[hi]) / 2.0
}

// nearestRank returns the element at idx directly, grounded on
// utils.cpp's lower/upper quartile computation (`fitnesses[n/4]` and
// `fitnesses[(3*n)/4]`), which takes a direct nearest-rank index rather
// than interpolating between ranks.
func nearestRank(sorted []float64, idx int) float64 {
	return sorted[idx]
}

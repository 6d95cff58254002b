package cluster

import "math"

// rebalance recomputes each rank's per-round population share every
// RebalanceWindow rounds (skipping rounds 0 and 1, whose elapsed-time
// measurements aren't representative yet), grounded on main.cpp's
// dynamic load-balancing block (lines ~405-509).
//
// For each rank i: its observed share is r_i = t_i / sum(t); the new
// share is damped halfway toward the uniform target to avoid
// overcorrecting on a single round's timing noise:
//
//	r_i' = (counts[i] / total) + (mean_share - r_i) / 2
//
// counts is rounded from total*r_i' and then nudged by +-1, cyclically
// across ranks, until the counts sum back to exactly total (rounding
// four or five independent shares essentially never lands exactly on
// target). A rank whose rounded count would fall below 1 is clamped to
// 1: every rank must keep at least one individual to stay a meaningful
// participant in the next round's tournament selection. The individuals
// that clamping adds are taken from the rank with the largest count
// before the cyclic correction runs, and the cyclic correction itself
// never takes a rank below 1.
func rebalance(counts []int, times []float64) []int {
	n := len(counts)
	total := 0
	for _, c := range counts {
		total += c
	}

	sumTimes := 0.0
	for _, t := range times {
		sumTimes += t
	}

	shares := make([]float64, n)
	if sumTimes <= 0 {
		uniform := 1.0 / float64(n)
		for i := range shares {
			shares[i] = uniform
		}
	} else {
		for i, t := range times {
			shares[i] = t / sumTimes
		}
	}

	meanShare := 1.0 / float64(n)

	newCounts := make([]int, n)
	sum := 0
	shortfall := 0
	for i, c := range counts {
		currentShare := float64(c) / float64(total)
		damped := currentShare + (meanShare-shares[i])/2
		nc := int(math.Round(float64(total) * damped))
		if nc < 1 {
			shortfall += 1 - nc
			nc = 1
		}
		newCounts[i] = nc
		sum += nc
	}

	if shortfall > 0 {
		largest := 0
		for i, nc := range newCounts {
			if nc > newCounts[largest] {
				largest = i
			}
		}
		take := min(shortfall, newCounts[largest]-1)
		newCounts[largest] -= take
		sum -= take
	}

	diff := total - sum
	for i := 0; diff != 0; i = (i + 1) % n {
		if diff > 0 {
			newCounts[i]++
			diff--
		} else if newCounts[i] > 1 {
			newCounts[i]--
			diff++
		}
	}

	return newCounts
}

// shouldRebalance reports whether round triggers a rebalance pass:
// every window rounds, skipping rounds 0 and 1.
func shouldRebalance(round, window int) bool {
	if round < 2 {
		return false
	}
	return round%window == 0
}

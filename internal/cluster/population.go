package cluster

// lcm returns the least common multiple of a and b. Both are expected
// positive; population sizing never calls this with zero or negative
// inputs.
func lcm(a, b int) int {
	return a / gcd(a, b) * b
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// effectivePopulationSize computes the run's actual population size P
// and the number of tournament-selection survivor groups S, grounded on
// main.cpp's bootstrap arithmetic (lines ~115-135): S0 is the target
// survivor count, L is the LCM of the world size and S0 (so survivors
// divide evenly both across ranks and into tournament groups), and P is
// the smallest multiple of L that is still >= the requested population
// size.
func effectivePopulationSize(worldSize, requestedPopulation int, survivorRatio float64) (total, survivorGroups int) {
	s0 := ceilRatio(requestedPopulation, survivorRatio)
	if s0 < 1 {
		s0 = 1
	}
	l := lcm(worldSize, s0)

	p := l
	for p < requestedPopulation {
		p += l
	}
	return p, s0
}

func ceilRatio(n int, ratio float64) int {
	product := float64(n) * ratio
	whole := int(product)
	if float64(whole) < product {
		whole++
	}
	return whole
}

// evenSplit divides total individuals across worldSize ranks as evenly
// as possible. Since effectivePopulationSize always returns a total
// that is an exact multiple of worldSize (L is built from
// lcm(worldSize, ...)), every rank starts a run with the same share;
// only dynamic rebalancing (rebalance.go) ever makes them diverge.
func evenSplit(total, worldSize int) []int {
	counts := make([]int, worldSize)
	base := total / worldSize
	for i := range counts {
		counts[i] = base
	}
	remainder := total - base*worldSize
	for i := 0; i < remainder; i++ {
		counts[i]++
	}
	return counts
}

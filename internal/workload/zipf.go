package workload

import (
	"math"
	"math/rand/v2"
)

// zipfRanks draws n ranks in [0, keySpace) with a Zipfian skew from rng.
// theta controls the skew (higher = more skewed); theta <= 0 draws uniformly.
func zipfRanks(rng *rand.Rand, n, keySpace int, theta float64) []int {
	ranks := make([]int, n)
	if theta <= 0 {
		for i := range n {
			ranks[i] = rng.IntN(keySpace)
		}
		return ranks
	}

	spread := keySpace + 1
	zeta2 := computeZeta(2, theta)
	zetaN := computeZeta(uint64(spread), theta) //nolint:gosec // keySpace always positive
	alpha := 1.0 / (1.0 - theta)
	eta := (1 - math.Pow(2.0/float64(spread), 1.0-theta)) / (1.0 - zeta2/zetaN)
	halfPowTheta := 1.0 + math.Pow(0.5, theta)

	for i := range n {
		u := rng.Float64()
		uz := u * zetaN
		var result int
		switch {
		case uz < 1.0:
			result = 0
		case uz < halfPowTheta:
			result = 1
		default:
			result = int(float64(spread) * math.Pow(eta*u-eta+1.0, alpha))
		}
		if result >= keySpace {
			result = keySpace - 1
		}
		ranks[i] = result
	}
	return ranks
}

func computeZeta(n uint64, theta float64) float64 {
	sum := 0.0
	for i := uint64(1); i <= n; i++ {
		sum += 1.0 / math.Pow(float64(i), theta)
	}
	return sum
}

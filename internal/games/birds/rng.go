package birds

import "math/rand"

// newRNG seeds the generator for one run. Every random decision in a run
// goes through it so a seed plus an input log replays exactly.
func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// randRange returns a value in [lo, hi], both inclusive.
func randRange(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// weighted picks an index with probability proportional to weights.
// Non-positive weights are never picked; all-zero weights return -1.
func weighted(r *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	n := r.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

// sign returns -1 or +1.
func sign(r *rand.Rand) int {
	if r.Intn(2) == 0 {
		return -1
	}
	return 1
}

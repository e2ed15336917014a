package aeon

import "math/rand"

// InitStrategy selects how initial cluster centres are chosen.
type InitStrategy string

const (
	// KMeansPlusPlusInit picks well-spread centres by sampling series with
	// probability proportional to their distance from the centres chosen so
	// far (k-means++ adapted to elastic distances).
	KMeansPlusPlusInit InitStrategy = "kmeans++"

	// RandomInit picks k distinct series uniformly at random.
	RandomInit InitStrategy = "random"
)

// elasticKMeansPlusPlus seeds k centres from X using distance-weighted
// probabilistic sampling:
//
//  1. the first centre is a uniformly random series
//  2. every series tracks its distance to the nearest centre so far
//  3. each subsequent centre is sampled with probability proportional to
//     that distance, so a series coincident with an existing centre has
//     zero probability of being picked again
//
// Returns the chosen centres (deep copies - the update step mutates them),
// the per-series distance to its nearest centre, and the nearest-centre
// labels. Those double as the loop's initial distances-to-centre and label
// assignment. Each round costs |X| distance evaluations, charged to the
// init counter.
func elasticKMeansPlusPlus(
	X []Series,
	k int,
	dist ElasticDistance,
	rng *rand.Rand,
	stats *DistanceCallStats,
) (centres []Series, minDists []float64, labels []int) {
	n := len(X)
	first := rng.Intn(n)
	indexes := []int{first}

	minDists = make([]float64, n)
	labels = make([]int, n)
	for i := range X {
		minDists[i] = dist.Distance(X[i], X[first])
	}
	stats.Init += n

	for c := 1; c < k; c++ {
		next := weightedChoice(rng, minDists)
		indexes = append(indexes, next)

		for i := range X {
			d := dist.Distance(X[i], X[next])
			if d < minDists[i] {
				minDists[i] = d
				labels[i] = c
			}
		}
		stats.Init += n
	}

	centres = make([]Series, k)
	for c, idx := range indexes {
		centres[c] = X[idx].Clone()
	}
	return centres, minDists, labels
}

// randomInit seeds k centres by drawing k distinct series uniformly at
// random, then assigns every series to its nearest centre. Costs |X| * k
// distance evaluations, charged to the init counter.
func randomInit(
	X []Series,
	k int,
	dist ElasticDistance,
	rng *rand.Rand,
	stats *DistanceCallStats,
) (centres []Series, minDists []float64, labels []int) {
	n := len(X)
	perm := rng.Perm(n)[:k]
	centres = make([]Series, k)
	for c, idx := range perm {
		centres[c] = X[idx].Clone()
	}

	minDists = make([]float64, n)
	labels = make([]int, n)
	for i := range X {
		best := dist.Distance(X[i], centres[0])
		bestIdx := 0
		for c := 1; c < k; c++ {
			if d := dist.Distance(X[i], centres[c]); d < best {
				best = d
				bestIdx = c
			}
		}
		minDists[i] = best
		labels[i] = bestIdx
	}
	stats.Init += n * k
	return centres, minDists, labels
}

// weightedChoice samples an index with probability proportional to the given
// non-negative weights. If every weight is zero (all series coincide with an
// existing centre) the choice degrades to uniform; the resulting duplicate
// centres surface later as an empty-cluster failure, which is the documented
// behavior for degenerate input.
func weightedChoice(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	r := rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if r < cum {
			return i
		}
	}
	return len(weights) - 1
}

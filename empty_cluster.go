package aeon

import "errors"

// ErrEmptyCluster is returned when empty-cluster repair cannot restore a
// valid clustering within n_clusters attempts. This indicates pathological
// input, typically too many duplicate or near-duplicate series for the
// requested number of clusters.
var ErrEmptyCluster = errors.New("unable to repair empty cluster")

// resolveEmptyClusters detects clusters that lost every member during
// assignment and repairs them: the series currently farthest from its
// assigned centre is installed as the new centre for an empty cluster, all
// series are reassigned against the full centre set, and the check repeats.
// centres, labels and distsToCentre are updated in place.
//
// Each repair round costs a full |X| x k distance matrix, charged to the
// empty-cluster counter. More than k rounds means the input cannot populate
// k clusters at all (for example, every series identical), and the fit fails
// with ErrEmptyCluster rather than looping on floating-point ties.
//
// Reports whether any repair took place so the caller can refresh inertia.
func resolveEmptyClusters(
	X []Series,
	centres []Series,
	distsToCentre []float64,
	labels []int,
	dist ElasticDistance,
	stats *DistanceCallStats,
) (repaired bool, err error) {
	k := len(centres)
	attempts := 0
	for {
		empty := firstEmptyCluster(labels, k)
		if empty < 0 {
			return repaired, nil
		}
		repaired = true

		farthest := argmax(distsToCentre)
		centres[empty] = X[farthest].Clone()

		for i := range X {
			best := dist.Distance(X[i], centres[0])
			bestIdx := 0
			for j := 1; j < k; j++ {
				if d := dist.Distance(X[i], centres[j]); d < best {
					best = d
					bestIdx = j
				}
			}
			labels[i] = bestIdx
			distsToCentre[i] = best
		}
		stats.EmptyCluster += len(X) * k

		attempts++
		if attempts > k {
			return repaired, ErrEmptyCluster
		}
	}
}

// firstEmptyCluster returns the lowest cluster index with no members, or -1
// when every cluster is populated.
func firstEmptyCluster(labels []int, k int) int {
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}
	for j, c := range counts {
		if c == 0 {
			return j
		}
	}
	return -1
}

// argmax returns the index of the largest value; the first occurrence wins
// ties, keeping repair deterministic.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

package aeon

import "math"

// AssignmentStrategy selects how series are assigned to their nearest centre
// each iteration.
type AssignmentStrategy string

const (
	// PrunedAssignment exploits the triangle inequality between centres to
	// skip distance evaluations that provably cannot change a series'
	// assignment. Produces results identical to LloydsAssignment.
	PrunedAssignment AssignmentStrategy = "pruned"

	// LloydsAssignment computes the full series-to-centre distance matrix
	// every iteration. Simpler and much slower; kept as the reference mode
	// the pruned engine is verified against.
	LloydsAssignment AssignmentStrategy = "lloyds"
)

// prunedAssignment reassigns every series to its nearest centre, skipping
// provably redundant distance evaluations. labels and distsToCentre are
// updated in place; the returned matrix caches the distances that were
// actually computed this iteration (NaN marks pruned entries) so the next
// iteration can reuse them for centres that did not move.
//
// The pruning rule: for series i currently assigned to centre `closest` at
// distance minDist, a candidate centre j satisfies by the triangle
// inequality
//
//	d(X[i], centre[j]) >= d(centre[j], centre[closest]) - d(X[i], centre[closest])
//
// so whenever minDist < d(centre[j], centre[closest]) / 2, centre j cannot
// possibly beat the current assignment and the evaluation is skipped
// entirely. The centre-to-centre matrix costs k*(k-1) evaluations up front
// and typically saves a large fraction of the n*k series-to-centre
// evaluations once clusters begin to stabilize.
//
// This is a pure performance optimization: labels and distances produced
// here are identical to lloydsAssignment given the same centres.
func prunedAssignment(
	X []Series,
	centres []Series,
	labels []int,
	distsToCentre []float64,
	dist ElasticDistance,
	isFirstIteration bool,
	prevCentres []Series,
	prevDistMatrix [][]float64,
	stats *DistanceCallStats,
) (inertia float64, distMatrix [][]float64) {
	k := len(centres)
	centreDists := PairwiseSelf(centres, dist)
	stats.Assignment += k*k - k

	// Centres that did not move since the previous iteration keep their
	// cached series distances valid.
	centresSame := make([]bool, k)
	if !isFirstIteration && prevCentres != nil {
		for j := range centres {
			centresSame[j] = centres[j].Equal(prevCentres[j])
		}
	}

	distMatrix = make([][]float64, len(X))
	for i := range distMatrix {
		distMatrix[i] = make([]float64, k)
		for j := range distMatrix[i] {
			distMatrix[i][j] = math.NaN()
		}
	}

	for i := range X {
		minDist := distsToCentre[i]
		closest := labels[i]
		for j := 0; j < k; j++ {
			if !isFirstIteration && j == closest {
				continue
			}
			bound := centreDists[j][closest] / 2
			if minDist < bound {
				continue
			}
			var d float64
			if centresSame[j] && prevDistMatrix != nil && !math.IsNaN(prevDistMatrix[i][j]) {
				d = prevDistMatrix[i][j]
			} else {
				d = dist.Distance(X[i], centres[j])
				stats.Assignment++
			}
			distMatrix[i][j] = d
			if d < minDist {
				minDist = d
				closest = j
			}
		}
		labels[i] = closest
		distsToCentre[i] = minDist
		inertia += minDist * minDist
	}
	return inertia, distMatrix
}

// lloydsAssignment reassigns every series by brute force: the full
// series-to-centre distance matrix is computed unconditionally. labels and
// distsToCentre are updated in place.
func lloydsAssignment(
	X []Series,
	centres []Series,
	labels []int,
	distsToCentre []float64,
	dist ElasticDistance,
	stats *DistanceCallStats,
) (inertia float64) {
	for i := range X {
		best := dist.Distance(X[i], centres[0])
		bestIdx := 0
		for j := 1; j < len(centres); j++ {
			if d := dist.Distance(X[i], centres[j]); d < best {
				best = d
				bestIdx = j
			}
		}
		labels[i] = bestIdx
		distsToCentre[i] = best
		inertia += best * best
	}
	stats.Assignment += len(X) * len(centres)
	return inertia
}

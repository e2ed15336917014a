package aeon

import "math"

// msmDistance implements the move-split-merge distance.
//
// MSM edits one series into the other using three operations:
//   - move: substitute a value, costing the absolute difference
//   - split: duplicate a value, costing a flat penalty (plus a correction
//     when the new value does not lie between its neighbors)
//   - merge: collapse two equal-ish values, costed symmetrically to split
//
// Unlike DTW, MSM is a true metric, so the triangle-inequality pruning in
// the assignment engine holds exactly rather than heuristically.
//
// Recurrence over the n x m cost matrix:
//
//	D[i][j] = min(
//	    D[i-1][j-1] + |a_i - b_j|,             // move
//	    D[i-1][j]   + C(a_i, a_{i-1}, b_j),    // split/merge in a
//	    D[i][j-1]   + C(b_j, b_{j-1}, a_i),    // split/merge in b
//	)
//
// Multivariate series are treated channel-independently: per-channel costs
// are summed at each cell. A Sakoe-Chiba band restricts |i-j| like DTW.
type msmDistance struct {
	window  float64
	penalty float64
}

var _ ElasticDistance = msmDistance{}

func (d msmDistance) Distance(a, b Series) float64 {
	cm := msmCostMatrix(a, b, d.window, d.penalty)
	return cm[len(cm)-1][len(cm[0])-1]
}

func (d msmDistance) AlignmentPath(a, b Series) (AlignmentPath, float64) {
	cm := msmCostMatrix(a, b, d.window, d.penalty)
	path := backtrackPath(cm)
	return path, cm[len(cm)-1][len(cm[0])-1]
}

func (d msmDistance) Kind() DistanceKind {
	return MSM
}

func msmCostMatrix(a, b Series, window, penalty float64) [][]float64 {
	n, m := a.NumTimepoints(), b.NumTimepoints()
	w := bandWidth(window, n, m)
	inf := math.Inf(1)

	cm := make([][]float64, n)
	for i := range cm {
		cm[i] = make([]float64, m)
		for j := range cm[i] {
			cm[i][j] = inf
		}
	}

	cm[0][0] = absPointCost(a, b, 0, 0)
	for i := 1; i < n && i <= w; i++ {
		cm[i][0] = cm[i-1][0] + msmEditCost(a, b, i, 0, penalty)
	}
	for j := 1; j < m && j <= w; j++ {
		cm[0][j] = cm[0][j-1] + msmEditCost(b, a, j, 0, penalty)
	}

	for i := 1; i < n; i++ {
		for j := 1; j < m; j++ {
			if absInt(i-j) > w {
				continue
			}
			move := cm[i-1][j-1] + absPointCost(a, b, i, j)
			split := cm[i-1][j] + msmEditCost(a, b, i, j, penalty)
			merge := cm[i][j-1] + msmEditCost(b, a, j, i, penalty)

			best := move
			if split < best {
				best = split
			}
			if merge < best {
				best = merge
			}
			cm[i][j] = best
		}
	}
	return cm
}

// msmEditCost is the split/merge cost of x's timepoint i against its
// predecessor i-1 and the other series' timepoint j, summed over channels.
// If the new value lies between its two reference values only the flat
// penalty applies; otherwise the distance to the nearer reference is added.
func msmEditCost(x, other Series, i, j int, penalty float64) float64 {
	var sum float64
	for c := range x {
		v := x[c][i]
		prev := x[c][i-1]
		o := other[c][j]
		if (prev <= v && v <= o) || (prev >= v && v >= o) {
			sum += penalty
		} else {
			sum += penalty + math.Min(math.Abs(v-prev), math.Abs(v-o))
		}
	}
	return sum
}

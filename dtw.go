package aeon

import "math"

// dtwDistance implements dynamic time warping over multivariate series.
//
// DTW finds the monotone alignment between two series that minimizes the
// accumulated squared pointwise cost, allowing one series to stretch or
// compress in time relative to the other:
//
//	D[0][0] = cost(0, 0)
//	D[i][j] = cost(i, j) + min(D[i-1][j-1], D[i-1][j], D[i][j-1])
//	distance = D[n-1][m-1]
//
// where cost(i, j) is the squared Euclidean distance between the aligned
// timepoints across channels. The reported distance is the accumulated cost
// itself (no final square root), matching the usual time-series convention.
//
// A Sakoe-Chiba band restricts the alignment to |i-j| <= w, which both
// speeds up the recurrence and regularizes pathological warpings. Cells
// outside the band stay at +Inf and can never be chosen.
//
// Time complexity: O(n*m) per call (O(n*w) inside a band of width w).
type dtwDistance struct {
	window float64
}

var _ ElasticDistance = dtwDistance{}

func (d dtwDistance) Distance(a, b Series) float64 {
	cm := dtwCostMatrix(a, b, d.window)
	return cm[len(cm)-1][len(cm[0])-1]
}

func (d dtwDistance) AlignmentPath(a, b Series) (AlignmentPath, float64) {
	cm := dtwCostMatrix(a, b, d.window)
	path := backtrackPath(cm)
	return path, cm[len(cm)-1][len(cm[0])-1]
}

func (d dtwDistance) Kind() DistanceKind {
	return DTW
}

// dtwCostMatrix fills the n x m accumulated-cost matrix for series a and b.
func dtwCostMatrix(a, b Series, window float64) [][]float64 {
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

	cm[0][0] = squaredPointCost(a, b, 0, 0)
	for i := 1; i < n && i <= w; i++ {
		cm[i][0] = cm[i-1][0] + squaredPointCost(a, b, i, 0)
	}
	for j := 1; j < m && j <= w; j++ {
		cm[0][j] = cm[0][j-1] + squaredPointCost(a, b, 0, j)
	}

	for i := 1; i < n; i++ {
		for j := 1; j < m; j++ {
			if absInt(i-j) > w {
				continue
			}
			best := cm[i-1][j-1]
			if cm[i-1][j] < best {
				best = cm[i-1][j]
			}
			if cm[i][j-1] < best {
				best = cm[i][j-1]
			}
			cm[i][j] = squaredPointCost(a, b, i, j) + best
		}
	}
	return cm
}

// backtrackPath recovers the optimal alignment from an accumulated-cost
// matrix by walking from the bottom-right corner to (0, 0), always stepping
// to the predecessor with the lowest accumulated cost. Ties break toward the
// diagonal, then the vertical step, keeping paths deterministic.
//
// The same backtrack serves DTW, MSM and TWE: all three matrices share the
// property that every in-band cell was produced from one of the three
// neighboring predecessors.
func backtrackPath(cm [][]float64) AlignmentPath {
	i, j := len(cm)-1, len(cm[0])-1
	path := AlignmentPath{{i, j}}
	for i > 0 || j > 0 {
		switch {
		case i == 0:
			j--
		case j == 0:
			i--
		default:
			diag, up, left := cm[i-1][j-1], cm[i-1][j], cm[i][j-1]
			if diag <= up && diag <= left {
				i--
				j--
			} else if up <= left {
				i--
			} else {
				j--
			}
		}
		path = append(path, [2]int{i, j})
	}
	// Walked tail-first; reverse to run from (0, 0).
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

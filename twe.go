package aeon

import "math"

// tweDistance implements the time warp edit distance.
//
// TWE combines the edit-distance view (delete operations carry a flat
// penalty Lambda) with warping stiffness: the further apart two aligned
// timestamps are, the more the alignment pays through the Nu term. Nu -> 0
// degenerates toward DTW-like elasticity; large Nu forces near-diagonal
// alignments.
//
// Both series are padded with a leading zero timepoint, and the recurrence
// runs over the padded (n+1) x (m+1) matrix:
//
//	delA  = D[i-1][j]   + d(a_{i-1}, a_i) + Lambda + Nu
//	delB  = D[i][j-1]   + d(b_{j-1}, b_j) + Lambda + Nu
//	match = D[i-1][j-1] + d(a_i, b_j) + d(a_{i-1}, b_{j-1}) + 2*Nu*|i-j|
//
// with d the pointwise Euclidean distance across channels. A Sakoe-Chiba
// band restricts |i-j| like DTW.
type tweDistance struct {
	window float64
	nu     float64
	lambda float64
}

var _ ElasticDistance = tweDistance{}

func (d tweDistance) Distance(a, b Series) float64 {
	cm := tweCostMatrix(a, b, d.window, d.nu, d.lambda)
	return cm[len(cm)-1][len(cm[0])-1]
}

func (d tweDistance) AlignmentPath(a, b Series) (AlignmentPath, float64) {
	cm := tweCostMatrix(a, b, d.window, d.nu, d.lambda)
	padded := backtrackPath(cm)

	// The backtrack runs over the padded matrix; strip the pad row/column
	// and shift indexes back to the original series.
	path := make(AlignmentPath, 0, len(padded))
	for _, p := range padded {
		if p[0] == 0 || p[1] == 0 {
			continue
		}
		path = append(path, [2]int{p[0] - 1, p[1] - 1})
	}
	return path, cm[len(cm)-1][len(cm[0])-1]
}

func (d tweDistance) Kind() DistanceKind {
	return TWE
}

func tweCostMatrix(a, b Series, window, nu, lambda float64) [][]float64 {
	pa, pb := padSeries(a), padSeries(b)
	n, m := pa.NumTimepoints(), pb.NumTimepoints()
	w := bandWidth(window, n, m)
	inf := math.Inf(1)

	cm := make([][]float64, n)
	for i := range cm {
		cm[i] = make([]float64, m)
		for j := range cm[i] {
			cm[i][j] = inf
		}
	}
	cm[0][0] = 0

	for i := 1; i < n; i++ {
		for j := 1; j < m; j++ {
			if absInt(i-j) > w {
				continue
			}
			delA := cm[i-1][j] + pointEuclid(pa, pa, i-1, i) + lambda + nu
			delB := cm[i][j-1] + pointEuclid(pb, pb, j-1, j) + lambda + nu
			match := cm[i-1][j-1] +
				pointEuclid(pa, pb, i, j) +
				pointEuclid(pa, pb, i-1, j-1) +
				2*nu*float64(absInt(i-j))

			best := match
			if delA < best {
				best = delA
			}
			if delB < best {
				best = delB
			}
			cm[i][j] = best
		}
	}
	return cm
}

// padSeries prepends a zero timepoint to every channel.
func padSeries(s Series) Series {
	out := make(Series, len(s))
	for c := range s {
		out[c] = make([]float64, len(s[c])+1)
		copy(out[c][1:], s[c])
	}
	return out
}

// pointEuclid is the Euclidean distance between timepoint i of a and
// timepoint j of b across channels.
func pointEuclid(a, b Series, i, j int) float64 {
	return math.Sqrt(squaredPointCost(a, b, i, j))
}

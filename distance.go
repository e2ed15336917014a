package aeon

import (
	"errors"
	"math"
)

// ErrUnknownDistanceKind is returned when an unknown distance kind is provided
// to NewElasticDistance.
var ErrUnknownDistanceKind = errors.New("unknown distance kind")

// DistanceKind names a built-in elastic distance. Elastic distances optimize
// an alignment between the timepoints of two series instead of comparing them
// index by index:
//   - Euclidean / Squared: fixed-index comparison (the degenerate alignment)
//   - DTW: dynamic time warping under a Sakoe-Chiba band
//   - MSM: move-split-merge, a metric elastic distance
//   - TWE: time warp edit distance with stiffness control
type DistanceKind string

const (
	// Euclidean is the fixed-index L2 distance between two series.
	// Formula: sqrt(sum over channels and timepoints of (a-b)^2)
	Euclidean DistanceKind = "euclidean"

	// Squared is the squared Euclidean distance (no sqrt). Faster, and
	// preserves ordering, so it is interchangeable with Euclidean for
	// nearest-centroid decisions.
	Squared DistanceKind = "squared"

	// DTW is dynamic time warping. The accumulated cost of the optimal
	// warping path using squared pointwise differences. Not a metric, but
	// close enough to respect the triangle-inequality pruning bound in
	// practice on real series.
	DTW DistanceKind = "dtw"

	// MSM is the move-split-merge distance. A true metric: moves cost the
	// absolute difference, splits and merges cost a configurable penalty.
	MSM DistanceKind = "msm"

	// TWE is the time warp edit distance, controlled by a stiffness
	// parameter (Nu) and an edit penalty (Lambda).
	TWE DistanceKind = "twe"
)

// AlignmentPath is the sequence of aligned timepoint index pairs (i, j)
// produced by an elastic distance: position i of the first series is aligned
// with position j of the second. Paths are monotone and start at (0, 0).
type AlignmentPath [][2]int

// ElasticDistance computes a dissimilarity between two time series together
// with the optimal alignment that induced it. Implementations must be
// stateless and safe for concurrent use.
type ElasticDistance interface {
	// Distance computes the dissimilarity between a and b.
	// Lower values mean more similar.
	Distance(a, b Series) float64

	// AlignmentPath returns the optimal alignment between a and b and the
	// distance along it. The barycenter averaging step walks this path to
	// accumulate subgradients, so the path must correspond exactly to the
	// value Distance would report.
	AlignmentPath(a, b Series) (AlignmentPath, float64)

	// Kind returns the distance kind identifier.
	Kind() DistanceKind
}

// DistanceParams configures the built-in elastic distances. Fields not used
// by a given distance are ignored by it.
type DistanceParams struct {
	// Window is the Sakoe-Chiba band width as a fraction of series length.
	// Alignments may only pair indexes i, j with |i-j| <= ceil(Window * m).
	// Values <= 0 or >= 1 disable the constraint.
	Window float64

	// Penalty is the MSM split/merge cost.
	Penalty float64

	// Nu is the TWE stiffness parameter.
	Nu float64

	// Lambda is the TWE edit penalty.
	Lambda float64
}

// DefaultDistanceParams returns the parameter defaults used across the
// package: an unconstrained window, MSM penalty 1.0, TWE nu 0.001 and
// lambda 1.0.
func DefaultDistanceParams() DistanceParams {
	return DistanceParams{
		Window:  1.0,
		Penalty: 1.0,
		Nu:      0.001,
		Lambda:  1.0,
	}
}

// NewElasticDistance returns an ElasticDistance for the specified kind,
// bound to the given parameters. Returns ErrUnknownDistanceKind if the kind
// is not recognized.
//
// Example:
//
//	params := DefaultDistanceParams()
//	params.Window = 0.2
//	dist, err := NewElasticDistance(DTW, params)
func NewElasticDistance(kind DistanceKind, params DistanceParams) (ElasticDistance, error) {
	switch kind {
	case Euclidean:
		return euclideanDistance{squared: false}, nil
	case Squared:
		return euclideanDistance{squared: true}, nil
	case DTW:
		return dtwDistance{window: params.Window}, nil
	case MSM:
		return msmDistance{window: params.Window, penalty: params.Penalty}, nil
	case TWE:
		return tweDistance{window: params.Window, nu: params.Nu, lambda: params.Lambda}, nil
	default:
		return nil, ErrUnknownDistanceKind
	}
}

// DistanceFunc is a user-supplied two-series distance function.
type DistanceFunc func(a, b Series) float64

// FuncDistance adapts a plain distance function to the ElasticDistance
// interface. The clustering core never inspects a distance's internals, so
// any function with the right signature can drive a fit.
//
// A plain function exposes no alignment, so AlignmentPath falls back to the
// fixed-index diagonal. Barycenter updates under a FuncDistance therefore
// behave like arithmetic averaging along matched indexes.
type FuncDistance struct {
	Name string
	Func DistanceFunc
}

var _ ElasticDistance = FuncDistance{}

func (f FuncDistance) Distance(a, b Series) float64 {
	return f.Func(a, b)
}

func (f FuncDistance) AlignmentPath(a, b Series) (AlignmentPath, float64) {
	return diagonalPath(a, b), f.Func(a, b)
}

func (f FuncDistance) Kind() DistanceKind {
	return DistanceKind(f.Name)
}

// euclideanDistance implements fixed-index L2 and squared L2 distance.
type euclideanDistance struct {
	squared bool
}

var _ ElasticDistance = euclideanDistance{}

func (e euclideanDistance) Distance(a, b Series) float64 {
	var sum float64
	points := minInt(a.NumTimepoints(), b.NumTimepoints())
	for c := range a {
		for t := 0; t < points; t++ {
			d := a[c][t] - b[c][t]
			sum += d * d
		}
	}
	if e.squared {
		return sum
	}
	return math.Sqrt(sum)
}

func (e euclideanDistance) AlignmentPath(a, b Series) (AlignmentPath, float64) {
	return diagonalPath(a, b), e.Distance(a, b)
}

func (e euclideanDistance) Kind() DistanceKind {
	if e.squared {
		return Squared
	}
	return Euclidean
}

// diagonalPath is the identity alignment (i, i) over the shorter length.
func diagonalPath(a, b Series) AlignmentPath {
	points := minInt(a.NumTimepoints(), b.NumTimepoints())
	path := make(AlignmentPath, points)
	for t := 0; t < points; t++ {
		path[t] = [2]int{t, t}
	}
	return path
}

// bandWidth resolves a fractional Sakoe-Chiba window to an absolute maximum
// |i-j| deviation for series of lengths n and m. A fraction outside (0, 1)
// means unconstrained.
func bandWidth(window float64, n, m int) int {
	if window <= 0 || window >= 1 {
		return math.MaxInt32
	}
	longest := n
	if m > longest {
		longest = m
	}
	return int(math.Ceil(window * float64(longest)))
}

// squaredPointCost is the squared Euclidean distance between timepoint i of a
// and timepoint j of b, summed over channels.
func squaredPointCost(a, b Series, i, j int) float64 {
	var sum float64
	for c := range a {
		d := a[c][i] - b[c][j]
		sum += d * d
	}
	return sum
}

// absPointCost is the absolute difference between timepoint i of a and
// timepoint j of b, summed over channels.
func absPointCost(a, b Series, i, j int) float64 {
	var sum float64
	for c := range a {
		sum += math.Abs(a[c][i] - b[c][j])
	}
	return sum
}

// PairwiseDistances computes the full |X| x |Y| distance matrix between two
// collections. Every entry costs one elastic-distance evaluation.
func PairwiseDistances(X, Y []Series, dist ElasticDistance) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = make([]float64, len(Y))
		for j := range Y {
			out[i][j] = dist.Distance(X[i], Y[j])
		}
	}
	return out
}

// PairwiseSelf computes the symmetric |X| x |X| distance matrix of a
// collection against itself. The diagonal is zero and each off-diagonal pair
// is evaluated once, then mirrored.
func PairwiseSelf(X []Series, dist ElasticDistance) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = make([]float64, len(X))
	}
	for i := 0; i < len(X); i++ {
		for j := i + 1; j < len(X); j++ {
			d := dist.Distance(X[i], X[j])
			out[i][j] = d
			out[j][i] = d
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

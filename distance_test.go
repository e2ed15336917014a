package aeon

import (
	"math"
	"testing"
)

// almostEqual reports whether two floats agree within a small tolerance.
// Shared across the package's tests.
func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewElasticDistanceKinds(t *testing.T) {
	tests := []struct {
		name string
		kind DistanceKind
	}{
		{"euclidean", Euclidean},
		{"squared", Squared},
		{"dtw", DTW},
		{"msm", MSM},
		{"twe", TWE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, err := NewElasticDistance(tt.kind, DefaultDistanceParams())
			if err != nil {
				t.Fatalf("NewElasticDistance(%q) error: %v", tt.kind, err)
			}
			if dist.Kind() != tt.kind {
				t.Errorf("Kind() = %q, want %q", dist.Kind(), tt.kind)
			}
		})
	}
}

func TestNewElasticDistanceUnknownKind(t *testing.T) {
	_, err := NewElasticDistance("mahalanobis", DefaultDistanceParams())
	if err != ErrUnknownDistanceKind {
		t.Errorf("NewElasticDistance with unknown kind returned %v, want ErrUnknownDistanceKind", err)
	}
}

func TestEuclideanDistanceValues(t *testing.T) {
	a := UnivariateSeries([]float64{1, 2, 3})
	b := UnivariateSeries([]float64{2, 3, 4})

	euc, _ := NewElasticDistance(Euclidean, DefaultDistanceParams())
	sq, _ := NewElasticDistance(Squared, DefaultDistanceParams())

	if got := sq.Distance(a, b); !almostEqual(got, 3) {
		t.Errorf("squared distance = %v, want 3", got)
	}
	if got := euc.Distance(a, b); !almostEqual(got, math.Sqrt(3)) {
		t.Errorf("euclidean distance = %v, want sqrt(3)", got)
	}
}

func TestDTWDistanceKnownValue(t *testing.T) {
	// Hand-computed accumulated cost matrix for these series gives 2:
	// the warp matches the shifted ramp with a single repeated point at
	// each end.
	a := UnivariateSeries([]float64{1, 2, 3})
	b := UnivariateSeries([]float64{2, 3, 4})

	dist, _ := NewElasticDistance(DTW, DefaultDistanceParams())
	if got := dist.Distance(a, b); !almostEqual(got, 2) {
		t.Errorf("dtw distance = %v, want 2", got)
	}
}

func TestElasticDistanceIdentityAndSymmetry(t *testing.T) {
	a := Series{{1.5, 2.25, -0.5, 3.75}, {0.25, -1.5, 2.5, 0.75}}
	b := Series{{2.5, 0.75, 1.25, -2.5}, {1.75, 3.25, -0.25, 0.5}}

	for _, kind := range []DistanceKind{Euclidean, Squared, DTW, MSM, TWE} {
		t.Run(string(kind), func(t *testing.T) {
			dist, err := NewElasticDistance(kind, DefaultDistanceParams())
			if err != nil {
				t.Fatal(err)
			}
			if got := dist.Distance(a, a); !almostEqual(got, 0) {
				t.Errorf("d(a, a) = %v, want 0", got)
			}
			ab, ba := dist.Distance(a, b), dist.Distance(b, a)
			if !almostEqual(ab, ba) {
				t.Errorf("asymmetric: d(a, b) = %v, d(b, a) = %v", ab, ba)
			}
			if ab <= 0 {
				t.Errorf("d(a, b) = %v, want positive for distinct series", ab)
			}
		})
	}
}

func TestMSMDistanceKnownValue(t *testing.T) {
	// Hand-computed with penalty 1: one move of cost 1 plus one merge of
	// cost 1 along the optimal path.
	a := UnivariateSeries([]float64{4, 4, 5})
	b := UnivariateSeries([]float64{4, 5, 6})

	dist, _ := NewElasticDistance(MSM, DefaultDistanceParams())
	if got := dist.Distance(a, b); !almostEqual(got, 2) {
		t.Errorf("msm distance = %v, want 2", got)
	}
}

func TestMSMTriangleInequality(t *testing.T) {
	// MSM is a true metric, and the assignment engine's pruning bound
	// depends on it. Spot-check on fixed triples.
	series := []Series{
		UnivariateSeries([]float64{1, 2, 3, 4}),
		UnivariateSeries([]float64{4, 3, 2, 1}),
		UnivariateSeries([]float64{0, 0, 5, 5}),
		UnivariateSeries([]float64{2, 2, 2, 2}),
	}
	dist, _ := NewElasticDistance(MSM, DefaultDistanceParams())

	for i := range series {
		for j := range series {
			for l := range series {
				ij := dist.Distance(series[i], series[j])
				il := dist.Distance(series[i], series[l])
				lj := dist.Distance(series[l], series[j])
				if ij > il+lj+1e-9 {
					t.Fatalf("triangle inequality violated: d(%d,%d)=%v > d(%d,%d)+d(%d,%d)=%v",
						i, j, ij, i, l, l, j, il+lj)
				}
			}
		}
	}
}

func TestDTWWindowConstraint(t *testing.T) {
	// A tight band forbids the long warp the full matrix would use, so the
	// constrained distance can only be larger or equal.
	a := UnivariateSeries([]float64{0, 0, 0, 1, 2, 3, 2, 1})
	b := UnivariateSeries([]float64{1, 2, 3, 2, 1, 0, 0, 0})

	full, _ := NewElasticDistance(DTW, DefaultDistanceParams())
	narrow := DefaultDistanceParams()
	narrow.Window = 0.2
	banded, _ := NewElasticDistance(DTW, narrow)

	df, db := full.Distance(a, b), banded.Distance(a, b)
	if db < df {
		t.Errorf("banded dtw %v < unconstrained dtw %v", db, df)
	}
}

func TestAlignmentPathEndpointsAndMonotonicity(t *testing.T) {
	a := Series{{0.5, 1.5, 2.5, 1.0, 0.0}}
	b := Series{{0.0, 1.0, 3.0, 1.5, 0.5}}

	for _, kind := range []DistanceKind{Euclidean, DTW, MSM, TWE} {
		t.Run(string(kind), func(t *testing.T) {
			dist, err := NewElasticDistance(kind, DefaultDistanceParams())
			if err != nil {
				t.Fatal(err)
			}
			path, d := dist.AlignmentPath(a, b)
			if len(path) == 0 {
				t.Fatal("empty alignment path")
			}
			if path[0] != [2]int{0, 0} {
				t.Errorf("path starts at %v, want (0, 0)", path[0])
			}
			last := path[len(path)-1]
			if last != [2]int{4, 4} {
				t.Errorf("path ends at %v, want (4, 4)", last)
			}
			for p := 1; p < len(path); p++ {
				di := path[p][0] - path[p-1][0]
				dj := path[p][1] - path[p-1][1]
				if di < 0 || dj < 0 || di > 1 || dj > 1 || (di == 0 && dj == 0) {
					t.Fatalf("non-monotone step %v -> %v", path[p-1], path[p])
				}
			}
			if !almostEqual(d, dist.Distance(a, b)) {
				t.Errorf("AlignmentPath distance %v != Distance %v", d, dist.Distance(a, b))
			}
		})
	}
}

func TestFuncDistanceAdapter(t *testing.T) {
	calls := 0
	custom := FuncDistance{
		Name: "constant",
		Func: func(a, b Series) float64 {
			calls++
			return 7
		},
	}

	a := UnivariateSeries([]float64{1, 2})
	b := UnivariateSeries([]float64{3, 4})

	if got := custom.Distance(a, b); got != 7 {
		t.Errorf("Distance = %v, want 7", got)
	}
	path, d := custom.AlignmentPath(a, b)
	if d != 7 {
		t.Errorf("AlignmentPath distance = %v, want 7", d)
	}
	if len(path) != 2 || path[0] != [2]int{0, 0} || path[1] != [2]int{1, 1} {
		t.Errorf("AlignmentPath = %v, want diagonal", path)
	}
	if calls != 2 {
		t.Errorf("function called %d times, want 2", calls)
	}
}

func TestPairwiseSelf(t *testing.T) {
	X := []Series{
		UnivariateSeries([]float64{1, 1, 1}),
		UnivariateSeries([]float64{2, 2, 2}),
		UnivariateSeries([]float64{4, 4, 4}),
	}
	dist, _ := NewElasticDistance(Euclidean, DefaultDistanceParams())
	matrix := PairwiseSelf(X, dist)

	for i := range X {
		if matrix[i][i] != 0 {
			t.Errorf("diagonal entry (%d, %d) = %v, want 0", i, i, matrix[i][i])
		}
		for j := range X {
			if matrix[i][j] != matrix[j][i] {
				t.Errorf("matrix not symmetric at (%d, %d)", i, j)
			}
		}
	}
	if !almostEqual(matrix[0][1], math.Sqrt(3)) {
		t.Errorf("matrix[0][1] = %v, want sqrt(3)", matrix[0][1])
	}
}

func TestPairwiseDistancesShape(t *testing.T) {
	X := []Series{
		UnivariateSeries([]float64{1, 2}),
		UnivariateSeries([]float64{3, 4}),
		UnivariateSeries([]float64{5, 6}),
	}
	Y := X[:2]
	dist, _ := NewElasticDistance(Squared, DefaultDistanceParams())
	matrix := PairwiseDistances(X, Y, dist)

	if len(matrix) != 3 || len(matrix[0]) != 2 {
		t.Fatalf("matrix shape = (%d, %d), want (3, 2)", len(matrix), len(matrix[0]))
	}
	if matrix[0][0] != 0 || matrix[1][1] != 0 {
		t.Errorf("self distances not zero: %v %v", matrix[0][0], matrix[1][1])
	}
}

package aeon

import (
	"fmt"
	"math"
	"math/rand"
)

// KMedoidsConfig configures a KMedoids clusterer.
type KMedoidsConfig struct {
	// Distance and DistanceParams name the elastic distance;
	// CustomDistance overrides them when non-nil.
	Distance       DistanceKind
	DistanceParams DistanceParams
	CustomDistance ElasticDistance

	// MaxIter caps the alternate assignment/medoid-swap iterations.
	MaxIter int

	// RandomState seeds medoid initialization.
	RandomState int64
}

// DefaultKMedoidsConfig returns the k-medoids defaults: MSM distance with a
// half-length window and a 300 iteration budget.
func DefaultKMedoidsConfig() KMedoidsConfig {
	params := DefaultDistanceParams()
	params.Window = 0.5
	return KMedoidsConfig{
		Distance:       MSM,
		DistanceParams: params,
		MaxIter:        300,
	}
}

// KMedoids clusters time series around actual member series (medoids)
// instead of synthetic barycenters. Because centres are drawn from the
// input, the full pairwise distance matrix can be computed once up front
// and every subsequent iteration is pure table lookups - no further elastic
// distance evaluations. The trade-off is O(n^2) distance evaluations and
// memory, which is why CLARA exists for larger collections.
//
// Each iteration assigns every series to its nearest medoid, then replaces
// each cluster's medoid with the member minimizing the total distance to
// its cluster, until the medoid set stops changing.
type KMedoids struct {
	nClusters int
	cfg       KMedoidsConfig
	dist      ElasticDistance

	labels  []int
	medoids []int
	centers []Series
	inertia float64
	nIter   int
	fitted  bool
}

// NewKMedoids creates a k-medoids clusterer. The distance specification is
// resolved eagerly, like KESBA.
func NewKMedoids(nClusters int, cfg KMedoidsConfig) (*KMedoids, error) {
	if nClusters <= 0 {
		return nil, fmt.Errorf("n_clusters must be positive, got %d: %w",
			nClusters, ErrInvalidClusterCount)
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 300
	}

	dist := cfg.CustomDistance
	if dist == nil {
		var err error
		dist, err = NewElasticDistance(cfg.Distance, cfg.DistanceParams)
		if err != nil {
			return nil, fmt.Errorf("distance %q: %w", cfg.Distance, err)
		}
	}
	return &KMedoids{nClusters: nClusters, cfg: cfg, dist: dist}, nil
}

// Fit clusters X around nClusters medoids.
func (m *KMedoids) Fit(X []Series) error {
	if _, _, err := validateCollection(X); err != nil {
		return err
	}
	if m.nClusters > len(X) {
		return fmt.Errorf("n_clusters (%d) cannot be larger than n_cases (%d): %w",
			m.nClusters, len(X), ErrInvalidClusterCount)
	}

	rng := rand.New(rand.NewSource(m.cfg.RandomState))
	matrix := PairwiseSelf(X, m.dist)

	medoids := rng.Perm(len(X))[:m.nClusters]
	labels := make([]int, len(X))

	iters := 0
	for i := 0; i < m.cfg.MaxIter; i++ {
		iters = i + 1
		assignToMedoids(matrix, medoids, labels)

		changed := false
		for j := range medoids {
			// A cluster can briefly lose every member; keep its medoid and
			// let the next assignment repopulate it.
			if next := bestMedoid(matrix, labels, j); next >= 0 && next != medoids[j] {
				medoids[j] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	assignToMedoids(matrix, medoids, labels)

	var inertia float64
	for i, l := range labels {
		d := matrix[i][medoids[l]]
		inertia += d * d
	}

	m.labels = labels
	m.medoids = medoids
	m.centers = make([]Series, m.nClusters)
	for j, idx := range medoids {
		m.centers[j] = X[idx].Clone()
	}
	m.inertia = inertia
	m.nIter = iters
	m.fitted = true
	return nil
}

// Predict assigns each series in X to the nearest fitted medoid.
func (m *KMedoids) Predict(X []Series) ([]int, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if _, _, err := validateCollection(X); err != nil {
		return nil, err
	}
	labels, _ := nearestCenters(X, m.centers, m.dist)
	return labels, nil
}

// Labels returns a copy of the fitted cluster label per input series.
func (m *KMedoids) Labels() []int {
	return append([]int(nil), m.labels...)
}

// MedoidIndexes returns the fitted medoid positions within the training
// collection.
func (m *KMedoids) MedoidIndexes() []int {
	return append([]int(nil), m.medoids...)
}

// ClusterCenters returns the fitted medoid series. Treat as read-only.
func (m *KMedoids) ClusterCenters() []Series {
	return m.centers
}

// Inertia returns the fitted sum of squared distances to assigned medoids.
func (m *KMedoids) Inertia() float64 {
	return m.inertia
}

// NIter returns the number of iterations the fit ran.
func (m *KMedoids) NIter() int {
	return m.nIter
}

// assignToMedoids writes each series' nearest medoid cluster into labels
// using the precomputed pairwise matrix.
func assignToMedoids(matrix [][]float64, medoids []int, labels []int) {
	for i := range labels {
		best := matrix[i][medoids[0]]
		labels[i] = 0
		for j := 1; j < len(medoids); j++ {
			if d := matrix[i][medoids[j]]; d < best {
				best = d
				labels[i] = j
			}
		}
	}
}

// bestMedoid returns the member of cluster j minimizing the total distance
// to the cluster's other members; the lowest index wins ties.
func bestMedoid(matrix [][]float64, labels []int, j int) int {
	best := -1
	bestCost := math.Inf(1)
	for i, l := range labels {
		if l != j {
			continue
		}
		var cost float64
		for other, lo := range labels {
			if lo == j {
				cost += matrix[i][other]
			}
		}
		if cost < bestCost {
			bestCost = cost
			best = i
		}
	}
	return best
}

// nearestCenters assigns every series to its closest centre, returning
// labels and the distances backing them.
func nearestCenters(X []Series, centers []Series, dist ElasticDistance) ([]int, []float64) {
	labels := make([]int, len(X))
	dists := make([]float64, len(X))
	for i := range X {
		best := dist.Distance(X[i], centers[0])
		bestIdx := 0
		for j := 1; j < len(centers); j++ {
			if d := dist.Distance(X[i], centers[j]); d < best {
				best = d
				bestIdx = j
			}
		}
		labels[i] = bestIdx
		dists[i] = best
	}
	return labels, dists
}

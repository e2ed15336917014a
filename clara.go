package aeon

import (
	"fmt"
	"math"
	"math/rand"
)

// CLARAConfig configures a CLARA clusterer.
type CLARAConfig struct {
	// KMedoids configures the per-sample medoid fits.
	KMedoids KMedoidsConfig

	// NSamples is the subsample size per sampling iteration. Zero selects
	// the usual heuristic: min(n, 40 + 2k), but at least k+1.
	NSamples int

	// NSamplingIters is how many independent subsamples to try; the
	// lowest-inertia medoid set (scored on the FULL collection) wins.
	NSamplingIters int
}

// DefaultCLARAConfig returns the CLARA defaults: automatic sample size and
// 10 sampling iterations over default k-medoids fits.
func DefaultCLARAConfig() CLARAConfig {
	return CLARAConfig{
		KMedoids:       DefaultKMedoidsConfig(),
		NSamplingIters: 10,
	}
}

// CLARA (Clustering LARge Applications) scales k-medoids to collections
// where the O(n^2) pairwise matrix is unaffordable: it fits k-medoids on
// small random subsamples, scores each candidate medoid set against the
// full collection, and keeps the best. Only O(samples^2 + n*k) distance
// evaluations are needed per sampling iteration.
type CLARA struct {
	nClusters int
	cfg       CLARAConfig
	dist      ElasticDistance

	labels  []int
	centers []Series
	inertia float64
	nIter   int
	fitted  bool
}

// NewCLARA creates a CLARA clusterer.
func NewCLARA(nClusters int, cfg CLARAConfig) (*CLARA, error) {
	if nClusters <= 0 {
		return nil, fmt.Errorf("n_clusters must be positive, got %d: %w",
			nClusters, ErrInvalidClusterCount)
	}
	if cfg.NSamplingIters <= 0 {
		cfg.NSamplingIters = 10
	}

	dist := cfg.KMedoids.CustomDistance
	if dist == nil {
		var err error
		dist, err = NewElasticDistance(cfg.KMedoids.Distance, cfg.KMedoids.DistanceParams)
		if err != nil {
			return nil, fmt.Errorf("distance %q: %w", cfg.KMedoids.Distance, err)
		}
	}
	return &CLARA{nClusters: nClusters, cfg: cfg, dist: dist}, nil
}

// Fit clusters X by sampled k-medoids.
func (m *CLARA) Fit(X []Series) error {
	if _, _, err := validateCollection(X); err != nil {
		return err
	}
	n := len(X)
	if m.nClusters > n {
		return fmt.Errorf("n_clusters (%d) cannot be larger than n_cases (%d): %w",
			m.nClusters, n, ErrInvalidClusterCount)
	}

	nSamples := m.cfg.NSamples
	if nSamples <= 0 {
		nSamples = 40 + 2*m.nClusters
		if nSamples > n {
			nSamples = n
		}
		if nSamples < m.nClusters+1 {
			nSamples = m.nClusters + 1
		}
	}
	if nSamples > n {
		nSamples = n
	}

	rng := rand.New(rand.NewSource(m.cfg.KMedoids.RandomState))

	bestInertia := math.Inf(1)
	var bestCenters []Series
	var bestLabels []int
	bestIter := 0

	for s := 0; s < m.cfg.NSamplingIters; s++ {
		sample := X
		if nSamples < n {
			idxs := rng.Perm(n)[:nSamples]
			sample = make([]Series, nSamples)
			for p, idx := range idxs {
				sample[p] = X[idx]
			}
		}

		kmCfg := m.cfg.KMedoids
		kmCfg.CustomDistance = m.dist
		kmCfg.RandomState = rng.Int63()
		km, err := NewKMedoids(m.nClusters, kmCfg)
		if err != nil {
			return err
		}
		if err := km.Fit(sample); err != nil {
			return err
		}

		// Score the sample's medoids against the whole collection, not
		// just the subsample that produced them.
		centers := km.ClusterCenters()
		labels, dists := nearestCenters(X, centers, m.dist)
		inertia := sumSquares(dists)

		if inertia < bestInertia {
			bestInertia = inertia
			bestCenters = centers
			bestLabels = labels
			bestIter = km.NIter()
		}
	}

	m.labels = bestLabels
	m.centers = bestCenters
	m.inertia = bestInertia
	m.nIter = bestIter
	m.fitted = true
	return nil
}

// Predict assigns each series in X to the nearest fitted medoid.
func (m *CLARA) Predict(X []Series) ([]int, error) {
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
func (m *CLARA) Labels() []int {
	return append([]int(nil), m.labels...)
}

// ClusterCenters returns the fitted medoid series. Treat as read-only.
func (m *CLARA) ClusterCenters() []Series {
	return m.centers
}

// Inertia returns the fitted sum of squared distances over the full
// collection.
func (m *CLARA) Inertia() float64 {
	return m.inertia
}

// NIter returns the iteration count of the winning k-medoids fit.
func (m *CLARA) NIter() int {
	return m.nIter
}

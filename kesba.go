package aeon

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
)

// ErrNotFitted is returned when Predict or an accessor requiring a fitted
// model is called before a successful Fit.
var ErrNotFitted = errors.New("model has not been fitted")

// ErrInvalidClusterCount is returned when the requested number of clusters
// is non-positive or exceeds the number of series being fitted.
var ErrInvalidClusterCount = errors.New("invalid number of clusters")

// DefaultMaxIter is the default iteration budget for a single KESBA fit.
var DefaultMaxIter = 300

// KESBAConfig configures a KESBA clusterer. The zero value is not usable;
// start from DefaultKESBAConfig and override fields as needed.
type KESBAConfig struct {
	// Distance names the built-in elastic distance used throughout the fit.
	// CustomDistance, when non-nil, overrides it with a caller-supplied
	// implementation; the core only ever calls the resolved interface.
	Distance       DistanceKind
	DistanceParams DistanceParams
	CustomDistance ElasticDistance

	// Init selects the seeding procedure, Assignment the per-iteration
	// assignment engine.
	Init       InitStrategy
	Assignment AssignmentStrategy

	// Barycenter configures the stochastic-subgradient centroid update.
	Barycenter BarycenterConfig

	// MaxIter caps loop iterations per restart. Zero fits the seeding
	// result as-is. Negative values fall back to DefaultMaxIter.
	MaxIter int

	// Tol is reserved for a future inertia-based convergence criterion;
	// convergence is currently detected by label stability only.
	Tol float64

	// NumRestarts repeats the whole seed-and-iterate procedure and keeps
	// the lowest-inertia result. Values below 1 are treated as 1.
	NumRestarts int

	// SkipUnchangedClusters skips the barycenter update for clusters whose
	// membership did not change since the previous iteration.
	SkipUnchangedClusters bool

	// RandomState seeds the random generator; fits with the same data and
	// seed are fully reproducible.
	RandomState int64

	// Verbose emits per-iteration diagnostics to LogWriter (default
	// os.Stdout). Diagnostic printing only, no behavioral effect.
	Verbose   bool
	LogWriter io.Writer
}

// DefaultKESBAConfig returns the standard configuration: MSM distance with a
// half-length warping window, k-means++ seeding, pruned assignment, default
// barycenter settings, 300 iteration budget, a single restart.
func DefaultKESBAConfig() KESBAConfig {
	params := DefaultDistanceParams()
	params.Window = 0.5
	return KESBAConfig{
		Distance:       MSM,
		DistanceParams: params,
		Init:           KMeansPlusPlusInit,
		Assignment:     PrunedAssignment,
		Barycenter:     DefaultBarycenterConfig(),
		MaxIter:        DefaultMaxIter,
		Tol:            1e-6,
		NumRestarts:    1,
	}
}

// KESBA is a k-means-style time-series clusterer built on elastic distances:
// K-means with Elastic Similarity and Barycentre Averaging.
//
// Each iteration alternates two steps until the labels stop changing or the
// iteration budget runs out:
//
//   - UPDATE: recompute every cluster's centre as the elastic barycenter of
//     its members (stochastic subgradient averaging, see barycenter.go)
//   - ASSIGN: reassign every series to its nearest centre, using the
//     triangle inequality between centres to skip provably useless distance
//     evaluations (see assignment.go)
//
// Clusters that lose all members are repaired by reseeding them with the
// series farthest from its centre (see empty_cluster.go). When the loop
// stops, the lower-inertia configuration of the final two iterations is
// kept, guarding against a final assignment step that made things worse.
//
// A fitted model exposes Labels, ClusterCenters, Inertia, NIter and the
// per-phase distance-call counters. KESBA is not safe for concurrent use;
// one fit owns all of its state.
type KESBA struct {
	nClusters int
	cfg       KESBAConfig
	dist      ElasticDistance
	logW      io.Writer

	labels  []int
	centers []Series
	inertia float64
	nIter   int
	stats   DistanceCallStats
	fitted  bool
}

// fitState is the outcome of a single restart.
type fitState struct {
	labels  []int
	centres []Series
	inertia float64
	nIter   int
}

// NewKESBA creates a clusterer for the given number of clusters. The
// distance specification is resolved to a concrete implementation here,
// before any computation; unrecognized distance names fail eagerly with
// ErrUnknownDistanceKind.
func NewKESBA(nClusters int, cfg KESBAConfig) (*KESBA, error) {
	if nClusters <= 0 {
		return nil, fmt.Errorf("n_clusters must be positive, got %d: %w",
			nClusters, ErrInvalidClusterCount)
	}
	if cfg.MaxIter < 0 {
		cfg.MaxIter = DefaultMaxIter
	}
	if cfg.NumRestarts < 1 {
		cfg.NumRestarts = 1
	}

	dist := cfg.CustomDistance
	if dist == nil {
		var err error
		dist, err = NewElasticDistance(cfg.Distance, cfg.DistanceParams)
		if err != nil {
			return nil, fmt.Errorf("distance %q: %w", cfg.Distance, err)
		}
	}

	logW := cfg.LogWriter
	if logW == nil {
		logW = os.Stdout
	}

	return &KESBA{
		nClusters: nClusters,
		cfg:       cfg,
		dist:      dist,
		logW:      logW,
	}, nil
}

// Fit clusters X into nClusters groups. X is read-only for the duration of
// the call; all working state is created fresh, so independent fits never
// share anything. On success the fitted labels, centres, inertia, iteration
// count and distance-call counters are available through the accessors.
func (m *KESBA) Fit(X []Series) error {
	if _, _, err := validateCollection(X); err != nil {
		return err
	}
	if m.nClusters > len(X) {
		return fmt.Errorf("n_clusters (%d) cannot be larger than n_cases (%d): %w",
			m.nClusters, len(X), ErrInvalidClusterCount)
	}

	m.stats = DistanceCallStats{}
	rng := rand.New(rand.NewSource(m.cfg.RandomState))

	best := fitState{inertia: math.Inf(1)}
	for r := 0; r < m.cfg.NumRestarts; r++ {
		if m.cfg.Verbose && m.cfg.NumRestarts > 1 {
			fmt.Fprintf(m.logW, "starting restart %d\n", r+1)
		}
		state, err := m.fitOnce(X, rng)
		if err != nil {
			return err
		}
		if state.inertia < best.inertia {
			best = state
		}
	}

	m.labels = best.labels
	m.centers = best.centres
	m.inertia = best.inertia
	m.nIter = best.nIter
	m.fitted = true

	if m.cfg.Verbose {
		fmt.Fprintf(m.logW, "final inertia: %.5f after %d iterations\n", m.inertia, m.nIter)
		fmt.Fprintf(m.logW,
			"distance calls: init=%d update=%d assignment=%d empty=%d total=%d\n",
			m.stats.Init, m.stats.Update, m.stats.Assignment,
			m.stats.EmptyCluster, m.stats.Total())
	}
	return nil
}

// fitOnce runs one seed-and-iterate pass and returns the resulting state.
func (m *KESBA) fitOnce(X []Series, rng *rand.Rand) (fitState, error) {
	var centres []Series
	var distsToCentre []float64
	var labels []int
	if m.cfg.Init == RandomInit {
		centres, distsToCentre, labels = randomInit(X, m.nClusters, m.dist, rng, &m.stats)
	} else {
		centres, distsToCentre, labels = elasticKMeansPlusPlus(X, m.nClusters, m.dist, rng, &m.stats)
	}

	if m.cfg.Verbose {
		fmt.Fprintf(m.logW, "starting inertia: %.5f\n", sumSquares(distsToCentre))
	}
	if m.cfg.MaxIter == 0 {
		return fitState{
			labels:  labels,
			centres: centres,
			inertia: sumSquares(distsToCentre),
		}, nil
	}

	inertia := math.Inf(1)
	prevInertia := math.Inf(1)
	var prevLabels []int
	var prevCentres []Series
	var prevMembership clusterMembership
	var prevDistMatrix [][]float64

	iters := 0
	for i := 0; i < m.cfg.MaxIter; i++ {
		iters = i + 1

		membership := newClusterMembership(labels, m.nClusters)
		m.updateCentres(X, centres, distsToCentre, membership, prevMembership, rng)

		var distMatrix [][]float64
		if m.cfg.Assignment == LloydsAssignment {
			inertia = lloydsAssignment(X, centres, labels, distsToCentre, m.dist, &m.stats)
		} else {
			inertia, distMatrix = prunedAssignment(
				X, centres, labels, distsToCentre, m.dist,
				i == 0, prevCentres, prevDistMatrix, &m.stats,
			)
		}

		repaired, err := resolveEmptyClusters(X, centres, distsToCentre, labels, m.dist, &m.stats)
		if err != nil {
			return fitState{}, err
		}
		if repaired {
			inertia = sumSquares(distsToCentre)
			// Cached series-to-centre distances are stale after a repair.
			distMatrix = nil
		}

		if prevLabels != nil && equalLabels(labels, prevLabels) {
			if m.cfg.Verbose {
				fmt.Fprintf(m.logW, "converged at iteration %d, inertia %.5f\n", i, inertia)
			}
			break
		}

		prevInertia = inertia
		prevLabels = append([]int(nil), labels...)
		prevCentres = cloneCollection(centres)
		prevMembership = membership
		prevDistMatrix = distMatrix

		if m.cfg.Verbose {
			fmt.Fprintf(m.logW, "iteration %d, inertia %.5f\n", i, inertia)
		}
	}

	// The loop converges on label stability, not inertia, and the last
	// barycenter update is stochastic: the final assignment can score worse
	// than the configuration that triggered convergence. Keep whichever of
	// the last two iterations has the lower inertia.
	if prevInertia < inertia {
		return fitState{
			labels:  prevLabels,
			centres: prevCentres,
			inertia: prevInertia,
			nIter:   iters,
		}, nil
	}
	return fitState{
		labels:  labels,
		centres: centres,
		inertia: inertia,
		nIter:   iters,
	}, nil
}

// updateCentres runs barycenter averaging for every cluster, scattering each
// cluster's refreshed per-member distances back into distsToCentre. Clusters
// whose membership is unchanged since the previous iteration are skipped
// when that optimization is enabled.
func (m *KESBA) updateCentres(
	X []Series,
	centres []Series,
	distsToCentre []float64,
	membership, prevMembership clusterMembership,
	rng *rand.Rand,
) {
	for j := 0; j < m.nClusters; j++ {
		if m.cfg.SkipUnchangedClusters && membership.unchanged(prevMembership, j) {
			continue
		}

		idxs := membership.members(j)
		members := make([]Series, len(idxs))
		prevDists := make([]float64, len(idxs))
		var previousCost float64
		for p, idx := range idxs {
			members[p] = X[idx]
			prevDists[p] = distsToCentre[idx]
			previousCost += prevDists[p]
		}

		centre, dists, calls := elasticBarycenterAverage(
			members, centres[j], m.dist, m.cfg.Barycenter, rng, previousCost, prevDists,
		)
		m.stats.Update += calls
		centres[j] = centre
		for p, idx := range idxs {
			distsToCentre[idx] = dists[p]
		}
	}
}

// Predict assigns each series in X to the nearest fitted centre. The fitted
// state is not modified, so repeated calls with the same input return the
// same labels. Unlike Fit, no pruning is applied; prediction is a single
// pass, not an iterative loop.
func (m *KESBA) Predict(X []Series) ([]int, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if _, _, err := validateCollection(X); err != nil {
		return nil, err
	}

	labels := make([]int, len(X))
	for i := range X {
		best := m.dist.Distance(X[i], m.centers[0])
		for j := 1; j < len(m.centers); j++ {
			if d := m.dist.Distance(X[i], m.centers[j]); d < best {
				best = d
				labels[i] = j
			}
		}
	}
	return labels, nil
}

// FitPredict fits the model to X and returns the fitted labels.
func (m *KESBA) FitPredict(X []Series) ([]int, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Labels(), nil
}

// Labels returns a copy of the fitted cluster label per input series.
func (m *KESBA) Labels() []int {
	return append([]int(nil), m.labels...)
}

// ClusterCenters returns the fitted cluster centres. Treat as read-only.
func (m *KESBA) ClusterCenters() []Series {
	return m.centers
}

// Inertia returns the fitted sum of squared distances to assigned centres.
func (m *KESBA) Inertia() float64 {
	return m.inertia
}

// NIter returns the number of loop iterations the kept restart ran.
func (m *KESBA) NIter() int {
	return m.nIter
}

// DistanceCalls returns the distance-call counters accumulated across the
// whole fit, restarts included.
func (m *KESBA) DistanceCalls() DistanceCallStats {
	return m.stats
}

func sumSquares(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v * v
	}
	return sum
}

func equalLabels(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

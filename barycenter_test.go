package aeon

import (
	"math/rand"
	"testing"
)

func TestBarycenterSingleMember(t *testing.T) {
	member := UnivariateSeries([]float64{1, 2, 3})
	init := UnivariateSeries([]float64{9, 9, 9})
	dist, _ := NewElasticDistance(Squared, DefaultDistanceParams())
	rng := rand.New(rand.NewSource(1))

	center, dists, calls := elasticBarycenterAverage(
		[]Series{member}, init, dist, DefaultBarycenterConfig(), rng, -1, nil,
	)
	if !center.Equal(member) {
		t.Errorf("single-member barycenter = %v, want the member itself", center)
	}
	if len(dists) != 1 || dists[0] != 0 {
		t.Errorf("dists = %v, want [0]", dists)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestBarycenterEmptyMembers(t *testing.T) {
	init := UnivariateSeries([]float64{1, 2, 3})
	dist, _ := NewElasticDistance(Squared, DefaultDistanceParams())
	rng := rand.New(rand.NewSource(1))

	center, _, calls := elasticBarycenterAverage(
		nil, init, dist, DefaultBarycenterConfig(), rng, -1, nil,
	)
	if !center.Equal(init) {
		t.Errorf("empty-member barycenter = %v, want the init estimate", center)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestBarycenterImprovesCost(t *testing.T) {
	// Two constant series; under the squared distance the true barycenter is
	// the midpoint. Starting at one member, refinement must beat the initial
	// one-sided cost.
	members := []Series{
		UnivariateSeries([]float64{0, 0, 0, 0, 0, 0, 0, 0}),
		UnivariateSeries([]float64{2, 2, 2, 2, 2, 2, 2, 2}),
	}
	dist, _ := NewElasticDistance(Squared, DefaultDistanceParams())

	cfg := DefaultBarycenterConfig()
	cfg.MaxIters = 30
	cfg.SubsetFraction = 1.0
	rng := rand.New(rand.NewSource(3))

	center, dists, calls := elasticBarycenterAverage(
		members, members[0], dist, cfg, rng, -1, nil,
	)

	initialCost := dist.Distance(members[0], members[0]) + dist.Distance(members[0], members[1])
	var finalCost float64
	for _, d := range dists {
		finalCost += d
	}
	if finalCost >= initialCost {
		t.Errorf("refined cost %v did not improve on initial cost %v", finalCost, initialCost)
	}
	if calls == 0 {
		t.Error("no distance evaluations recorded")
	}
	for _, v := range center[0] {
		if v <= 0 || v >= 2 {
			t.Fatalf("center value %v outside the members' range (0, 2)", v)
		}
	}
}

func TestBarycenterDeterministic(t *testing.T) {
	members := []Series{
		UnivariateSeries([]float64{0, 1, 2, 3}),
		UnivariateSeries([]float64{1, 2, 3, 4}),
		UnivariateSeries([]float64{0, 2, 2, 4}),
	}
	init := members[0]
	dist, _ := NewElasticDistance(DTW, DefaultDistanceParams())
	cfg := DefaultBarycenterConfig()
	cfg.MaxIters = 10

	c1, d1, n1 := elasticBarycenterAverage(members, init, dist, cfg, rand.New(rand.NewSource(7)), -1, nil)
	c2, d2, n2 := elasticBarycenterAverage(members, init, dist, cfg, rand.New(rand.NewSource(7)), -1, nil)

	if !c1.Equal(c2) {
		t.Error("same seed produced different centers")
	}
	if n1 != n2 {
		t.Errorf("same seed produced different call counts: %d vs %d", n1, n2)
	}
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Fatalf("same seed produced different member distances at %d: %v vs %v", i, d1[i], d2[i])
		}
	}
}

func TestBarycenterReusesPreviousScores(t *testing.T) {
	// Supplying the initial estimate's cost and per-member distances skips
	// the initial scoring pass, saving len(members) evaluations.
	members := []Series{
		UnivariateSeries([]float64{0, 0, 0}),
		UnivariateSeries([]float64{1, 1, 1}),
	}
	dist, _ := NewElasticDistance(Squared, DefaultDistanceParams())
	cfg := DefaultBarycenterConfig()
	cfg.MaxIters = 5
	cfg.SubsetFraction = 1.0

	prevDists := []float64{
		dist.Distance(members[0], members[0]),
		dist.Distance(members[0], members[1]),
	}
	prevCost := prevDists[0] + prevDists[1]

	_, _, coldCalls := elasticBarycenterAverage(
		members, members[0], dist, cfg, rand.New(rand.NewSource(1)), -1, nil,
	)
	_, _, warmCalls := elasticBarycenterAverage(
		members, members[0], dist, cfg, rand.New(rand.NewSource(1)), prevCost, prevDists,
	)
	if warmCalls != coldCalls-len(members) {
		t.Errorf("warm start used %d calls, want %d", warmCalls, coldCalls-len(members))
	}
}

func TestStepScheduleShapes(t *testing.T) {
	cfg := BarycenterConfig{
		MaxIters:        10,
		InitialStepSize: 1.0,
		FinalStepSize:   0.1,
		Schedule:        LinearSchedule,
	}
	if got := cfg.stepSize(0); !almostEqual(got, 1.0) {
		t.Errorf("linear step(0) = %v, want 1.0", got)
	}
	if got := cfg.stepSize(9); !almostEqual(got, 0.1) {
		t.Errorf("linear step(last) = %v, want 0.1", got)
	}

	cfg.Schedule = ExponentialSchedule
	cfg.DecayRate = 0.5
	if got := cfg.stepSize(0); !almostEqual(got, 1.0) {
		t.Errorf("exponential step(0) = %v, want 1.0", got)
	}
	prev := cfg.stepSize(0)
	for i := 1; i < 10; i++ {
		cur := cfg.stepSize(i)
		if cur >= prev {
			t.Fatalf("exponential schedule not decreasing at %d: %v >= %v", i, cur, prev)
		}
		if cur < cfg.FinalStepSize {
			t.Fatalf("exponential schedule undershot the floor at %d: %v", i, cur)
		}
		prev = cur
	}
}

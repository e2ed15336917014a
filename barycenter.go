package aeon

import (
	"math"
	"math/rand"
)

// StepSchedule selects how the barycenter learning rate decays across
// refinement iterations.
type StepSchedule string

const (
	// LinearSchedule interpolates linearly from the initial to the final
	// step size over the configured iteration budget.
	LinearSchedule StepSchedule = "linear"

	// ExponentialSchedule decays exponentially from the initial step size
	// toward the final one: s(t) = final + (initial-final) * exp(-decay*t).
	ExponentialSchedule StepSchedule = "exponential"
)

// BarycenterConfig configures stochastic-subgradient barycenter averaging.
type BarycenterConfig struct {
	// MaxIters is the refinement iteration budget per averaging call.
	MaxIters int

	// InitialStepSize and FinalStepSize bound the decaying learning rate.
	InitialStepSize float64
	FinalStepSize   float64

	// Schedule selects the decay shape; DecayRate only applies to
	// ExponentialSchedule.
	Schedule  StepSchedule
	DecayRate float64

	// SubsetFraction is the fraction of cluster members sampled per
	// refinement iteration, in (0, 1].
	SubsetFraction float64

	// FullFirstSubset uses the complete member set on the first refinement
	// iteration regardless of SubsetFraction, warm-starting the estimate
	// before the cheaper stochastic iterations take over.
	FullFirstSubset bool
}

// DefaultBarycenterConfig returns the averaging defaults: 50 iterations,
// step size decaying exponentially from 0.05 to 0.005 with decay rate 0.1,
// half the members sampled per iteration, full first subset enabled.
func DefaultBarycenterConfig() BarycenterConfig {
	return BarycenterConfig{
		MaxIters:        50,
		InitialStepSize: 0.05,
		FinalStepSize:   0.005,
		Schedule:        ExponentialSchedule,
		DecayRate:       0.1,
		SubsetFraction:  0.5,
		FullFirstSubset: true,
	}
}

// stepSize evaluates the schedule at refinement iteration t.
func (c BarycenterConfig) stepSize(t int) float64 {
	switch c.Schedule {
	case ExponentialSchedule:
		return c.FinalStepSize +
			(c.InitialStepSize-c.FinalStepSize)*math.Exp(-c.DecayRate*float64(t))
	default:
		if c.MaxIters <= 1 {
			return c.InitialStepSize
		}
		frac := float64(t) / float64(c.MaxIters-1)
		return c.InitialStepSize + (c.FinalStepSize-c.InitialStepSize)*frac
	}
}

// elasticBarycenterAverage refines init toward the barycenter (Frechet mean)
// of members under the given elastic distance: the series minimizing the sum
// of distances to the member set. No closed form exists for elastic
// distances, so the estimate is improved by stochastic subgradient descent:
//
//  1. sample a subset of members
//  2. align each sampled member to the current estimate and accumulate the
//     subgradient of its distance contribution along the alignment
//  3. apply the accumulated update scaled by the decaying step size
//  4. score the updated estimate against ALL members (not just the subset)
//
// This is stochastic optimization, not strict descent: a worsening update is
// kept as the working estimate, but the best-scoring estimate seen across
// iterations is what is returned, together with the per-member distances
// under it and the number of distance evaluations spent.
//
// previousCost and previousDists, when supplied by the caller, score the
// initial estimate without re-evaluating it (the assignment step already
// knows each member's distance to the current centroid). Pass a negative
// previousCost to force evaluation.
//
// A single member is its own barycenter: it is returned unchanged with
// distance 0 and no iterations performed. Empty member sets never reach this
// function; the empty-cluster resolver repairs them upstream.
func elasticBarycenterAverage(
	members []Series,
	init Series,
	dist ElasticDistance,
	cfg BarycenterConfig,
	rng *rand.Rand,
	previousCost float64,
	previousDists []float64,
) (Series, []float64, int) {
	n := len(members)
	if n == 0 {
		return init.Clone(), nil, 0
	}
	if n == 1 {
		return members[0].Clone(), []float64{0}, 0
	}

	calls := 0
	center := init.Clone()

	bestCenter := center.Clone()
	var bestCost float64
	var bestDists []float64
	if previousCost >= 0 && len(previousDists) == n {
		bestCost = previousCost
		bestDists = append([]float64(nil), previousDists...)
	} else {
		bestDists = make([]float64, n)
		for i, m := range members {
			bestDists[i] = dist.Distance(center, m)
			bestCost += bestDists[i]
		}
		calls += n
	}

	prevCost := bestCost
	subsetSize := int(math.Ceil(cfg.SubsetFraction * float64(n)))
	if subsetSize < 1 {
		subsetSize = 1
	}
	if subsetSize > n {
		subsetSize = n
	}

	channels := center.NumChannels()
	points := center.NumTimepoints()
	grad := make(Series, channels)
	for c := range grad {
		grad[c] = make([]float64, points)
	}

	for iter := 0; iter < cfg.MaxIters; iter++ {
		size := subsetSize
		if iter == 0 && cfg.FullFirstSubset {
			size = n
		}
		subset := rng.Perm(n)[:size]

		for c := range grad {
			for t := range grad[c] {
				grad[c][t] = 0
			}
		}
		for _, idx := range subset {
			path, _ := dist.AlignmentPath(center, members[idx])
			calls++
			for _, p := range path {
				ci, mi := p[0], p[1]
				for c := 0; c < channels; c++ {
					grad[c][ci] += 2 * (center[c][ci] - members[idx][c][mi])
				}
			}
		}

		step := cfg.stepSize(iter) / float64(size)
		for c := 0; c < channels; c++ {
			for t := 0; t < points; t++ {
				center[c][t] -= step * grad[c][t]
			}
		}

		// Score against the full member set, not just the subset.
		dists := make([]float64, n)
		var cost float64
		for i, m := range members {
			dists[i] = dist.Distance(center, m)
			cost += dists[i]
		}
		calls += n

		if cost < bestCost {
			bestCost = cost
			bestCenter = center.Clone()
			bestDists = dists
		}
		if cost == prevCost {
			break
		}
		prevCost = cost
	}

	return bestCenter, bestDists, calls
}

package aeon

// DistanceCallStats counts elastic-distance evaluations performed during a
// single fit, broken down by the phase that issued them. The counters are
// diagnostics only: they never influence the fitted result, but they are
// deterministic for a fixed input and seed, which makes them useful for
// verifying that the triangle-inequality pruning actually skipped work.
type DistanceCallStats struct {
	// Init counts evaluations made by the seeding procedure.
	Init int

	// Update counts evaluations made by barycenter averaging.
	Update int

	// Assignment counts evaluations made by the assignment engine,
	// including the centre-to-centre matrix backing the pruning bound.
	Assignment int

	// EmptyCluster counts evaluations made while repairing empty clusters.
	EmptyCluster int
}

// Total returns the total number of elastic-distance evaluations.
func (s DistanceCallStats) Total() int {
	return s.Init + s.Update + s.Assignment + s.EmptyCluster
}

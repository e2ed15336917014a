package aeon

import "github.com/RoaringBitmap/roaring"

// clusterMembership captures which series belong to each cluster as roaring
// bitmaps. The update step compares a cluster's membership set against the
// previous iteration's to decide whether its barycenter needs recomputing at
// all; bitmap equality makes that check cheap even for large collections.
type clusterMembership []*roaring.Bitmap

// newClusterMembership builds per-cluster membership sets from a label
// vector. Every label must be a valid cluster index in [0, k).
func newClusterMembership(labels []int, k int) clusterMembership {
	sets := make(clusterMembership, k)
	for j := range sets {
		sets[j] = roaring.New()
	}
	for i, l := range labels {
		sets[l].Add(uint32(i))
	}
	return sets
}

// unchanged reports whether cluster j holds exactly the same members as in
// prev. A nil prev (first iteration) always counts as changed.
func (m clusterMembership) unchanged(prev clusterMembership, j int) bool {
	return prev != nil && m[j].Equals(prev[j])
}

// members returns cluster j's member indexes in ascending order.
func (m clusterMembership) members(j int) []uint32 {
	return m[j].ToArray()
}

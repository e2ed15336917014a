package aeon

import "sync/atomic"

// nodeIDCounter is a package-level counter for auto-incrementing node IDs.
var nodeIDCounter uint32

// SeriesNode pairs a time series with a unique identifier for storage in a
// SeriesIndex.
type SeriesNode struct {
	id     uint32
	series Series
}

// NewSeriesNode creates a node with an auto-incremented ID. The initializer
// is thread-safe and can be used concurrently.
func NewSeriesNode(series Series) *SeriesNode {
	id := atomic.AddUint32(&nodeIDCounter, 1)
	return &SeriesNode{id: id, series: series}
}

// NewSeriesNodeWithID creates a node with an explicit ID. The caller is
// responsible for keeping explicit IDs unique within an index.
func NewSeriesNodeWithID(id uint32, series Series) *SeriesNode {
	return &SeriesNode{id: id, series: series}
}

// ID returns the node's identifier.
func (n *SeriesNode) ID() uint32 {
	return n.id
}

// Data returns the node's series.
func (n *SeriesNode) Data() Series {
	return n.series
}

package aeon

import (
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// SeriesFilter restricts a similarity search to an explicit candidate set.
// It uses a roaring bitmap for fast membership testing during search.
type SeriesFilter struct {
	bitmap *roaring.Bitmap
}

// seriesFilterPool reuses SeriesFilter instances to reduce allocations on
// hot search paths.
var seriesFilterPool = sync.Pool{
	New: func() interface{} {
		return &SeriesFilter{
			bitmap: roaring.New(),
		}
	},
}

// NewSeriesFilter creates a filter from a list of node IDs. An empty list
// returns nil, meaning no filtering. Return the filter to the pool with
// ReturnSeriesFilter when done.
func NewSeriesFilter(ids []uint32) *SeriesFilter {
	if len(ids) == 0 {
		return nil
	}

	filter := seriesFilterPool.Get().(*SeriesFilter)
	filter.bitmap.Clear()
	for _, id := range ids {
		filter.bitmap.Add(id)
	}
	return filter
}

// ReturnSeriesFilter returns a filter to the pool for reuse. Do not use the
// filter after calling this.
func ReturnSeriesFilter(filter *SeriesFilter) {
	if filter != nil {
		seriesFilterPool.Put(filter)
	}
}

// IsEligible reports whether a node ID passes the filter. A nil filter
// admits everything.
func (f *SeriesFilter) IsEligible(id uint32) bool {
	if f == nil {
		return true
	}
	return f.bitmap.Contains(id)
}

// ShouldSkip is the negation of IsEligible, convenient in search loops.
func (f *SeriesFilter) ShouldSkip(id uint32) bool {
	return !f.IsEligible(id)
}

// Count returns the number of eligible IDs, or 0 for a nil filter (all
// eligible, no specific count).
func (f *SeriesFilter) Count() uint64 {
	if f == nil {
		return 0
	}
	return f.bitmap.GetCardinality()
}

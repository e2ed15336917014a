package aeon

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// SeriesIndex is an exhaustive (flat) similarity-search index over time
// series: a query is compared against every stored series under the
// configured elastic distance, which guarantees exact nearest neighbors at
// O(n) distance evaluations per query. Elastic distances are expensive
// enough that exhaustive search is the honest default; the candidate filter
// lets callers narrow the search set when they can.
//
// Stored series pass through a SeriesQuantizer, so a large reference
// collection can be held at half or int8 precision.
//
// Thread-safety: guarded by a read-write mutex. Multiple searches may run
// concurrently; Add, Remove and Flush are exclusive.
type SeriesIndex struct {
	// channels and timepoints fix the shape of every stored series.
	channels   int
	timepoints int

	// dist is the elastic distance used for all comparisons.
	dist ElasticDistance

	// quantizer converts series to and from their storage representation.
	quantizer SeriesQuantizer

	// entries holds the quantized series with their IDs, append-only
	// between flushes.
	entries []indexEntry

	// deleted tracks soft-deleted IDs. Deleted entries are skipped during
	// search and reclaimed by Flush.
	deleted *roaring.Bitmap

	mu sync.RWMutex
}

type indexEntry struct {
	id     uint32
	stored any
}

// NewSeriesIndex creates an index for series of the given shape. The
// quantizer type selects storage precision; Int8Precision requires a Train
// call before the first Add.
func NewSeriesIndex(channels, timepoints int, dist ElasticDistance, qType QuantizerType) (*SeriesIndex, error) {
	if channels <= 0 || timepoints <= 0 {
		return nil, fmt.Errorf("series shape must be positive, got (%d, %d)", channels, timepoints)
	}
	quantizer, err := NewSeriesQuantizer(qType)
	if err != nil {
		return nil, err
	}
	return &SeriesIndex{
		channels:   channels,
		timepoints: timepoints,
		dist:       dist,
		quantizer:  quantizer,
		deleted:    roaring.New(),
	}, nil
}

// Train prepares the index's quantizer from sample series. A no-op for
// full- and half-precision storage.
func (idx *SeriesIndex) Train(X []Series) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.quantizer.Train(X)
}

// Add stores a series node in the index.
func (idx *SeriesIndex) Add(node *SeriesNode) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	s := node.Data()
	if s.NumChannels() != idx.channels || s.NumTimepoints() != idx.timepoints {
		return fmt.Errorf("series shape mismatch: expected (%d, %d), got (%d, %d)",
			idx.channels, idx.timepoints, s.NumChannels(), s.NumTimepoints())
	}

	stored, err := idx.quantizer.Quantize(s)
	if err != nil {
		return err
	}
	idx.entries = append(idx.entries, indexEntry{id: node.ID(), stored: stored})
	return nil
}

// Remove soft-deletes a node by ID. The entry stays in storage but is
// skipped by searches until Flush reclaims it.
func (idx *SeriesIndex) Remove(id uint32) error {
	idx.mu.RLock()
	exists := false
	for _, e := range idx.entries {
		if e.id == id {
			exists = true
			break
		}
	}
	alreadyDeleted := idx.deleted.Contains(id)
	idx.mu.RUnlock()

	if !exists {
		return fmt.Errorf("series with ID %d not found", id)
	}
	if alreadyDeleted {
		return fmt.Errorf("series with ID %d already deleted", id)
	}

	idx.mu.Lock()
	idx.deleted.Add(id)
	idx.mu.Unlock()
	return nil
}

// Flush hard-deletes soft-deleted entries and reclaims their memory.
func (idx *SeriesIndex) Flush() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.deleted.IsEmpty() {
		return
	}
	kept := make([]indexEntry, 0, len(idx.entries))
	for _, e := range idx.entries {
		if !idx.deleted.Contains(e.id) {
			kept = append(kept, e)
		}
	}
	idx.entries = kept
	idx.deleted.Clear()
}

// Len returns the number of active (non-deleted) entries.
func (idx *SeriesIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries) - int(idx.deleted.GetCardinality())
}

// DistanceKind returns the kind of the index's elastic distance.
func (idx *SeriesIndex) DistanceKind() DistanceKind {
	return idx.dist.Kind()
}

// NewSearch creates a search builder for this index with default settings
// (k=10, no threshold, no filter).
func (idx *SeriesIndex) NewSearch() *SeriesSearch {
	return &SeriesSearch{
		index:     idx,
		k:         10,
		threshold: -1,
	}
}

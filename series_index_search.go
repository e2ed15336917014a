package aeon

import (
	"fmt"
	"sort"
)

// SeriesResult is a single similarity-search match.
type SeriesResult struct {
	ID       uint32
	Distance float64
}

// SeriesSearch is a fluent builder for searches against a SeriesIndex.
//
// Example:
//
//	results, err := idx.NewSearch().
//	    WithQuery(query).
//	    WithK(5).
//	    WithNormalize(true).
//	    Execute()
type SeriesSearch struct {
	index     *SeriesIndex
	query     Series
	k         int
	threshold float64
	filter    *SeriesFilter
	normalize bool
}

// WithQuery sets the query series.
func (s *SeriesSearch) WithQuery(query Series) *SeriesSearch {
	s.query = query
	return s
}

// WithK sets the number of nearest matches to return.
func (s *SeriesSearch) WithK(k int) *SeriesSearch {
	s.k = k
	return s
}

// WithThreshold keeps only matches at distance <= threshold. Negative
// values (the default) disable the cutoff.
func (s *SeriesSearch) WithThreshold(threshold float64) *SeriesSearch {
	s.threshold = threshold
	return s
}

// WithFilter restricts the search to the given node IDs. An empty list
// means no restriction.
func (s *SeriesSearch) WithFilter(ids ...uint32) *SeriesSearch {
	s.filter = NewSeriesFilter(ids)
	return s
}

// WithNormalize z-normalizes both the query and every candidate before
// computing distances, making matches shape-based rather than level-based.
func (s *SeriesSearch) WithNormalize(normalize bool) *SeriesSearch {
	s.normalize = normalize
	return s
}

// Execute runs the exhaustive search and returns matches sorted by
// ascending distance (ties broken by ID for determinism).
func (s *SeriesSearch) Execute() ([]SeriesResult, error) {
	defer func() {
		ReturnSeriesFilter(s.filter)
		s.filter = nil
	}()

	if s.query == nil {
		return nil, fmt.Errorf("search requires a query series")
	}

	idx := s.index
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if s.query.NumChannels() != idx.channels || s.query.NumTimepoints() != idx.timepoints {
		return nil, fmt.Errorf("query shape mismatch: expected (%d, %d), got (%d, %d)",
			idx.channels, idx.timepoints, s.query.NumChannels(), s.query.NumTimepoints())
	}

	query := s.query
	if s.normalize {
		query = query.ZNormalize()
	}

	results := make([]SeriesResult, 0, len(idx.entries))
	for _, e := range idx.entries {
		if idx.deleted.Contains(e.id) {
			continue
		}
		if s.filter.ShouldSkip(e.id) {
			continue
		}

		candidate, err := idx.quantizer.Dequantize(e.stored)
		if err != nil {
			return nil, fmt.Errorf("dequantize series %d: %w", e.id, err)
		}
		if s.normalize {
			candidate = candidate.ZNormalize()
		}

		d := idx.dist.Distance(query, candidate)
		if s.threshold >= 0 && d > s.threshold {
			continue
		}
		results = append(results, SeriesResult{ID: e.id, Distance: d})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})

	k := s.k
	if k <= 0 || k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

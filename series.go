package aeon

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyCollection is returned when an operation requires at least one series.
var ErrEmptyCollection = errors.New("series collection must be non-empty")

// ErrShapeMismatch is returned when series in a collection disagree on shape.
var ErrShapeMismatch = errors.New("all series must share the same shape")

// Series is a single multivariate time series laid out channels x timepoints.
// A univariate series of length m is a Series with one row of m values.
//
// Series values are float64 throughout. Elastic distance recurrences and the
// inertia bookkeeping in the clustering core are sensitive to accumulated
// rounding, and the convergence rule compares inertias across iterations.
type Series [][]float64

// UnivariateSeries wraps a plain slice of values as a single-channel Series.
func UnivariateSeries(values []float64) Series {
	return Series{values}
}

// NumChannels returns the number of channels (dimensions) in the series.
func (s Series) NumChannels() int {
	return len(s)
}

// NumTimepoints returns the number of timepoints in the series.
// All channels have the same length; the first channel is authoritative.
func (s Series) NumTimepoints() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Clone returns a deep copy of the series. The clustering loop relies on
// copy-before-mutate snapshots of centroids, so aliasing here would corrupt
// the triangle-inequality bookkeeping.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	for c := range s {
		out[c] = make([]float64, len(s[c]))
		copy(out[c], s[c])
	}
	return out
}

// Equal reports whether two series have identical shape and element-wise
// identical values. Exact float equality is intentional: the assignment
// engine uses it to detect centroids that did not move between iterations.
func (s Series) Equal(other Series) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if len(s[c]) != len(other[c]) {
			return false
		}
		for t := range s[c] {
			if s[c][t] != other[c][t] {
				return false
			}
		}
	}
	return true
}

// SameShape reports whether two series have the same channel count and length.
func (s Series) SameShape(other Series) bool {
	return s.NumChannels() == other.NumChannels() &&
		s.NumTimepoints() == other.NumTimepoints()
}

// ZNormalize returns a z-normalized copy of the series: each channel is
// shifted to zero mean and scaled to unit standard deviation. Channels with
// zero variance are returned as all-zero rather than dividing by zero.
func (s Series) ZNormalize() Series {
	out := make(Series, len(s))
	for c := range s {
		n := len(s[c])
		out[c] = make([]float64, n)
		if n == 0 {
			continue
		}
		var sum float64
		for _, v := range s[c] {
			sum += v
		}
		mean := sum / float64(n)
		var sq float64
		for _, v := range s[c] {
			d := v - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(n))
		if std == 0 {
			continue
		}
		for t, v := range s[c] {
			out[c][t] = (v - mean) / std
		}
	}
	return out
}

// validateCollection checks that X is non-empty and every series shares the
// shape of the first. Returns the common channel count and length.
func validateCollection(X []Series) (channels, timepoints int, err error) {
	if len(X) == 0 {
		return 0, 0, ErrEmptyCollection
	}
	channels = X[0].NumChannels()
	timepoints = X[0].NumTimepoints()
	if channels == 0 || timepoints == 0 {
		return 0, 0, fmt.Errorf("series 0 is empty: %w", ErrShapeMismatch)
	}
	for i, s := range X[1:] {
		if s.NumChannels() != channels || s.NumTimepoints() != timepoints {
			return 0, 0, fmt.Errorf(
				"series %d has shape (%d, %d), expected (%d, %d): %w",
				i+1, s.NumChannels(), s.NumTimepoints(), channels, timepoints,
				ErrShapeMismatch,
			)
		}
	}
	return channels, timepoints, nil
}

// MeanSeries returns the element-wise arithmetic mean of a collection.
// Used as a barycenter seed when no better initial centroid is available.
func MeanSeries(X []Series) (Series, error) {
	channels, timepoints, err := validateCollection(X)
	if err != nil {
		return nil, err
	}
	out := make(Series, channels)
	for c := 0; c < channels; c++ {
		out[c] = make([]float64, timepoints)
		for t := 0; t < timepoints; t++ {
			var sum float64
			for _, s := range X {
				sum += s[c][t]
			}
			out[c][t] = sum / float64(len(X))
		}
	}
	return out, nil
}

// cloneCollection deep-copies a slice of series.
func cloneCollection(X []Series) []Series {
	out := make([]Series, len(X))
	for i, s := range X {
		out[i] = s.Clone()
	}
	return out
}

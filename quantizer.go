package aeon

import (
	"fmt"
	"math"

	"github.com/x448/float16"
)

// QuantizerType represents the storage precision for series held in a
// SeriesIndex.
type QuantizerType string

const (
	// FullPrecision stores series as float64, 8 bytes per value.
	FullPrecision QuantizerType = "float64"

	// HalfPrecision stores series as IEEE 754 half floats, 2 bytes per
	// value (75% savings). No training required; precision loss is
	// negligible for z-normalized series.
	HalfPrecision QuantizerType = "float16"

	// Int8Precision maps [-AbsMax, AbsMax] to [-127, 127], 1 byte per
	// value. Requires training to learn AbsMax from sample series.
	Int8Precision QuantizerType = "int8"
)

// SeriesQuantizer converts between series and their compressed storage
// representations. Large reference collections (similarity search over
// thousands of long series) are dominated by raw value storage, so the
// index lets callers trade precision for memory.
type SeriesQuantizer interface {
	// Train prepares the quantizer using sample series. Required for
	// Int8Precision, no-op for the others.
	Train(X []Series)

	// IsTrained reports whether the quantizer is ready to use.
	IsTrained() bool

	// Quantize converts a series to the quantizer's storage format:
	// Series for FullPrecision, [][]uint16 for HalfPrecision (float16
	// bits), [][]int8 for Int8Precision.
	Quantize(s Series) (any, error)

	// Dequantize converts a stored series back to float64. The input type
	// must match the quantizer's storage format.
	Dequantize(stored any) (Series, error)

	// Type returns the quantizer type.
	Type() QuantizerType
}

// NewSeriesQuantizer creates a quantizer of the specified type.
func NewSeriesQuantizer(qType QuantizerType) (SeriesQuantizer, error) {
	switch qType {
	case FullPrecision:
		return &fullPrecisionQuantizer{}, nil
	case HalfPrecision:
		return &halfPrecisionQuantizer{}, nil
	case Int8Precision:
		return &int8Quantizer{}, nil
	default:
		return nil, fmt.Errorf("unsupported quantizer type: %s", qType)
	}
}

// fullPrecisionQuantizer is the no-op quantizer: series are deep-copied but
// kept at full float64 precision.
type fullPrecisionQuantizer struct{}

func (q *fullPrecisionQuantizer) Train(X []Series) {}

func (q *fullPrecisionQuantizer) IsTrained() bool { return true }

func (q *fullPrecisionQuantizer) Quantize(s Series) (any, error) {
	// Copy to prevent external modification of stored data.
	return s.Clone(), nil
}

func (q *fullPrecisionQuantizer) Dequantize(stored any) (Series, error) {
	s, ok := stored.(Series)
	if !ok {
		return nil, fmt.Errorf("expected Series, got %T", stored)
	}
	return s.Clone(), nil
}

func (q *fullPrecisionQuantizer) Type() QuantizerType { return FullPrecision }

// halfPrecisionQuantizer compresses values to 16-bit floats stored as their
// uint16 bit representations.
type halfPrecisionQuantizer struct{}

func (q *halfPrecisionQuantizer) Train(X []Series) {}

func (q *halfPrecisionQuantizer) IsTrained() bool { return true }

func (q *halfPrecisionQuantizer) Quantize(s Series) (any, error) {
	out := make([][]uint16, len(s))
	for c := range s {
		out[c] = make([]uint16, len(s[c]))
		for t, v := range s[c] {
			out[c][t] = float16.Fromfloat32(float32(v)).Bits()
		}
	}
	return out, nil
}

func (q *halfPrecisionQuantizer) Dequantize(stored any) (Series, error) {
	bits, ok := stored.([][]uint16)
	if !ok {
		return nil, fmt.Errorf("expected [][]uint16, got %T", stored)
	}
	out := make(Series, len(bits))
	for c := range bits {
		out[c] = make([]float64, len(bits[c]))
		for t, b := range bits[c] {
			out[c][t] = float64(float16.Frombits(b).Float32())
		}
	}
	return out, nil
}

func (q *halfPrecisionQuantizer) Type() QuantizerType { return HalfPrecision }

// int8Quantizer uses symmetric scalar quantization: training finds the
// maximum absolute value across sample series, and values are mapped
// linearly from [-AbsMax, AbsMax] to [-127, 127].
type int8Quantizer struct {
	absMax float64
}

func (q *int8Quantizer) Train(X []Series) {
	var max float64
	for _, s := range X {
		for c := range s {
			for _, v := range s[c] {
				if a := math.Abs(v); a > max {
					max = a
				}
			}
		}
	}
	q.absMax = max
}

func (q *int8Quantizer) IsTrained() bool { return q.absMax > 0 }

func (q *int8Quantizer) Quantize(s Series) (any, error) {
	if !q.IsTrained() {
		return nil, fmt.Errorf("int8 quantizer must be trained before use")
	}
	out := make([][]int8, len(s))
	for c := range s {
		out[c] = make([]int8, len(s[c]))
		for t, v := range s[c] {
			scaled := (v / q.absMax) * 127.0
			if scaled > 127 {
				scaled = 127
			} else if scaled < -127 {
				scaled = -127
			}
			out[c][t] = int8(math.Round(scaled))
		}
	}
	return out, nil
}

func (q *int8Quantizer) Dequantize(stored any) (Series, error) {
	vals, ok := stored.([][]int8)
	if !ok {
		return nil, fmt.Errorf("expected [][]int8, got %T", stored)
	}
	if !q.IsTrained() {
		return nil, fmt.Errorf("int8 quantizer must be trained before dequantization")
	}
	out := make(Series, len(vals))
	for c := range vals {
		out[c] = make([]float64, len(vals[c]))
		for t, v := range vals[c] {
			out[c][t] = (float64(v) / 127.0) * q.absMax
		}
	}
	return out, nil
}

func (q *int8Quantizer) Type() QuantizerType { return Int8Precision }

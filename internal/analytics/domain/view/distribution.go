package view

import (
	"math"

	dataset "energy-audit/internal/dataset/domain"
)

// histogramBins is the fixed bucket count for the distribution view.
const histogramBins = 50

// Distribution builds a histogram over the value field with all meters
// pooled. NaN values (unparseable cells) are left out of the pool. When
// every value is identical the histogram collapses to a single bucket.
func Distribution(ds *dataset.Dataset) (*Histogram, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	var values []float64
	for _, r := range ds.Readings() {
		if math.IsNaN(r.Value) {
			continue
		}
		values = append(values, r.Value)
	}
	if len(values) == 0 {
		return nil, ErrEmptyDataset
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := &Histogram{Title: "Value distribution"}
	if min == max {
		out.BinEdges = []float64{min, max}
		out.Counts = []int{len(values)}
		return out, nil
	}

	width := (max - min) / histogramBins
	out.Counts = make([]int, histogramBins)
	for i := 0; i <= histogramBins; i++ {
		out.BinEdges = append(out.BinEdges, min+float64(i)*width)
	}
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		out.Counts[idx]++
	}
	return out, nil
}

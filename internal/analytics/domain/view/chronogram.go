package view

import (
	dataset "energy-audit/internal/dataset/domain"
)

// Chronogram builds the raw chronological view, one series per meter in
// first-appearance order. No resampling: points stay exactly as read.
func Chronogram(ds *dataset.Dataset) (*ChronogramView, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	var order []string
	byMeter := map[string][]TimePoint{}
	for _, r := range ds.Readings() {
		if _, ok := byMeter[r.MeterID]; !ok {
			order = append(order, r.MeterID)
		}
		byMeter[r.MeterID] = append(byMeter[r.MeterID], TimePoint{At: r.Timestamp, Value: r.Value})
	}

	out := &ChronogramView{Title: "Chronogram"}
	for _, meter := range order {
		out.Series = append(out.Series, TimeSeries{Name: meter, Points: byMeter[meter]})
	}
	return out, nil
}

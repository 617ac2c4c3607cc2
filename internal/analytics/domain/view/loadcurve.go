package view

import (
	"sort"
	"time"

	dataset "energy-audit/internal/dataset/domain"
)

// LoadCurve builds the ranked load curve, one descending series per meter.
// Ties keep their original relative order.
func LoadCurve(ds *dataset.Dataset) (*Curve, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	var order []string
	byMeter := map[string][]float64{}
	for _, r := range ds.Readings() {
		if _, ok := byMeter[r.MeterID]; !ok {
			order = append(order, r.MeterID)
		}
		byMeter[r.MeterID] = append(byMeter[r.MeterID], r.Value)
	}

	curve := &Curve{Title: "Ranked load curve"}
	for _, meter := range order {
		values := byMeter[meter]
		sort.SliceStable(values, func(i, j int) bool { return values[i] > values[j] })
		curve.Series = append(curve.Series, Series{Name: meter, Values: values})
	}
	return curve, nil
}

// TotalLoadCurve builds the whole-building variant: values are summed
// across meters per timestamp before ranking.
func TotalLoadCurve(ds *dataset.Dataset) (*Curve, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	var order []time.Time
	totals := map[time.Time]float64{}
	for _, r := range ds.Readings() {
		ts := r.Timestamp
		if _, ok := totals[ts]; !ok {
			order = append(order, ts)
		}
		totals[ts] += r.Value
	}

	values := make([]float64, 0, len(order))
	for _, ts := range order {
		values = append(values, totals[ts])
	}
	sort.SliceStable(values, func(i, j int) bool { return values[i] > values[j] })

	return &Curve{
		Title:  "Ranked load curve (total)",
		Series: []Series{{Name: "total", Values: values}},
	}, nil
}

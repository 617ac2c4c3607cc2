package view

import (
	"errors"
	"testing"
	"time"

	dataset "energy-audit/internal/dataset/domain"
)

func sampleDataset(readings ...dataset.Reading) *dataset.Dataset {
	return dataset.New(readings, dataset.ColumnMapping{Timestamp: "Date", Meter: "Compteur", Value: "Valeur"})
}

func at(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

func TestAllViewsRejectEmptyDataset(t *testing.T) {
	ds := sampleDataset()

	if _, err := LoadCurve(ds); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("load curve: expected ErrEmptyDataset, got %v", err)
	}
	if _, err := TotalLoadCurve(ds); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("total load curve: expected ErrEmptyDataset, got %v", err)
	}
	if _, err := Chronogram(ds); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("chronogram: expected ErrEmptyDataset, got %v", err)
	}
	if _, err := HeatMap(ds); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("heat map: expected ErrEmptyDataset, got %v", err)
	}
	if _, err := Distribution(ds); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("distribution: expected ErrEmptyDataset, got %v", err)
	}
}

func TestLoadCurveIsNonIncreasingPerMeter(t *testing.T) {
	ds := sampleDataset(
		dataset.Reading{Timestamp: at(1, 8), MeterID: "M1", Value: 10},
		dataset.Reading{Timestamp: at(1, 9), MeterID: "M2", Value: 5},
		dataset.Reading{Timestamp: at(1, 10), MeterID: "M1", Value: 30},
		dataset.Reading{Timestamp: at(1, 11), MeterID: "M1", Value: 20},
		dataset.Reading{Timestamp: at(1, 12), MeterID: "M2", Value: 15},
	)

	curve, err := LoadCurve(ds)
	if err != nil {
		t.Fatalf("load curve: %v", err)
	}
	if len(curve.Series) != 2 {
		t.Fatalf("expected 2 meter series, got %d", len(curve.Series))
	}
	total := 0
	for _, series := range curve.Series {
		total += len(series.Values)
		for i := 1; i < len(series.Values); i++ {
			if series.Values[i] > series.Values[i-1] {
				t.Fatalf("series %s not non-increasing: %v", series.Name, series.Values)
			}
		}
	}
	if total != ds.Len() {
		t.Fatalf("series lengths must sum to row count, got %d", total)
	}
	if curve.Series[0].Name != "M1" {
		t.Fatalf("meters must keep first-appearance order, got %v", curve.Series[0].Name)
	}
}

func TestTotalLoadCurveSumsMetersPerTimestamp(t *testing.T) {
	ds := sampleDataset(
		dataset.Reading{Timestamp: at(1, 8), MeterID: "M1", Value: 10},
		dataset.Reading{Timestamp: at(1, 8), MeterID: "M2", Value: 5},
		dataset.Reading{Timestamp: at(1, 9), MeterID: "M1", Value: 40},
	)

	curve, err := TotalLoadCurve(ds)
	if err != nil {
		t.Fatalf("total load curve: %v", err)
	}
	if len(curve.Series) != 1 {
		t.Fatalf("expected a single total series, got %d", len(curve.Series))
	}
	values := curve.Series[0].Values
	if len(values) != 2 || values[0] != 40 || values[1] != 15 {
		t.Fatalf("unexpected total curve %v", values)
	}
}

func TestChronogramKeepsRawOrder(t *testing.T) {
	ds := sampleDataset(
		dataset.Reading{Timestamp: at(2, 0), MeterID: "M1", Value: 2},
		dataset.Reading{Timestamp: at(1, 0), MeterID: "M1", Value: 1},
	)

	chrono, err := Chronogram(ds)
	if err != nil {
		t.Fatalf("chronogram: %v", err)
	}
	points := chrono.Series[0].Points
	if len(points) != 2 || !points[0].At.Equal(at(2, 0)) {
		t.Fatalf("chronogram must not reorder points: %+v", points)
	}
}

func TestHeatMapDimensionsAndMeans(t *testing.T) {
	ds := sampleDataset(
		dataset.Reading{Timestamp: at(1, 8), MeterID: "M1", Value: 10},
		dataset.Reading{Timestamp: at(1, 8), MeterID: "M2", Value: 20},
		dataset.Reading{Timestamp: at(2, 9), MeterID: "M1", Value: 30},
	)

	hm, err := HeatMap(ds)
	if err != nil {
		t.Fatalf("heat map: %v", err)
	}
	if len(hm.Days) != 2 || len(hm.Hours) != 2 {
		t.Fatalf("expected 2x2 axes, got %v x %v", hm.Days, hm.Hours)
	}
	if len(hm.Cells) != 2 || len(hm.Cells[0]) != 2 {
		t.Fatalf("matrix dims must match axes")
	}
	if hm.Cells[0][0] == nil || *hm.Cells[0][0] != 15 {
		t.Fatalf("expected mean 15 for day 1 hour 8, got %v", hm.Cells[0][0])
	}
	if hm.Cells[0][1] != nil {
		t.Fatal("absent day/hour pair must be nil, not zero")
	}
	if hm.Cells[1][1] == nil || *hm.Cells[1][1] != 30 {
		t.Fatalf("expected 30 for day 2 hour 9, got %v", hm.Cells[1][1])
	}
}

func TestDistributionBinsValues(t *testing.T) {
	var readings []dataset.Reading
	for i := 0; i < 100; i++ {
		readings = append(readings, dataset.Reading{Timestamp: at(1, i%24), MeterID: "M1", Value: float64(i)})
	}
	hist, err := Distribution(sampleDataset(readings...))
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if len(hist.Counts) != 50 || len(hist.BinEdges) != 51 {
		t.Fatalf("expected 50 bins, got %d", len(hist.Counts))
	}
	total := 0
	for _, c := range hist.Counts {
		total += c
	}
	if total != 100 {
		t.Fatalf("bin counts must sum to value count, got %d", total)
	}
}

func TestDistributionSingleRowIsOneBucket(t *testing.T) {
	hist, err := Distribution(sampleDataset(
		dataset.Reading{Timestamp: at(1, 8), MeterID: "M1", Value: 42},
	))
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if len(hist.Counts) != 1 || hist.Counts[0] != 1 {
		t.Fatalf("expected one-bucket histogram, got %v", hist.Counts)
	}
}

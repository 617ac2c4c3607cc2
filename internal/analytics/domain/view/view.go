package view

import (
	"errors"
	"time"
)

// ErrEmptyDataset is returned by every view when the dataset has no rows.
var ErrEmptyDataset = errors.New("view: empty dataset")

// Series is a rank-indexed value sequence for one meter.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Curve is a plot-ready ranked load curve.
type Curve struct {
	Title  string   `json:"title"`
	Series []Series `json:"series"`
}

// TimePoint is one timestamped value.
type TimePoint struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// TimeSeries is a chronological value sequence for one meter.
type TimeSeries struct {
	Name   string      `json:"name"`
	Points []TimePoint `json:"points"`
}

// ChronogramView is a plot-ready chronological view, one series per meter.
type ChronogramView struct {
	Title  string       `json:"title"`
	Series []TimeSeries `json:"series"`
}

// HeatMapView is a day-by-hour matrix of mean consumption. Cells holds one
// row per day and one column per hour present in the data; a nil cell
// means the (day, hour) pair never occurs, it is not a zero.
type HeatMapView struct {
	Title string       `json:"title"`
	Days  []string     `json:"days"`
	Hours []int        `json:"hours"`
	Cells [][]*float64 `json:"cells"`
}

// Histogram is a fixed-bin value distribution pooled across meters.
type Histogram struct {
	Title    string    `json:"title"`
	BinEdges []float64 `json:"bin_edges"`
	Counts   []int     `json:"counts"`
}

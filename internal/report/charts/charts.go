package charts

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	charts "github.com/vicanso/go-charts/v2"

	"energy-audit/internal/analytics/domain/view"
)

const (
	chartWidth  = 1200
	chartHeight = 400
)

var padding = charts.Box{Top: 20, Right: 20, Bottom: 20, Left: 20}

// RenderCurve renders a ranked load curve to PNG.
func RenderCurve(curve *view.Curve) ([]byte, error) {
	longest := 0
	for _, series := range curve.Series {
		if len(series.Values) > longest {
			longest = len(series.Values)
		}
	}

	values := make([][]float64, 0, len(curve.Series))
	legend := make([]string, 0, len(curve.Series))
	for _, series := range curve.Series {
		row := append([]float64(nil), series.Values...)
		for len(row) < longest {
			row = append(row, charts.GetNullValue())
		}
		values = append(values, row)
		legend = append(legend, series.Name)
	}

	labels := make([]string, longest)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}

	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc(curve.Title),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(legend, charts.PositionRight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
		charts.PaddingOptionFunc(padding),
	)
	if err != nil {
		return nil, fmt.Errorf("charts: render load curve: %w", err)
	}
	return p.Bytes()
}

// RenderChronogram renders the chronological view to PNG. Series share an
// x axis built from the union of their timestamps; gaps become null
// values, not zeros.
func RenderChronogram(chrono *view.ChronogramView) ([]byte, error) {
	axisSet := map[time.Time]struct{}{}
	for _, series := range chrono.Series {
		for _, p := range series.Points {
			axisSet[p.At] = struct{}{}
		}
	}
	axis := make([]time.Time, 0, len(axisSet))
	for ts := range axisSet {
		axis = append(axis, ts)
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })

	index := make(map[time.Time]int, len(axis))
	labels := make([]string, len(axis))
	for i, ts := range axis {
		index[ts] = i
		labels[i] = ts.Format("2006-01-02 15:04")
	}

	values := make([][]float64, 0, len(chrono.Series))
	legend := make([]string, 0, len(chrono.Series))
	for _, series := range chrono.Series {
		row := make([]float64, len(axis))
		for i := range row {
			row[i] = charts.GetNullValue()
		}
		for _, p := range series.Points {
			row[index[p.At]] = p.Value
		}
		values = append(values, row)
		legend = append(legend, series.Name)
	}

	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc(chrono.Title),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(legend, charts.PositionRight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
		charts.PaddingOptionFunc(padding),
	)
	if err != nil {
		return nil, fmt.Errorf("charts: render chronogram: %w", err)
	}
	return p.Bytes()
}

// RenderHistogram renders the value distribution to PNG as a bar chart,
// one bar per bin labelled by its lower edge.
func RenderHistogram(hist *view.Histogram) ([]byte, error) {
	counts := make([]float64, len(hist.Counts))
	labels := make([]string, len(hist.Counts))
	for i, c := range hist.Counts {
		counts[i] = float64(c)
		labels[i] = strconv.FormatFloat(hist.BinEdges[i], 'g', 4, 64)
	}

	p, err := charts.BarRender(
		[][]float64{counts},
		charts.TitleTextOptionFunc(hist.Title),
		charts.XAxisDataOptionFunc(labels),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
		charts.PaddingOptionFunc(padding),
	)
	if err != nil {
		return nil, fmt.Errorf("charts: render histogram: %w", err)
	}
	return p.Bytes()
}

// RenderFitScatter renders the predicted-vs-actual comparison of a model
// fit to PNG: both series over the sample index, so divergence is visible
// point by point.
func RenderFitScatter(actual, predicted []float64) ([]byte, error) {
	labels := make([]string, len(actual))
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}

	p, err := charts.LineRender(
		[][]float64{append([]float64(nil), actual...), append([]float64(nil), predicted...)},
		charts.TitleTextOptionFunc("Model fit: actual vs predicted"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"actual", "predicted"}, charts.PositionRight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
		charts.PaddingOptionFunc(padding),
	)
	if err != nil {
		return nil, fmt.Errorf("charts: render fit comparison: %w", err)
	}
	return p.Bytes()
}

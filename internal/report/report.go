package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"

	"energy-audit/internal/analytics/domain/view"
	dataset "energy-audit/internal/dataset/domain"
)

// Variant selects which report rendering is produced.
type Variant string

const (
	// TextSummaryReport is the minimal report: title, record count and the
	// model summary when one is supplied.
	TextSummaryReport Variant = "summary"
	// FigureEmbeddingReport adds one page per chart image plus the heat
	// map grid.
	FigureEmbeddingReport Variant = "figures"
)

// Figure is one rendered chart destined for its own report page.
type Figure struct {
	Title string
	PNG   []byte
}

// BuildTextSummary renders the minimal audit report.
func BuildTextSummary(ds *dataset.Dataset, modelSummary string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.CellFormat(0, 10, "Energy Audit Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Readings: %d", ds.Len()), "", 1, "L", false, 0, "")
	mapping := ds.Mapping()
	pdf.CellFormat(0, 6, fmt.Sprintf("Columns: %s / %s / %s", mapping.Timestamp, mapping.Meter, mapping.Value), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)), "", 1, "L", false, 0, "")

	if modelSummary != "" {
		pdf.Ln(4)
		pdf.SetFont("Courier", "", 9)
		pdf.MultiCell(0, 5, modelSummary, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildFigureReport renders the richer report: the summary page, one page
// per supplied chart image, and a color grid page for the heat map when
// present.
func BuildFigureReport(ds *dataset.Dataset, figures []Figure, heat *view.HeatMapView, modelSummary string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.CellFormat(0, 10, "Energy Audit Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Readings: %d", ds.Len()), "", 1, "L", false, 0, "")
	if modelSummary != "" {
		pdf.Ln(4)
		pdf.SetFont("Courier", "", 9)
		pdf.MultiCell(0, 5, modelSummary, "", "L", false)
	}

	for i, figure := range figures {
		if len(figure.PNG) == 0 {
			continue
		}
		pdf.AddPage()
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, figure.Title, "", 1, "L", false, 0, "")

		name := fmt.Sprintf("figure-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(figure.PNG))
		pdf.ImageOptions(name, 10, 30, 190, 0, false, opts, 0, "")
	}

	if heat != nil {
		addHeatMapPage(pdf, heat)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// addHeatMapPage draws the day-by-hour grid with one filled cell per mean.
// Absent day/hour pairs stay unfilled.
func addHeatMapPage(pdf *gofpdf.Fpdf, heat *view.HeatMapView) {
	pdf.AddPage()
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, heat.Title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	min, max := math.Inf(1), math.Inf(-1)
	for _, row := range heat.Cells {
		for _, cell := range row {
			if cell == nil {
				continue
			}
			if *cell < min {
				min = *cell
			}
			if *cell > max {
				max = *cell
			}
		}
	}

	cellWidth := 170.0 / float64(len(heat.Hours)+1)
	if cellWidth > 22 {
		cellWidth = 22
	}

	pdf.SetFont("Arial", "B", 7)
	pdf.CellFormat(cellWidth, 5, "", "1", 0, "C", false, 0, "")
	for _, hour := range heat.Hours {
		pdf.CellFormat(cellWidth, 5, fmt.Sprintf("%02dh", hour), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for i, day := range heat.Days {
		pdf.CellFormat(cellWidth, 5, day, "1", 0, "C", false, 0, "")
		for j := range heat.Hours {
			cell := heat.Cells[i][j]
			if cell == nil {
				pdf.CellFormat(cellWidth, 5, "", "1", 0, "C", false, 0, "")
				continue
			}
			r, g, b := heatColor(*cell, min, max)
			pdf.SetFillColor(r, g, b)
			pdf.CellFormat(cellWidth, 5, fmt.Sprintf("%.1f", *cell), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

// heatColor maps a value onto a cold-to-hot ramp.
func heatColor(value, min, max float64) (int, int, int) {
	if max <= min {
		return 255, 220, 160
	}
	ratio := (value - min) / (max - min)
	r := int(90 + ratio*165)
	g := int(140 - ratio*60)
	b := int(255 - ratio*200)
	return r, g, b
}

package excel

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	dataset "energy-audit/internal/dataset/domain"
)

// ErrNoSheets is returned when the workbook has no worksheet.
var ErrNoSheets = errors.New("excel: workbook has no sheets")

// ErrNoHeader is returned when the first sheet has no header row.
var ErrNoHeader = errors.New("excel: missing header row")

// DecodeWorkbook reads the first sheet of an xlsx workbook into a raw
// table. The first row is the header; remaining rows are data. Cells are
// kept as the formatted strings excelize produces, so date cells come out
// in the sheet's display format.
func DecodeWorkbook(r io.Reader) (dataset.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("excel: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataset.Table{}, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return dataset.Table{}, fmt.Errorf("excel: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return dataset.Table{}, ErrNoHeader
	}

	table := dataset.Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// EncodeDataset renders a normalized dataset back to an xlsx workbook with
// the canonical column names, for download alongside the PDF report.
func EncodeDataset(ds *dataset.Dataset) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "readings"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Date")
	_ = f.SetCellValue(sheet, "B1", "Compteur")
	_ = f.SetCellValue(sheet, "C1", "Valeur")
	for i, name := range ds.FeatureNames() {
		cell, _ := excelize.CoordinatesToCellName(4+i, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}

	for i, r := range ds.Readings() {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Timestamp.Format("2006-01-02 15:04:05"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.MeterID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Value)
		for j, name := range ds.FeatureNames() {
			values, _ := ds.Feature(name)
			if values[i] == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(4+j, row)
			_ = f.SetCellValue(sheet, cell, *values[i])
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

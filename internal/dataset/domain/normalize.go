package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Role names the three semantic columns every input must provide.
type Role string

const (
	RoleTimestamp Role = "timestamp"
	RoleMeter     Role = "meter"
	RoleValue     Role = "value"
)

// roleVocabularies are the case-insensitive substrings that identify each
// role in arbitrary input column names.
var roleVocabularies = map[Role][]string{
	RoleTimestamp: {"date"},
	RoleMeter:     {"compteur", "meter"},
	RoleValue:     {"conso", "valeur"},
}

// timestampLayouts are tried in order for every timestamp cell.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Resolution is the outcome of matching one role against the input columns.
// Column is the first candidate in original column order; the full
// candidate list is kept so callers can see when the pick was ambiguous.
type Resolution struct {
	Column     string
	Index      int
	Candidates []string
}

// ResolveColumn matches a role vocabulary against column names. The policy
// is first match in original column order; a miss is a typed error naming
// the role.
func ResolveColumn(columns []string, role Role) (Resolution, error) {
	vocabulary := roleVocabularies[role]
	res := Resolution{Index: -1}
	for i, column := range columns {
		lowered := strings.ToLower(column)
		for _, term := range vocabulary {
			if strings.Contains(lowered, term) {
				if res.Index < 0 {
					res.Column = column
					res.Index = i
				}
				res.Candidates = append(res.Candidates, column)
				break
			}
		}
	}
	if res.Index < 0 {
		return Resolution{Index: -1}, &SchemaDetectionError{Role: string(role), Columns: columns}
	}
	return res, nil
}

// Normalize maps a raw table onto the canonical schema. Every row must
// carry a parseable timestamp; one bad cell fails the whole table.
// Columns not claimed by a role are retained as numeric covariates, with
// unparseable cells recorded as missing. An unparseable value cell becomes
// NaN so the defect surfaces at model-fit time rather than being dropped.
func Normalize(table Table) (*Dataset, error) {
	if len(table.Columns) == 0 {
		return nil, ErrEmptyTable
	}

	tsRes, err := ResolveColumn(table.Columns, RoleTimestamp)
	if err != nil {
		return nil, err
	}
	meterRes, err := ResolveColumn(table.Columns, RoleMeter)
	if err != nil {
		return nil, err
	}
	valueRes, err := ResolveColumn(table.Columns, RoleValue)
	if err != nil {
		return nil, err
	}

	claimed := map[int]struct{}{
		tsRes.Index:    {},
		meterRes.Index: {},
		valueRes.Index: {},
	}

	readings := make([]Reading, 0, len(table.Rows))
	for i, row := range table.Rows {
		tsCell := cellAt(row, tsRes.Index)
		ts, ok := parseTimestamp(tsCell)
		if !ok {
			return nil, &TimestampParseError{Row: i + 1, Cell: tsCell}
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(cellAt(row, valueRes.Index)), 64)
		if err != nil {
			value = math.NaN()
		}
		readings = append(readings, Reading{
			Timestamp: ts,
			MeterID:   strings.TrimSpace(cellAt(row, meterRes.Index)),
			Value:     value,
		})
	}

	ds := New(readings, ColumnMapping{
		Timestamp: tsRes.Column,
		Meter:     meterRes.Column,
		Value:     valueRes.Column,
	})
	for idx, column := range table.Columns {
		if _, ok := claimed[idx]; ok {
			continue
		}
		values := make([]*float64, len(table.Rows))
		for i, row := range table.Rows {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(cellAt(row, idx)), 64)
			if err != nil {
				continue
			}
			v := parsed
			values[i] = &v
		}
		ds, err = ds.WithFeature(column, values)
		if err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func parseTimestamp(cell string) (time.Time, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

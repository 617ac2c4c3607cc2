package dataset

import "time"

// Reading is one normalized meter observation.
type Reading struct {
	Timestamp time.Time
	MeterID   string
	Value     float64
}

// Table is a raw rectangular input before normalization.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnMapping records which source column resolved to each semantic role.
type ColumnMapping struct {
	Timestamp string `json:"timestamp"`
	Meter     string `json:"meter"`
	Value     string `json:"value"`
}

// Dataset is the canonical three-field table all analytics operate on,
// plus any leftover numeric columns kept as model covariates. A Dataset is
// an immutable snapshot: derived datasets are new values.
type Dataset struct {
	readings []Reading
	mapping  ColumnMapping
	features []string
	columns  map[string][]*float64
}

// New constructs a dataset from normalized readings.
func New(readings []Reading, mapping ColumnMapping) *Dataset {
	return &Dataset{
		readings: readings,
		mapping:  mapping,
		columns:  map[string][]*float64{},
	}
}

// Len returns the number of readings.
func (d *Dataset) Len() int { return len(d.readings) }

// Readings returns the readings in input order.
func (d *Dataset) Readings() []Reading { return d.readings }

// Mapping returns the resolved column mapping.
func (d *Dataset) Mapping() ColumnMapping { return d.mapping }

// FeatureNames lists the available covariate columns in input order.
func (d *Dataset) FeatureNames() []string { return d.features }

// Feature returns the covariate column values aligned to Readings.
// A nil entry is a missing value.
func (d *Dataset) Feature(name string) ([]*float64, bool) {
	values, ok := d.columns[name]
	return values, ok
}

// WithFeature returns a copy of the dataset with one covariate column
// added or replaced. Values must align one-to-one with the readings.
func (d *Dataset) WithFeature(name string, values []*float64) (*Dataset, error) {
	if name == "" {
		return nil, ErrEmptyFeatureName
	}
	if len(values) != len(d.readings) {
		return nil, ErrFeatureLengthMismatch
	}

	out := &Dataset{
		readings: d.readings,
		mapping:  d.mapping,
		features: make([]string, 0, len(d.features)+1),
		columns:  make(map[string][]*float64, len(d.columns)+1),
	}
	replaced := false
	for _, existing := range d.features {
		out.features = append(out.features, existing)
		if existing == name {
			replaced = true
		}
		out.columns[existing] = d.columns[existing]
	}
	if !replaced {
		out.features = append(out.features, name)
	}
	out.columns[name] = values
	return out, nil
}

// DistinctDates returns the distinct calendar dates of the readings in
// first-appearance order, truncated to midnight UTC.
func (d *Dataset) DistinctDates() []time.Time {
	seen := make(map[time.Time]struct{}, len(d.readings))
	var dates []time.Time
	for _, r := range d.readings {
		day := DayOf(r.Timestamp)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}
	return dates
}

// DayOf truncates a timestamp to its calendar date in UTC.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package weather

import (
	"context"
	"time"

	dataset "energy-audit/internal/dataset/domain"
)

// TemperatureFeature is the covariate column name added by enrichment.
const TemperatureFeature = "temperature"

// Location is the site coordinate weather is resolved for.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Observation is one per-date temperature lookup result. A nil
// Temperature means the upstream source had no matching record; that is
// degraded data, not an error.
type Observation struct {
	Date        time.Time
	Temperature *float64
}

// Resolver resolves one observation per distinct calendar date. A failed
// lookup for one date must not abort the others. Implementations may
// batch, parallelize or cache; callers only rely on one observation per
// distinct date in first-appearance order.
type Resolver interface {
	Resolve(ctx context.Context, dates []time.Time, loc Location) ([]Observation, error)
}

// Enrich left-joins observations onto the dataset by calendar date,
// producing a copy with a temperature covariate column. Every input row
// survives; meters sharing a date share the temperature.
func Enrich(ds *dataset.Dataset, observations []Observation) (*dataset.Dataset, error) {
	byDate := make(map[time.Time]*float64, len(observations))
	for _, obs := range observations {
		byDate[dataset.DayOf(obs.Date)] = obs.Temperature
	}

	values := make([]*float64, ds.Len())
	for i, r := range ds.Readings() {
		values[i] = byDate[dataset.DayOf(r.Timestamp)]
	}
	return ds.WithFeature(TemperatureFeature, values)
}

package meteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	dataset "energy-audit/internal/dataset/domain"
	weather "energy-audit/internal/weather/domain"
)

// Client resolves per-date temperature observations against a point-in-
// time observation service. Lookups run sequentially, one request per
// distinct date; any failure degrades to an absent temperature for that
// date only.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient constructs a meteo client.
func NewClient(baseURL string, logger *log.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("meteo: empty base url")
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}, nil
}

type featureCollection struct {
	Features []struct {
		Properties struct {
			Temperature *float64 `json:"temperature"`
		} `json:"properties"`
	} `json:"features"`
}

// Resolve fetches one observation per distinct date, keeping the dates'
// first-appearance order.
func (c *Client) Resolve(ctx context.Context, dates []time.Time, loc weather.Location) ([]weather.Observation, error) {
	seen := make(map[time.Time]struct{}, len(dates))
	var observations []weather.Observation
	for _, date := range dates {
		day := dataset.DayOf(date)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		observations = append(observations, weather.Observation{
			Date:        day,
			Temperature: c.lookup(ctx, day, loc),
		})
	}
	return observations, nil
}

func (c *Client) lookup(ctx context.Context, day time.Time, loc weather.Location) *float64 {
	query := url.Values{}
	query.Set("bbox", fmt.Sprintf("%v,%v,%v,%v", loc.Longitude, loc.Latitude, loc.Longitude, loc.Latitude))
	query.Set("datetime", day.Format("2006-01-02")+"T00:00:00Z")
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.warn("meteo request build failed for %s: %v", day.Format("2006-01-02"), err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.warn("meteo lookup failed for %s: %v", day.Format("2006-01-02"), err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warn("meteo lookup for %s returned status %d", day.Format("2006-01-02"), resp.StatusCode)
		return nil
	}

	var collection featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		c.warn("meteo response decode failed for %s: %v", day.Format("2006-01-02"), err)
		return nil
	}
	if len(collection.Features) == 0 {
		return nil
	}
	return collection.Features[0].Properties.Temperature
}

func (c *Client) warn(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

package nws

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
)

// Gridpoint resolution and data response types. Grid values arrive in meters;
// validTime is an ISO8601 interval, "2026-01-05T18:00:00+00:00/PT6H".

type pointResponse struct {
	Properties pointProperties `json:"properties"`
}

type pointProperties struct {
	ForecastGridData string `json:"forecastGridData"`
}

type gridResponse struct {
	Properties gridProperties `json:"properties"`
}

type gridProperties struct {
	SnowfallAmount  gridSeries `json:"snowfallAmount"`
	IceAccumulation gridSeries `json:"iceAccumulation"`
}

type gridSeries struct {
	UOM    string      `json:"uom"`
	Values []gridValue `json:"values"`
}

type gridValue struct {
	ValidTime string   `json:"validTime"`
	Value     *float64 `json:"value"` // null for unpopulated intervals
}

// FetchAccumulation returns 7-day snow and ice series for a coordinate from
// the gridpoint time-series forecast. A missing or empty series yields all
// zeros for that series, not an error.
func (c *Client) FetchAccumulation(ctx context.Context, lat, lon float64) (snow, ice domain.DailySeries, err error) {
	gridURL, err := c.resolveGridURL(ctx, lat, lon)
	if err != nil {
		return snow, ice, err
	}

	var resp gridResponse
	if err := c.fetcher.GetJSON(ctx, gridURL, c.headers("application/geo+json"), &resp); err != nil {
		return snow, ice, err
	}

	snow = aggregateDaily(resp.Properties.SnowfallAmount.Values)
	ice = aggregateDaily(resp.Properties.IceAccumulation.Values)
	return snow, ice, nil
}

// resolveGridURL maps a coordinate to its grid-data URL, via cache or the
// points endpoint.
func (c *Client) resolveGridURL(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("%.6f,%.6f", lat, lon)
	if url, ok := c.gridURLs.get(key); ok {
		return url, nil
	}

	url := fmt.Sprintf("%s/points/%.6f,%.6f", c.baseURL, lat, lon)
	var resp pointResponse
	if err := c.fetcher.GetJSON(ctx, url, c.headers("application/geo+json"), &resp); err != nil {
		return "", err
	}
	gridURL := resp.Properties.ForecastGridData
	if gridURL == "" {
		return "", fmt.Errorf("point %s has no forecastGridData URL", key)
	}

	c.gridURLs.put(key, gridURL)
	return gridURL, nil
}

// aggregateDaily buckets interval values by the UTC calendar date of each
// interval's start, sums per date, takes the first 7 distinct dates in
// ascending order, and converts meters to inches. Unparseable timestamps and
// null values are skipped.
func aggregateDaily(values []gridValue) domain.DailySeries {
	var series domain.DailySeries
	if len(values) == 0 {
		return series
	}

	byDate := make(map[string]float64)
	for _, v := range values {
		if v.Value == nil {
			continue
		}
		start, ok := intervalStart(v.ValidTime)
		if !ok {
			continue
		}
		byDate[start.UTC().Format(time.DateOnly)] += *v.Value
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > domain.ForecastDays {
		dates = dates[:domain.ForecastDays]
	}

	for i, d := range dates {
		series[i] = domain.MetersToInches(byDate[d])
	}
	return series
}

// intervalStart parses the start timestamp of an ISO8601 interval string.
func intervalStart(validTime string) (time.Time, bool) {
	ts, _, _ := strings.Cut(validTime, "/")
	start, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, false
	}
	return start, true
}

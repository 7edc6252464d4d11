// Package openmeteo queries the Open-Meteo daily forecast API, the fallback
// accumulation tier. Ice on this tier is a derived proxy estimate, not a
// direct measurement.
package openmeteo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
	"github.com/couchcryptid/severe-weather-monitor/internal/fetch"
)

// SourceTag identifies Open-Meteo as the producer of failure placeholders.
const SourceTag = "OPEN-METEO"

// warmSentinel stands in for a missing minimum temperature: warm enough that
// the ice proxy yields zero.
const warmSentinel = 999.0

// Client talks to the Open-Meteo forecast API.
type Client struct {
	fetcher *fetch.Client
	baseURL string
	proxy   domain.IceProxyParams
	logger  *slog.Logger
}

// NewClient creates an Open-Meteo client against the production API.
func NewClient(fetcher *fetch.Client, proxy domain.IceProxyParams, logger *slog.Logger) *Client {
	return &Client{
		fetcher: fetcher,
		baseURL: "https://api.open-meteo.com",
		proxy:   proxy,
		logger:  logger,
	}
}

// Forecast response: a map of field name to daily array over the horizon.
// freezing_rain_sum is deliberately not requested; it 400s for many
// locations, which is why ice is estimated from temperature and precipitation.

type forecastResponse struct {
	Daily dailyBlock `json:"daily"`
}

type dailyBlock struct {
	SnowfallSum      []float64 `json:"snowfall_sum"`       // cm
	PrecipitationSum []float64 `json:"precipitation_sum"`  // mm
	TemperatureMin   []float64 `json:"temperature_2m_min"` // C
}

// FetchAccumulation returns 7-day snow and ice series for a coordinate.
// Snow converts directly from snowfall_sum; ice is the documented proxy from
// precipitation and minimum temperature. Missing arrays yield zero snow and
// no ice (a missing temperature is treated as warm).
func (c *Client) FetchAccumulation(ctx context.Context, lat, lon float64) (snow, ice domain.DailySeries, err error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.6f&longitude=%.6f"+
			"&daily=snowfall_sum,precipitation_sum,temperature_2m_min"+
			"&forecast_days=%d&timezone=UTC",
		c.baseURL, lat, lon, domain.ForecastDays,
	)

	var resp forecastResponse
	headers := map[string]string{"Accept": "application/json"}
	if err := c.fetcher.GetJSON(ctx, url, headers, &resp); err != nil {
		return snow, ice, err
	}

	daily := resp.Daily
	for i := 0; i < domain.ForecastDays; i++ {
		snowCM := at(daily.SnowfallSum, i, 0)
		precipMM := at(daily.PrecipitationSum, i, 0)
		tminC := at(daily.TemperatureMin, i, warmSentinel)

		snow[i] = domain.SnowCmToInches(snowCM)
		ice[i] = domain.EstimateIceInches(precipMM, snowCM, tminC, c.proxy)
	}
	return snow, ice, nil
}

// at indexes a provider array that may be shorter than the horizon.
func at(vals []float64, i int, missing float64) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return missing
}

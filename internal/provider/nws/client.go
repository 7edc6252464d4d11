// Package nws queries the National Weather Service API: active alerts by
// point, and gridpoint accumulation time series.
package nws

import (
	"log/slog"

	"github.com/couchcryptid/severe-weather-monitor/internal/fetch"
)

// SourceTag identifies NWS as the producer of alert items.
const SourceTag = "NWS"

// Client talks to the NWS API. The NWS requires an identifying User-Agent on
// every request.
type Client struct {
	fetcher   *fetch.Client
	baseURL   string
	userAgent string
	logger    *slog.Logger

	// Point-to-grid resolution is stable per coordinate, so grid-data URLs
	// are cached across runs.
	gridURLs *gridURLCache
}

// NewClient creates an NWS client against the production API.
func NewClient(fetcher *fetch.Client, userAgent string, logger *slog.Logger) *Client {
	return &Client{
		fetcher:   fetcher,
		baseURL:   "https://api.weather.gov",
		userAgent: userAgent,
		logger:    logger,
		gridURLs:  newGridURLCache(256),
	}
}

func (c *Client) headers(accept string) map[string]string {
	return map[string]string{
		"User-Agent": c.userAgent,
		"Accept":     accept,
	}
}

package nws

import (
	"context"
	"fmt"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
)

// maxAlertFeatures caps how many features are considered per response,
// protecting against unbounded payloads.
const maxAlertFeatures = 50

// NWS active-alerts response types (GeoJSON feature collection).

type alertsResponse struct {
	Features []alertFeature `json:"features"`
}

type alertFeature struct {
	Properties alertProperties `json:"properties"`
}

type alertProperties struct {
	Headline string `json:"headline"`
	Event    string `json:"event"`
	// The API populates either effective or onset, and either ends or
	// expires, depending on product type. Both pairs are accepted.
	Effective string `json:"effective"`
	Onset     string `json:"onset"`
	Ends      string `json:"ends"`
	Expires   string `json:"expires"`
	Severity  string `json:"severity"`
}

// FetchAlerts returns the active alerts covering a coordinate.
func (c *Client) FetchAlerts(ctx context.Context, lat, lon float64) ([]domain.AlertItem, error) {
	url := fmt.Sprintf("%s/alerts/active?point=%.6f,%.6f", c.baseURL, lat, lon)

	var resp alertsResponse
	if err := c.fetcher.GetJSON(ctx, url, c.headers("application/geo+json"), &resp); err != nil {
		return nil, err
	}

	features := resp.Features
	if len(features) > maxAlertFeatures {
		features = features[:maxAlertFeatures]
	}

	alerts := make([]domain.AlertItem, 0, len(features))
	for _, f := range features {
		p := f.Properties
		title := p.Headline
		if title == "" {
			title = p.Event
		}
		if title == "" {
			title = "Alert"
		}
		alerts = append(alerts, domain.AlertItem{
			Title:    title,
			Starts:   coalesce(p.Effective, p.Onset),
			Ends:     coalesce(p.Ends, p.Expires),
			Severity: p.Severity,
			Source:   SourceTag,
		})
	}
	return alerts, nil
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

package domain

import (
	"fmt"
	"strings"
)

// fetchFailureMarker is the phrase embedded in every placeholder title.
// Kept for compatibility with downstream consumers that still distinguish
// placeholders by text; new code should rely on the FetchFailure flag.
const fetchFailureMarker = "fetch failed"

// AlertItem is one alert or bulletin attached to a site's result. Timestamps
// stay in provider-native string form; they are surfaced, not computed on.
// Created per evaluation and never mutated.
type AlertItem struct {
	Title    string `json:"title"`
	Starts   string `json:"starts,omitempty"`
	Ends     string `json:"ends,omitempty"`
	Severity string `json:"severity,omitempty"`
	Source   string `json:"source"`

	// FetchFailure marks a synthetic placeholder recording a provider
	// failure. Placeholders are visible in reports but are not real alerts
	// and never count toward alert presence.
	FetchFailure bool `json:"fetch_failure,omitempty"`
}

// FailureAlert builds the placeholder item recording a provider failure.
// The title embeds the failure marker phrase; what names the thing that
// failed ("Alert", "ECCC feed", "Open-Meteo").
func FailureAlert(source, what string, err error) AlertItem {
	return AlertItem{
		Title:        fmt.Sprintf("(%s %s) %v", what, fetchFailureMarker, err),
		Source:       source,
		FetchFailure: true,
	}
}

// HasRealAlerts reports whether the list contains at least one genuine alert.
// An item counts as a placeholder when either its structured flag is set or
// its title carries the marker phrase.
func HasRealAlerts(alerts []AlertItem) bool {
	if len(alerts) == 0 {
		return false
	}
	for _, a := range alerts {
		if a.FetchFailure || strings.Contains(strings.ToLower(a.Title), fetchFailureMarker) {
			return false
		}
	}
	return true
}

package nws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/severe-weather-monitor/internal/fetch"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(fetch.New(time.Second, 1, time.Millisecond), "test-agent (test@example.com)", slog.Default())
	c.baseURL = srv.URL
	return c
}

func TestFetchAlerts(t *testing.T) {
	var gotPath, gotAgent string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{
			"features": [
				{"properties": {
					"headline": "Winter Storm Warning issued January 5",
					"event": "Winter Storm Warning",
					"effective": "2026-01-05T10:00:00-06:00",
					"ends": "2026-01-06T18:00:00-06:00",
					"severity": "Severe"
				}},
				{"properties": {
					"event": "Special Weather Statement",
					"onset": "2026-01-05T12:00:00-06:00",
					"expires": "2026-01-05T20:00:00-06:00",
					"severity": "Moderate"
				}},
				{"properties": {"severity": "Unknown"}}
			]
		}`)) //nolint:errcheck
	}))

	alerts, err := c.FetchAlerts(context.Background(), 39.7392, -104.9903)
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	assert.Equal(t, "/alerts/active?point=39.739200,-104.990300", gotPath)
	assert.Equal(t, "test-agent (test@example.com)", gotAgent)

	assert.Equal(t, "Winter Storm Warning issued January 5", alerts[0].Title)
	assert.Equal(t, "2026-01-05T10:00:00-06:00", alerts[0].Starts)
	assert.Equal(t, "2026-01-06T18:00:00-06:00", alerts[0].Ends)
	assert.Equal(t, "Severe", alerts[0].Severity)
	assert.Equal(t, SourceTag, alerts[0].Source)
	assert.False(t, alerts[0].FetchFailure)

	// Headline absent: event is the title, onset/expires fill the window.
	assert.Equal(t, "Special Weather Statement", alerts[1].Title)
	assert.Equal(t, "2026-01-05T12:00:00-06:00", alerts[1].Starts)
	assert.Equal(t, "2026-01-05T20:00:00-06:00", alerts[1].Ends)

	// Neither headline nor event: generic title.
	assert.Equal(t, "Alert", alerts[2].Title)
}

func TestFetchAlertsEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"features": []}`)) //nolint:errcheck
	}))

	alerts, err := c.FetchAlerts(context.Background(), 40, -105)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestFetchAlertsCapsFeatures(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"features": [`)
		for i := 0; i < maxAlertFeatures+20; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"properties": {"event": "Alert %d"}}`, i)
		}
		fmt.Fprint(w, `]}`)
	}))

	alerts, err := c.FetchAlerts(context.Background(), 40, -105)
	require.NoError(t, err)
	assert.Len(t, alerts, maxAlertFeatures)
}

func TestFetchAlertsServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))

	_, err := c.FetchAlerts(context.Background(), 40, -105)
	assert.Error(t, err)
}

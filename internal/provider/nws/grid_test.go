package nws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
	"github.com/couchcryptid/severe-weather-monitor/internal/fetch"
)

func TestFetchAccumulation(t *testing.T) {
	var pointCalls atomic.Int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/points/", func(w http.ResponseWriter, _ *http.Request) {
		pointCalls.Add(1)
		fmt.Fprintf(w, `{"properties": {"forecastGridData": "%s/gridpoints/BOU/62,61"}}`, srv.URL)
	})
	mux.HandleFunc("/gridpoints/BOU/62,61", func(w http.ResponseWriter, _ *http.Request) {
		// 0.0254 m == 1 inch. Two intervals on Jan 5 sum before converting;
		// the null value and the garbage timestamp are skipped.
		w.Write([]byte(`{
			"properties": {
				"snowfallAmount": {
					"uom": "wmoUnit:m",
					"values": [
						{"validTime": "2026-01-05T06:00:00+00:00/PT6H", "value": 0.0254},
						{"validTime": "2026-01-05T12:00:00+00:00/PT6H", "value": 0.0254},
						{"validTime": "2026-01-06T00:00:00+00:00/PT12H", "value": 0.0508},
						{"validTime": "2026-01-07T00:00:00+00:00/PT6H", "value": null},
						{"validTime": "not-a-time/PT6H", "value": 0.1}
					]
				},
				"iceAccumulation": {
					"uom": "wmoUnit:m",
					"values": [
						{"validTime": "2026-01-06T00:00:00+00:00/PT6H", "value": 0.00254}
					]
				}
			}
		}`)) //nolint:errcheck
	})

	c := NewClient(fetch.New(time.Second, 1, time.Millisecond), "test-agent", slog.Default())
	c.baseURL = srv.URL

	snow, ice, err := c.FetchAccumulation(context.Background(), 39.7392, -104.9903)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, snow[0], 1e-6)
	assert.InDelta(t, 2.0, snow[1], 1e-6)
	assert.Zero(t, snow[2])
	assert.InDelta(t, 4.0, snow.Sum(), 1e-6)

	assert.InDelta(t, 0.1, ice[0], 1e-6)
	assert.InDelta(t, 0.1, ice.Sum(), 1e-6)

	// Second call reuses the cached grid URL.
	_, _, err = c.FetchAccumulation(context.Background(), 39.7392, -104.9903)
	require.NoError(t, err)
	assert.Equal(t, int32(1), pointCalls.Load())
}

func TestFetchAccumulationMissingGridURL(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"properties": {}}`)) //nolint:errcheck
	}))

	_, _, err := c.FetchAccumulation(context.Background(), 40, -105)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no forecastGridData URL")
}

func TestAggregateDaily(t *testing.T) {
	one := 0.0254
	val := func(ts string, v *float64) gridValue {
		return gridValue{ValidTime: ts, Value: v}
	}

	t.Run("empty input is all zeros", func(t *testing.T) {
		assert.Equal(t, domain.DailySeries{}, aggregateDaily(nil))
	})

	t.Run("buckets by utc date of interval start", func(t *testing.T) {
		// 23:00-05:00 UTC starts on Jan 5 and lands in the Jan 5 bucket even
		// though most of the interval is on Jan 6.
		s := aggregateDaily([]gridValue{
			val("2026-01-05T23:00:00+00:00/PT6H", &one),
			val("2026-01-06T05:00:00+00:00/PT6H", &one),
		})
		assert.InDelta(t, 1.0, s[0], 1e-6)
		assert.InDelta(t, 1.0, s[1], 1e-6)
	})

	t.Run("offset timestamps normalize to utc", func(t *testing.T) {
		// 19:00-06:00 is 01:00 UTC the next day.
		s := aggregateDaily([]gridValue{
			val("2026-01-05T19:00:00-06:00/PT6H", &one),
		})
		assert.Zero(t, s[0])
		assert.InDelta(t, 1.0, s[1], 1e-6)
	})

	t.Run("more than seven dates truncate", func(t *testing.T) {
		var values []gridValue
		for day := 1; day <= 10; day++ {
			values = append(values, val(fmt.Sprintf("2026-01-%02dT00:00:00+00:00/PT24H", day), &one))
		}
		s := aggregateDaily(values)
		assert.InDelta(t, 7.0, s.Sum(), 1e-6)
	})
}

func TestGridURLCache(t *testing.T) {
	c := newGridURLCache(2)

	c.put("a", "url-a")
	c.put("b", "url-b")

	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "url-a", got)

	// "b" is now least recently used and falls out.
	c.put("c", "url-c")
	_, ok = c.get("b")
	assert.False(t, ok)

	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)

	// Updating an existing key must not evict.
	c.put("a", "url-a2")
	got, ok = c.get("a")
	require.True(t, ok)
	assert.Equal(t, "url-a2", got)
	_, ok = c.get("c")
	assert.True(t, ok)
}

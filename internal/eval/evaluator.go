// Package eval orchestrates per-site evaluation: alert and accumulation
// acquisition with failure isolation, confidence grading, and risk
// classification.
package eval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
	"github.com/couchcryptid/severe-weather-monitor/internal/observability"
)

// PointAlerter queries an active-alerts API by coordinate.
type PointAlerter interface {
	FetchAlerts(ctx context.Context, lat, lon float64) ([]domain.AlertItem, error)
}

// FeedAlerter parses a per-site bulletin feed.
type FeedAlerter interface {
	FetchBulletins(ctx context.Context, feedURL string) ([]domain.AlertItem, error)
}

// AccumulationForecaster derives 7-day snow and ice series for a coordinate.
// Implemented by both the gridpoint tier and the daily-forecast fallback.
type AccumulationForecaster interface {
	FetchAccumulation(ctx context.Context, lat, lon float64) (snow, ice domain.DailySeries, err error)
}

// Evaluator evaluates sites against the configured providers and thresholds.
type Evaluator struct {
	pointAlerts PointAlerter
	bulletins   FeedAlerter
	grid        AccumulationForecaster
	daily       AccumulationForecaster
	thresholds  domain.Thresholds
	workers     int
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates an Evaluator. grid may be nil when no gridpoint tier is
// configured; daily is required.
func New(
	pointAlerts PointAlerter,
	bulletins FeedAlerter,
	grid, daily AccumulationForecaster,
	thresholds domain.Thresholds,
	workers int,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Evaluator {
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{
		pointAlerts: pointAlerts,
		bulletins:   bulletins,
		grid:        grid,
		daily:       daily,
		thresholds:  thresholds,
		workers:     workers,
		logger:      logger,
		metrics:     metrics,
	}
}

// EvaluateSite produces the result for a single site. It never fails: every
// provider failure degrades to a clearly-labeled placeholder alert, zeroed
// series, or a lower confidence grade instead of aborting.
func (e *Evaluator) EvaluateSite(ctx context.Context, site domain.Site) domain.SiteResult {
	alerts := e.fetchAlerts(ctx, site)
	snow, ice, confidence, accumAlert := e.fetchAccumulation(ctx, site)
	if accumAlert != nil {
		alerts = append(alerts, *accumAlert)
	}

	snow7d := snow.Sum()
	ice7d := ice.Sum()
	hasRealAlerts := domain.HasRealAlerts(alerts)
	level, reason := domain.ClassifyRisk(snow7d, ice7d, hasRealAlerts, e.thresholds)

	e.metrics.SitesEvaluated.Inc()
	e.metrics.RiskLevels.WithLabelValues(level.String()).Inc()
	e.metrics.Confidences.WithLabelValues(confidence.String()).Inc()

	return domain.SiteResult{
		SiteCode:    site.Code,
		SiteName:    site.Name,
		Country:     site.Country,
		Status:      site.Status,
		Lat:         site.Lat,
		Lon:         site.Lon,
		Address:     site.Address,
		Alerts:      alerts,
		DailySnowIn: snow,
		DailyIceIn:  ice,
		Snow7dIn:    snow7d,
		Ice7dIn:     ice7d,
		RiskLevel:   level,
		RiskReason:  reason,
		Confidence:  confidence,
		EvaluatedAt: domain.Now(),
	}
}

// fetchAlerts selects the alert source from the site's region capabilities.
// Failures become a single placeholder item; a region with no alert
// capability yields an empty list.
func (e *Evaluator) fetchAlerts(ctx context.Context, site domain.Site) []domain.AlertItem {
	switch {
	case site.Region.HasPointAlerts() && e.pointAlerts != nil:
		alerts, err := e.pointAlerts.FetchAlerts(ctx, site.Lat, site.Lon)
		if err != nil {
			e.logger.Warn("alert fetch failed", "site", site.Code, "error", err)
			e.metrics.ProviderRequests.WithLabelValues("nws", "error").Inc()
			return []domain.AlertItem{domain.FailureAlert("NWS", "Alert", err)}
		}
		e.metrics.ProviderRequests.WithLabelValues("nws", "success").Inc()
		return alerts

	case site.Region == domain.RegionCanada && site.FeedURL != "" && e.bulletins != nil:
		alerts, err := e.bulletins.FetchBulletins(ctx, site.FeedURL)
		if err != nil {
			e.logger.Warn("bulletin feed fetch failed", "site", site.Code, "feed_url", site.FeedURL, "error", err)
			e.metrics.ProviderRequests.WithLabelValues("eccc", "error").Inc()
			return []domain.AlertItem{domain.FailureAlert("ECCC(ATOM)", "ECCC feed", err)}
		}
		e.metrics.ProviderRequests.WithLabelValues("eccc", "success").Inc()
		return alerts
	}

	return nil
}

// fetchAccumulation applies the provider-selection policy: gridpoint tier
// when the region supports it (HIGH), daily-forecast fallback otherwise
// (MEDIUM), zeroed series plus a placeholder alert when the fallback also
// fails (LOW).
func (e *Evaluator) fetchAccumulation(ctx context.Context, site domain.Site) (snow, ice domain.DailySeries, confidence domain.Confidence, failure *domain.AlertItem) {
	if site.Region.HasGridForecast() && e.grid != nil {
		snow, ice, err := e.grid.FetchAccumulation(ctx, site.Lat, site.Lon)
		if err == nil {
			e.metrics.ProviderRequests.WithLabelValues("nws-grid", "success").Inc()
			return snow, ice, domain.ConfidenceHigh, nil
		}
		e.logger.Warn("gridpoint accumulation failed, falling back", "site", site.Code, "error", err)
		e.metrics.ProviderRequests.WithLabelValues("nws-grid", "error").Inc()
		e.metrics.AccumulationFallbacks.Inc()
	}

	snow, ice, err := e.daily.FetchAccumulation(ctx, site.Lat, site.Lon)
	if err != nil {
		e.logger.Warn("daily-forecast accumulation failed", "site", site.Code, "error", err)
		e.metrics.ProviderRequests.WithLabelValues("openmeteo", "error").Inc()
		alert := domain.FailureAlert("OPEN-METEO", "Open-Meteo", err)
		return domain.DailySeries{}, domain.DailySeries{}, domain.ConfidenceLow, &alert
	}
	e.metrics.ProviderRequests.WithLabelValues("openmeteo", "success").Inc()
	return snow, ice, domain.ConfidenceMedium, nil
}

// EvaluateAll evaluates every site on a bounded worker pool. Sites share no
// state, so each worker writes only its own result slot. Results come back
// sorted by site code; arrival order is irrelevant.
//
// A panic inside one site's evaluation is replaced by a conservative
// WARNING-tier result so one malfunctioning site never suppresses the report
// for the rest of the batch.
func (e *Evaluator) EvaluateAll(ctx context.Context, sites []domain.Site) []domain.SiteResult {
	results := make([]domain.SiteResult, len(sites))

	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for i, site := range sites {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("site evaluation panicked", "site", site.Code, "panic", r)
					e.metrics.SiteFailsafes.Inc()
					results[i] = e.failsafeResult(site, r)
				}
			}()
			results[i] = e.EvaluateSite(ctx, site)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	sort.Slice(results, func(a, b int) bool {
		return results[a].SiteCode < results[b].SiteCode
	})
	return results
}

// failsafeResult is the batch-level safety net: a synthetic WARNING result
// with an explanatory placeholder, erring on the side of caution.
func (e *Evaluator) failsafeResult(site domain.Site, cause any) domain.SiteResult {
	return domain.SiteResult{
		SiteCode:    site.Code,
		SiteName:    site.Name,
		Country:     site.Country,
		Status:      site.Status,
		Lat:         site.Lat,
		Lon:         site.Lon,
		Address:     site.Address,
		Alerts:      []domain.AlertItem{domain.FailureAlert("MONITOR", "Evaluation", fmt.Errorf("%v", cause))},
		RiskLevel:   domain.RiskWarning,
		RiskReason:  "Evaluation failed; conservative default",
		Confidence:  domain.ConfidenceLow,
		EvaluatedAt: domain.Now(),
	}
}

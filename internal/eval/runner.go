package eval

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
	"github.com/couchcryptid/severe-weather-monitor/internal/observability"
)

// BatchEvaluator evaluates a batch of sites into results.
type BatchEvaluator interface {
	EvaluateAll(ctx context.Context, sites []domain.Site) []domain.SiteResult
}

// ResultSink delivers a completed batch of results somewhere: report files,
// chat webhook, email, a message topic. Sinks treat results as read-only.
type ResultSink interface {
	Name() string
	Deliver(ctx context.Context, results []domain.SiteResult) error
}

// RunStatus summarizes the most recent completed run.
type RunStatus struct {
	LastRunAt    time.Time `json:"last_run_at"`
	SitesTotal   int       `json:"sites_total"`
	SitesFlagged int       `json:"sites_flagged"`
	Runs         int64     `json:"runs"`
}

// Runner executes the evaluate-and-deliver cycle on a fixed interval.
type Runner struct {
	evaluator BatchEvaluator
	sites     []domain.Site
	sinks     []ResultSink
	interval  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	mu     sync.Mutex
	status RunStatus
}

// NewRunner creates a Runner over a fixed site list.
func NewRunner(
	evaluator BatchEvaluator,
	sites []domain.Site,
	sinks []ResultSink,
	interval time.Duration,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Runner {
	return &Runner{
		evaluator: evaluator,
		sites:     sites,
		sinks:     sinks,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one run has completed.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no evaluation run has completed yet")
	}
	return nil
}

// Run executes an immediate run, then one per interval, until the context is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("monitor started", "sites", len(r.sites), "interval", r.interval)

	for {
		r.RunOnce(ctx)

		if !sleepWithContext(ctx, r.interval) {
			r.logger.Info("monitor stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// RunOnce evaluates all sites and delivers the results to every sink. Sink
// failures are logged and counted, never fatal: a broken webhook must not
// block the report files.
func (r *Runner) RunOnce(ctx context.Context) {
	start := time.Now()
	r.metrics.MonitorRunning.Set(1)
	defer r.metrics.MonitorRunning.Set(0)

	results := r.evaluator.EvaluateAll(ctx, r.sites)

	for _, sink := range r.sinks {
		if err := sink.Deliver(ctx, results); err != nil {
			r.logger.Error("result delivery failed", "sink", sink.Name(), "error", err)
			r.metrics.SinkErrors.WithLabelValues(sink.Name()).Inc()
		}
	}

	r.metrics.RunsTotal.Inc()
	r.metrics.RunDuration.Observe(time.Since(start).Seconds())
	r.ready.Store(true)

	flagged := countFlagged(results)
	r.mu.Lock()
	r.status = RunStatus{
		LastRunAt:    time.Now().UTC(),
		SitesTotal:   len(results),
		SitesFlagged: flagged,
		Runs:         r.status.Runs + 1,
	}
	r.mu.Unlock()

	r.logger.Info("evaluation run complete",
		"sites", len(results),
		"flagged", flagged,
		"duration", time.Since(start),
	)
}

// Status returns a snapshot of the most recent run.
func (r *Runner) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func countFlagged(results []domain.SiteResult) int {
	n := 0
	for _, res := range results {
		if res.RiskLevel != domain.RiskNone {
			n++
		}
	}
	return n
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

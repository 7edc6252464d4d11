package eval

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
	"github.com/couchcryptid/severe-weather-monitor/internal/observability"
)

type stubBatchEvaluator struct {
	results []domain.SiteResult
}

func (s *stubBatchEvaluator) EvaluateAll(context.Context, []domain.Site) []domain.SiteResult {
	return s.results
}

type recordingSink struct {
	name      string
	err       error
	delivered [][]domain.SiteResult
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, results []domain.SiteResult) error {
	s.delivered = append(s.delivered, results)
	return s.err
}

func newTestRunner(evaluator BatchEvaluator, sinks ...ResultSink) *Runner {
	return NewRunner(evaluator, []domain.Site{{Code: "DEN01"}}, sinks,
		time.Hour, slog.Default(), observability.NewMetricsForTesting())
}

func TestRunnerReadiness(t *testing.T) {
	r := newTestRunner(&stubBatchEvaluator{})

	assert.Error(t, r.CheckReadiness(context.Background()), "not ready before the first run")

	r.RunOnce(context.Background())
	assert.NoError(t, r.CheckReadiness(context.Background()))
}

func TestRunOnceDeliversToAllSinks(t *testing.T) {
	results := []domain.SiteResult{
		{SiteCode: "DEN01", RiskLevel: domain.RiskWarning},
		{SiteCode: "MSP02", RiskLevel: domain.RiskNone},
	}
	first := &recordingSink{name: "report"}
	second := &recordingSink{name: "teams"}
	r := newTestRunner(&stubBatchEvaluator{results: results}, first, second)

	r.RunOnce(context.Background())

	require.Len(t, first.delivered, 1)
	require.Len(t, second.delivered, 1)
	assert.Equal(t, results, first.delivered[0])
}

func TestRunOnceSinkFailureIsNotFatal(t *testing.T) {
	broken := &recordingSink{name: "teams", err: errors.New("webhook 410")}
	healthy := &recordingSink{name: "report"}
	r := newTestRunner(&stubBatchEvaluator{}, broken, healthy)

	r.RunOnce(context.Background())

	require.Len(t, healthy.delivered, 1, "later sinks still run after a failure")
	assert.NoError(t, r.CheckReadiness(context.Background()), "a sink failure does not block readiness")
}

func TestRunnerStatus(t *testing.T) {
	results := []domain.SiteResult{
		{SiteCode: "DEN01", RiskLevel: domain.RiskCritical},
		{SiteCode: "MSP02", RiskLevel: domain.RiskNone},
		{SiteCode: "YYZ01", RiskLevel: domain.RiskHeadsUp},
	}
	r := newTestRunner(&stubBatchEvaluator{results: results})

	assert.Zero(t, r.Status().Runs)

	r.RunOnce(context.Background())
	r.RunOnce(context.Background())

	st := r.Status()
	assert.Equal(t, int64(2), st.Runs)
	assert.Equal(t, 3, st.SitesTotal)
	assert.Equal(t, 2, st.SitesFlagged)
	assert.False(t, st.LastRunAt.IsZero())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	r := newTestRunner(&stubBatchEvaluator{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// First run happens immediately; cancelling ends the interval wait.
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}

func TestSleepWithContext(t *testing.T) {
	assert.True(t, sleepWithContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleepWithContext(ctx, time.Hour))
}

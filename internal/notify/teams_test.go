package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
	"github.com/couchcryptid/severe-weather-monitor/internal/fetch"
)

func TestTeamsDeliver(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewTeamsNotifier(fetch.New(time.Second, 1, time.Millisecond), srv.URL, "[Severe Wx] ", slog.Default())
	assert.Equal(t, "teams", n.Name())

	err := n.Deliver(context.Background(), []domain.SiteResult{
		flaggedResult("DEN01", domain.RiskCritical, 9, 0),
	})
	require.NoError(t, err)

	text := payload["text"]
	assert.True(t, strings.HasPrefix(text, "**[Severe Wx] 1 Critical, 0 Warning, 0 Heads-up**\n\n"))
	assert.Contains(t, text, "DEN01")
}

func TestTeamsDeliverTruncatesLongBodies(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	}))
	defer srv.Close()

	n := NewTeamsNotifier(fetch.New(time.Second, 1, time.Millisecond), srv.URL,
		strings.Repeat("x", maxTeamsBody), slog.Default())

	require.NoError(t, n.Deliver(context.Background(), nil))
	assert.Len(t, payload["text"], maxTeamsBody)
}

func TestTeamsDeliverDisabledWithoutURL(t *testing.T) {
	n := NewTeamsNotifier(fetch.New(time.Second, 1, time.Millisecond), "", "", slog.Default())
	assert.NoError(t, n.Deliver(context.Background(), nil))
}

func TestTeamsDeliverWebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	n := NewTeamsNotifier(fetch.New(time.Second, 1, time.Millisecond), srv.URL, "", slog.Default())
	err := n.Deliver(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post teams webhook")
}

func TestEmailNotifierDisabledWithoutConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  EmailConfig
	}{
		{name: "empty config", cfg: EmailConfig{}},
		{name: "missing recipients", cfg: EmailConfig{Host: "smtp.example.com", From: "wx@example.com"}},
		{name: "missing sender", cfg: EmailConfig{Host: "smtp.example.com", To: []string{"ops@example.com"}}},
		{name: "missing host", cfg: EmailConfig{From: "wx@example.com", To: []string{"ops@example.com"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewEmailNotifier(tt.cfg, slog.Default())
			assert.NoError(t, n.Deliver(context.Background(), nil))
		})
	}
}

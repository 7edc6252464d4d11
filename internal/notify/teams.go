package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
	"github.com/couchcryptid/severe-weather-monitor/internal/fetch"
)

// maxTeamsBody keeps the webhook payload under the connector's message limit.
const maxTeamsBody = 3500

// TeamsNotifier posts the run summary to a Teams incoming webhook.
type TeamsNotifier struct {
	fetcher       *fetch.Client
	webhookURL    string
	subjectPrefix string
	logger        *slog.Logger
}

// NewTeamsNotifier creates the webhook sink. An empty webhookURL disables it;
// Deliver becomes a no-op so the sink list stays uniform.
func NewTeamsNotifier(fetcher *fetch.Client, webhookURL, subjectPrefix string, logger *slog.Logger) *TeamsNotifier {
	return &TeamsNotifier{
		fetcher:       fetcher,
		webhookURL:    webhookURL,
		subjectPrefix: subjectPrefix,
		logger:        logger,
	}
}

// Name identifies the sink in logs and metrics.
func (t *TeamsNotifier) Name() string { return "teams" }

// Deliver posts the summary as simple webhook text.
func (t *TeamsNotifier) Deliver(ctx context.Context, results []domain.SiteResult) error {
	if t.webhookURL == "" {
		return nil
	}

	s := BuildSummary(results, t.subjectPrefix)
	text := fmt.Sprintf("**%s**\n\n%s", s.Subject, s.Body)
	if len(text) > maxTeamsBody {
		text = text[:maxTeamsBody]
	}

	if err := t.fetcher.PostJSON(ctx, t.webhookURL, map[string]string{"text": text}); err != nil {
		return fmt.Errorf("post teams webhook: %w", err)
	}
	t.logger.Info("teams notification sent", "subject", s.Subject)
	return nil
}

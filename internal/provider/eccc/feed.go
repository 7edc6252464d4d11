// Package eccc parses Environment Canada battleboard Atom feeds into alert
// items. Feeds are per-site: a site without a configured feed URL simply has
// no bulletin source.
package eccc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
	"github.com/couchcryptid/severe-weather-monitor/internal/fetch"
)

// SourceTag identifies the ECCC Atom feed as the producer of alert items.
const SourceTag = "ECCC(ATOM)"

// bulletinKeywords select actionable entry titles. ECCC battleboard feeds mix
// warnings with "no watches or warnings in effect" filler entries.
var bulletinKeywords = []string{
	"warning", "watch", "advisory", "statement",
	"special weather", "blizzard", "winter storm", "ice storm",
}

// Client fetches and filters ECCC bulletin feeds.
type Client struct {
	fetcher *fetch.Client
	parser  *gofeed.Parser
	logger  *slog.Logger
}

// NewClient creates an ECCC feed client.
func NewClient(fetcher *fetch.Client, logger *slog.Logger) *Client {
	return &Client{
		fetcher: fetcher,
		parser:  gofeed.NewParser(),
		logger:  logger,
	}
}

// FetchBulletins returns the keyword-matching entry titles of a feed,
// de-duplicated by exact title in first-seen order.
func (c *Client) FetchBulletins(ctx context.Context, feedURL string) ([]domain.AlertItem, error) {
	if feedURL == "" {
		return nil, nil
	}

	headers := map[string]string{
		"Accept": "application/atom+xml,application/xml,text/xml",
	}
	raw, err := c.fetcher.GetText(ctx, feedURL, headers)
	if err != nil {
		return nil, err
	}

	feed, err := c.parser.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	seen := make(map[string]struct{})
	var alerts []domain.AlertItem
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" || !matchesKeyword(title) {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		alerts = append(alerts, domain.AlertItem{
			Title:  title,
			Source: SourceTag,
		})
	}
	return alerts, nil
}

func matchesKeyword(title string) bool {
	lower := strings.ToLower(title)
	for _, k := range bulletinKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Package notify pushes run summaries to chat and email channels.
package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
)

// maxSummarySites caps how many flagged sites appear in a notification body.
const maxSummarySites = 12

// Summary is a rendered notification: a one-line subject and a short body.
type Summary struct {
	Subject string
	Body    string
}

// BuildSummary renders the notification for one run. The subject counts sites
// per tier; the body lists the worst flagged sites, most severe and heaviest
// first.
func BuildSummary(results []domain.SiteResult, subjectPrefix string) Summary {
	var critical, warning, headsUp int
	var flagged []domain.SiteResult
	for _, r := range results {
		switch r.RiskLevel {
		case domain.RiskCritical:
			critical++
		case domain.RiskWarning:
			warning++
		case domain.RiskHeadsUp:
			headsUp++
		default:
			continue
		}
		flagged = append(flagged, r)
	}

	subject := fmt.Sprintf("%s%d Critical, %d Warning, %d Heads-up",
		subjectPrefix, critical, warning, headsUp)

	if len(flagged) == 0 {
		return Summary{
			Subject: subject,
			Body:    "No sites flagged this run. Full details in the report files.",
		}
	}

	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].RiskLevel != flagged[j].RiskLevel {
			return flagged[i].RiskLevel > flagged[j].RiskLevel
		}
		if flagged[i].AccumulationScore() != flagged[j].AccumulationScore() {
			return flagged[i].AccumulationScore() > flagged[j].AccumulationScore()
		}
		return flagged[i].SiteCode < flagged[j].SiteCode
	})
	if len(flagged) > maxSummarySites {
		flagged = flagged[:maxSummarySites]
	}

	var b strings.Builder
	b.WriteString("Top flagged sites (next 7 days):\n")
	for _, r := range flagged {
		fmt.Fprintf(&b, "- %s: %s %s | Snow %.2f in | Ice %.2f in | Alerts %s\n",
			r.RiskLevel, r.SiteCode, r.SiteName,
			r.Snow7dIn, r.Ice7dIn, yesNo(len(r.Alerts) > 0))
	}
	b.WriteString("\nFull details in the report files.")

	return Summary{Subject: subject, Body: b.String()}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// Package report renders evaluation results as Markdown and CSV.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
)

// maxAlertsPerSite caps how many alerts appear in a site's detail section.
const maxAlertsPerSite = 10

// Meta carries run-level context for the report header.
type Meta struct {
	RunTime        time.Time
	TZLabel        string
	IceProxyFactor float64
}

// RenderMarkdown produces the full report: run header with the ice-proxy
// disclaimer, executive summary by tier, the all-sites table, and detail
// sections for flagged sites.
func RenderMarkdown(results []domain.SiteResult, meta Meta) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Severe Weather Monitor — 7-Day Rolling Outlook\n\n")
	fmt.Fprintf(&b, "**Run time:** %s  \n", meta.RunTime.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "**Timezone label:** %s\n\n", meta.TZLabel)
	fmt.Fprintf(&b, "**Ice method:** Proxy estimate (subfreezing min temp + precipitation), not a physical ice-accretion model. Factor=%g\n\n", meta.IceProxyFactor)

	writeSummary(&b, results)
	writeSiteTable(&b, results)
	writeDetails(&b, results)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeSummary(b *strings.Builder, results []domain.SiteResult) {
	b.WriteString("## Executive Summary\n\n")

	flagged := filterByLevel(results, domain.RiskNone)
	if len(flagged) == 0 {
		b.WriteString("No sites flagged (no active alerts and forecast accumulation below thresholds).\n\n")
		return
	}

	sections := []struct {
		level   domain.RiskLevel
		heading string
	}{
		{domain.RiskCritical, "Critical (act now)"},
		{domain.RiskWarning, "Warning"},
		{domain.RiskHeadsUp, "Heads-up"},
	}
	for _, sec := range sections {
		tier := selectLevel(results, sec.level)
		if len(tier) == 0 {
			continue
		}
		sortByAccumulation(tier)
		fmt.Fprintf(b, "### %s\n\n", sec.heading)
		for _, r := range tier {
			b.WriteString(summaryLine(r))
		}
		b.WriteString("\n")
	}
}

func summaryLine(r domain.SiteResult) string {
	return fmt.Sprintf("- **%s — %s** (%s) | Alerts: %s | Snow: %s in | Ice: %s in | **%s**\n",
		r.SiteCode, r.SiteName, r.Country, yesNo(len(r.Alerts) > 0),
		fmtIn(r.Snow7dIn), fmtIn(r.Ice7dIn), r.RiskLevel)
}

func writeSiteTable(b *strings.Builder, results []domain.SiteResult) {
	b.WriteString("## Site Table (All)\n\n")
	b.WriteString("| Site Code | Site | Country | Alerts | Snow (7d, in) | Ice (7d, in) | Risk | Confidence |\n")
	b.WriteString("|---|---|---|---:|---:|---:|---:|---:|\n")

	sorted := make([]domain.SiteResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SiteCode < sorted[j].SiteCode })

	for _, r := range sorted {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.SiteCode, r.SiteName, r.Country, yesNo(len(r.Alerts) > 0),
			fmtIn(r.Snow7dIn), fmtIn(r.Ice7dIn), r.RiskLevel, r.Confidence)
	}
	b.WriteString("\n")
}

func writeDetails(b *strings.Builder, results []domain.SiteResult) {
	flagged := filterByLevel(results, domain.RiskNone)
	if len(flagged) == 0 {
		return
	}
	// Most severe first; heaviest accumulation within a tier.
	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].RiskLevel != flagged[j].RiskLevel {
			return flagged[i].RiskLevel > flagged[j].RiskLevel
		}
		return flagged[i].AccumulationScore() > flagged[j].AccumulationScore()
	})

	b.WriteString("## Details (Flagged Sites)\n\n")
	for _, r := range flagged {
		fmt.Fprintf(b, "### %s — %s (%s)\n\n", r.SiteCode, r.SiteName, r.Country)
		fmt.Fprintf(b, "- **Risk:** %s — %s\n", r.RiskLevel, r.RiskReason)
		fmt.Fprintf(b, "- **7-day totals:** Snow %s in | Ice %s in\n", fmtIn(r.Snow7dIn), fmtIn(r.Ice7dIn))
		fmt.Fprintf(b, "- **Confidence:** %s\n", r.Confidence)
		if r.Address != "" {
			fmt.Fprintf(b, "- **Address:** %s\n", r.Address)
		}

		if len(r.Alerts) > 0 {
			b.WriteString("\n**Active Alerts:**\n\n")
			alerts := r.Alerts
			if len(alerts) > maxAlertsPerSite {
				alerts = alerts[:maxAlertsPerSite]
			}
			for _, a := range alerts {
				b.WriteString(alertLine(a))
			}
		}

		b.WriteString("\n**Daily accumulation (next 7 days, UTC buckets):**\n\n")
		fmt.Fprintf(b, "- Snow (in): %s\n", seriesLine(r.DailySnowIn))
		fmt.Fprintf(b, "- Ice  (in): %s\n\n", seriesLine(r.DailyIceIn))
	}
}

func alertLine(a domain.AlertItem) string {
	parts := []string{a.Title}
	if a.Starts != "" {
		parts = append(parts, "start: "+a.Starts)
	}
	if a.Ends != "" {
		parts = append(parts, "end: "+a.Ends)
	}
	if a.Severity != "" {
		parts = append(parts, "severity: "+a.Severity)
	}
	parts = append(parts, "source: "+a.Source)
	return "- " + strings.Join(parts, " | ") + "\n"
}

func seriesLine(s domain.DailySeries) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = fmtIn(v)
	}
	return strings.Join(parts, ", ")
}

// filterByLevel returns results above the given level.
func filterByLevel(results []domain.SiteResult, above domain.RiskLevel) []domain.SiteResult {
	var out []domain.SiteResult
	for _, r := range results {
		if r.RiskLevel > above {
			out = append(out, r)
		}
	}
	return out
}

func selectLevel(results []domain.SiteResult, level domain.RiskLevel) []domain.SiteResult {
	var out []domain.SiteResult
	for _, r := range results {
		if r.RiskLevel == level {
			out = append(out, r)
		}
	}
	return out
}

// sortByAccumulation orders heaviest first, site code as tiebreak.
func sortByAccumulation(results []domain.SiteResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].AccumulationScore() != results[j].AccumulationScore() {
			return results[i].AccumulationScore() > results[j].AccumulationScore()
		}
		return results[i].SiteCode < results[j].SiteCode
	})
}

func fmtIn(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

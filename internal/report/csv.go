package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
)

var csvColumns = []string{
	"site_code", "site_name", "country", "status", "lat", "lon",
	"risk_level", "risk_reason", "confidence",
	"snow_7d_in", "ice_7d_in",
	"alerts_count", "alerts_titles",
	"daily_snow_in", "daily_ice_in",
	"address", "evaluated_at",
}

// WriteCSV emits one row per site, sorted by site code, for spreadsheet
// consumers. Daily series serialize as JSON arrays inside their cell.
func WriteCSV(w io.Writer, results []domain.SiteResult) error {
	sorted := make([]domain.SiteResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SiteCode < sorted[j].SiteCode })

	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range sorted {
		row := []string{
			r.SiteCode,
			r.SiteName,
			r.Country,
			r.Status,
			fmt.Sprintf("%.6f", r.Lat),
			fmt.Sprintf("%.6f", r.Lon),
			r.RiskLevel.String(),
			r.RiskReason,
			r.Confidence.String(),
			fmt.Sprintf("%g", round3(r.Snow7dIn)),
			fmt.Sprintf("%g", round3(r.Ice7dIn)),
			fmt.Sprintf("%d", len(r.Alerts)),
			alertTitlesCell(r.Alerts),
			seriesCell(r.DailySnowIn),
			seriesCell(r.DailyIceIn),
			r.Address,
			r.EvaluatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", r.SiteCode, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// alertTitlesCell joins up to ten alert titles into one cell.
func alertTitlesCell(alerts []domain.AlertItem) string {
	if len(alerts) > maxAlertsPerSite {
		alerts = alerts[:maxAlertsPerSite]
	}
	titles := make([]string, len(alerts))
	for i, a := range alerts {
		titles[i] = a.Title
	}
	return strings.Join(titles, " || ")
}

// seriesCell serializes a daily series as a JSON array, values rounded to
// three decimals.
func seriesCell(s domain.DailySeries) string {
	rounded := make([]float64, len(s))
	for i, v := range s {
		rounded[i] = round3(v)
	}
	data, err := json.Marshal(rounded)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Command preview renders the Markdown and CSV reports from a synthetic
// batch of site results, without touching any provider. Useful for checking
// report formatting changes.
//
// Usage:
//
//	go run ./cmd/preview -md preview.md -csv preview.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
	"github.com/couchcryptid/severe-weather-monitor/internal/report"
)

var baseTime = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	mdOut := flag.String("md", "preview.md", "output path for the Markdown report")
	csvOut := flag.String("csv", "preview.csv", "output path for the CSV report")
	flag.Parse()

	// Fixed clock for reproducible timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(baseTime))
	defer domain.SetClock(nil)

	results := sampleResults()

	md := report.RenderMarkdown(results, report.Meta{
		RunTime:        baseTime,
		TZLabel:        "America/Chicago",
		IceProxyFactor: domain.DefaultIceProxyParams().Factor,
	})
	if err := os.WriteFile(*mdOut, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write markdown preview: %w", err)
	}

	f, err := os.Create(*csvOut)
	if err != nil {
		return fmt.Errorf("create csv preview: %w", err)
	}
	defer f.Close()
	if err := report.WriteCSV(f, results); err != nil {
		return err
	}

	log.Printf("wrote %s and %s (%d sites)", *mdOut, *csvOut, len(results))
	return nil
}

// sampleResults covers every risk tier, a degraded site, and a quiet site.
func sampleResults() []domain.SiteResult {
	th := domain.DefaultThresholds()

	build := func(code, name, country string, snow, ice domain.DailySeries, alerts []domain.AlertItem, conf domain.Confidence) domain.SiteResult {
		snow7d := snow.Sum()
		ice7d := ice.Sum()
		level, reason := domain.ClassifyRisk(snow7d, ice7d, domain.HasRealAlerts(alerts), th)
		return domain.SiteResult{
			SiteCode:    code,
			SiteName:    name,
			Country:     country,
			Status:      "active",
			Alerts:      alerts,
			DailySnowIn: snow,
			DailyIceIn:  ice,
			Snow7dIn:    snow7d,
			Ice7dIn:     ice7d,
			RiskLevel:   level,
			RiskReason:  reason,
			Confidence:  conf,
			EvaluatedAt: baseTime,
		}
	}

	return []domain.SiteResult{
		build("DEN01", "Denver Distribution Center", "United States",
			domain.DailySeries{0.5, 3.2, 4.1, 1.0, 0, 0, 0},
			domain.DailySeries{},
			[]domain.AlertItem{{
				Title:    "Winter Storm Warning",
				Starts:   "2026-01-15T06:00:00Z",
				Ends:     "2026-01-17T00:00:00Z",
				Severity: "Severe",
				Source:   "NWS",
			}},
			domain.ConfidenceHigh),
		build("MSP02", "Minneapolis Fulfillment Hub", "United States",
			domain.DailySeries{0, 2.1, 2.4, 0.3, 0, 0, 0},
			domain.DailySeries{0, 0.02, 0.04, 0, 0, 0, 0},
			nil,
			domain.ConfidenceHigh),
		build("YYZ01", "Toronto Logistics Park", "Canada",
			domain.DailySeries{0, 0.8, 1.4, 0, 0, 0, 0},
			domain.DailySeries{0, 0.03, 0.04, 0, 0, 0, 0},
			[]domain.AlertItem{{
				Title:  "Freezing Rain Warning",
				Source: "ECCC(ATOM)",
			}},
			domain.ConfidenceMedium),
		build("ATL03", "Atlanta Data Center", "United States",
			domain.DailySeries{},
			domain.DailySeries{},
			[]domain.AlertItem{domain.FailureAlert("OPEN-METEO", "Open-Meteo", fmt.Errorf("status 500"))},
			domain.ConfidenceLow),
		build("PHX01", "Phoenix Data Center", "United States",
			domain.DailySeries{},
			domain.DailySeries{},
			nil,
			domain.ConfidenceHigh),
	}
}

package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
)

// FileSink writes the Markdown and CSV reports to disk after each run.
// Either path may be empty to skip that format.
type FileSink struct {
	markdownPath   string
	csvPath        string
	tzLabel        string
	iceProxyFactor float64
	logger         *slog.Logger
}

// NewFileSink creates a FileSink.
func NewFileSink(markdownPath, csvPath, tzLabel string, iceProxyFactor float64, logger *slog.Logger) *FileSink {
	return &FileSink{
		markdownPath:   markdownPath,
		csvPath:        csvPath,
		tzLabel:        tzLabel,
		iceProxyFactor: iceProxyFactor,
		logger:         logger,
	}
}

// Name identifies the sink in logs and metrics.
func (s *FileSink) Name() string { return "report" }

// Deliver renders and writes the configured report files. A failed Markdown
// write does not prevent the CSV write.
func (s *FileSink) Deliver(_ context.Context, results []domain.SiteResult) error {
	var firstErr error

	if s.markdownPath != "" {
		md := RenderMarkdown(results, Meta{
			RunTime:        domain.Now(),
			TZLabel:        s.tzLabel,
			IceProxyFactor: s.iceProxyFactor,
		})
		if err := os.WriteFile(s.markdownPath, []byte(md), 0o644); err != nil {
			firstErr = fmt.Errorf("write markdown report: %w", err)
		} else {
			s.logger.Info("markdown report written", "path", s.markdownPath)
		}
	}

	if s.csvPath != "" {
		f, err := os.Create(s.csvPath)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("create csv report: %w", err)
			}
			return firstErr
		}
		if err := WriteCSV(f, results); err != nil {
			f.Close()
			if firstErr == nil {
				firstErr = err
			}
			return firstErr
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close csv report: %w", err)
		}
		if firstErr == nil {
			s.logger.Info("csv report written", "path", s.csvPath)
		}
	}

	return firstErr
}

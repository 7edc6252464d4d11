package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/severe-weather-monitor/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/severe-weather-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/severe-weather-monitor/internal/config"
	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
	"github.com/couchcryptid/severe-weather-monitor/internal/eval"
	"github.com/couchcryptid/severe-weather-monitor/internal/fetch"
	"github.com/couchcryptid/severe-weather-monitor/internal/notify"
	"github.com/couchcryptid/severe-weather-monitor/internal/observability"
	"github.com/couchcryptid/severe-weather-monitor/internal/provider/eccc"
	"github.com/couchcryptid/severe-weather-monitor/internal/provider/nws"
	"github.com/couchcryptid/severe-weather-monitor/internal/provider/openmeteo"
	"github.com/couchcryptid/severe-weather-monitor/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	sites, err := loadSites(cfg, logger)
	if err != nil {
		logger.Error("failed to load site list", "error", err)
		os.Exit(1)
	}

	fetcher := fetch.New(cfg.RequestTimeout, cfg.MaxRetries, cfg.RetrySleep)

	nwsClient := nws.NewClient(fetcher, cfg.NWSUserAgent, logger)
	openMeteoClient := openmeteo.NewClient(fetcher, cfg.IceProxy, logger)
	ecccClient := eccc.NewClient(fetcher, logger)

	evaluator := eval.New(
		nwsClient, ecccClient, nwsClient, openMeteoClient,
		cfg.Thresholds, cfg.Workers, logger, metrics,
	)

	sinks := []eval.ResultSink{
		report.NewFileSink(cfg.MarkdownPath, cfg.CSVPath, cfg.TZLabel, cfg.IceProxy.Factor, logger),
		notify.NewTeamsNotifier(fetcher, cfg.TeamsWebhookURL, cfg.EmailSubjectPrefix, logger),
		notify.NewEmailNotifier(notify.EmailConfig{
			Host:          cfg.SMTPHost,
			Port:          cfg.SMTPPort,
			Username:      cfg.SMTPUsername,
			Password:      cfg.SMTPPassword,
			From:          cfg.EmailFrom,
			To:            cfg.EmailTo,
			SubjectPrefix: cfg.EmailSubjectPrefix,
		}, logger),
	}

	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaResultsTopic, logger)
		sinks = append(sinks, publisher)
		logger.Info("kafka results publishing enabled", "topic", cfg.KafkaResultsTopic)
	} else {
		logger.Info("kafka results publishing disabled")
	}

	runner := eval.NewRunner(evaluator, sites, sinks, cfg.RunInterval, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunOnce {
		runner.RunOnce(ctx)
		closePublisher(publisher, logger)
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, runner, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := runner.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	closePublisher(publisher, logger)

	logger.Info("shutdown complete")
}

// loadSites prefers an operator-supplied CSV and falls back to the embedded
// default list.
func loadSites(cfg *config.Config, logger *slog.Logger) ([]domain.Site, error) {
	if cfg.SitesCSVPath != "" {
		f, err := os.Open(cfg.SitesCSVPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sites, err := domain.LoadSites(f)
		if err != nil {
			return nil, err
		}
		logger.Info("site list loaded", "path", cfg.SitesCSVPath, "sites", len(sites))
		return sites, nil
	}

	sites, err := domain.DefaultSites()
	if err != nil {
		return nil, err
	}
	logger.Info("embedded site list loaded", "sites", len(sites))
	return sites, nil
}

func closePublisher(p *kafkaadapter.Publisher, logger *slog.Logger) {
	if p == nil {
		return
	}
	if err := p.Close(); err != nil {
		logger.Error("kafka publisher close error", "error", err)
	}
}

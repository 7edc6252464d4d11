// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Provider settings.
	RequestTimeout time.Duration
	MaxRetries     int
	RetrySleep     time.Duration
	NWSUserAgent   string

	// Evaluation settings.
	Thresholds domain.Thresholds
	IceProxy   domain.IceProxyParams
	Workers    int

	// Run loop.
	RunInterval time.Duration
	RunOnce     bool

	// HTTP surface.
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Logging.
	LogLevel  string
	LogFormat string

	// Report output.
	MarkdownPath string
	CSVPath      string
	SitesCSVPath string
	TZLabel      string

	// Notifications.
	TeamsWebhookURL    string
	EmailSubjectPrefix string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	EmailFrom          string
	EmailTo            []string

	// Optional results publishing.
	KafkaBrokers      []string
	KafkaResultsTopic string
}

// KafkaEnabled reports whether results publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaResultsTopic != ""
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "25s")
	if err != nil {
		return nil, err
	}
	retrySleep, err := parseDuration("RETRY_SLEEP_SEC", "1200ms")
	if err != nil {
		return nil, err
	}
	runInterval, err := parseDuration("RUN_INTERVAL", "12h")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	maxRetries, err := parseInt("MAX_RETRIES", 4)
	if err != nil {
		return nil, err
	}
	workers, err := parseInt("WORKERS", 4)
	if err != nil {
		return nil, err
	}
	smtpPort, err := parseInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	thresholds, err := parseThresholds()
	if err != nil {
		return nil, err
	}
	iceProxy, err := parseIceProxy()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RequestTimeout: requestTimeout,
		MaxRetries:     maxRetries,
		RetrySleep:     retrySleep,
		NWSUserAgent:   envOrDefault("NWS_USER_AGENT", "severe-weather-monitor (ops@example.com)"),

		Thresholds: thresholds,
		IceProxy:   iceProxy,
		Workers:    workers,

		RunInterval: runInterval,
		RunOnce:     os.Getenv("RUN_ONCE") == "true",

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		MarkdownPath: envOrDefault("OUT_MD", "weather_warning_report.md"),
		CSVPath:      envOrDefault("OUT_CSV", "weather_warning_report.csv"),
		SitesCSVPath: os.Getenv("SITES_CSV_PATH"),
		TZLabel:      envOrDefault("LOCAL_TZ_LABEL", "America/Chicago"),

		TeamsWebhookURL:    os.Getenv("TEAMS_WEBHOOK_URL"),
		EmailSubjectPrefix: envOrDefault("EMAIL_SUBJECT_PREFIX", "[Severe Wx] "),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           smtpPort,
		SMTPUsername:       os.Getenv("SMTP_USER"),
		SMTPPassword:       os.Getenv("SMTP_PASS"),
		EmailFrom:          os.Getenv("EMAIL_FROM"),
		EmailTo:            parseList(os.Getenv("EMAIL_TO")),

		KafkaBrokers:      parseList(os.Getenv("KAFKA_BROKERS")),
		KafkaResultsTopic: os.Getenv("KAFKA_RESULTS_TOPIC"),
	}

	if cfg.MaxRetries < 1 {
		return nil, errors.New("MAX_RETRIES must be at least 1")
	}
	if cfg.Workers < 1 {
		return nil, errors.New("WORKERS must be at least 1")
	}
	if cfg.RunInterval <= 0 {
		return nil, errors.New("RUN_INTERVAL must be positive")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaResultsTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_RESULTS_TOPIC is not")
	}

	return cfg, nil
}

// parseThresholds reads the risk ladder, keeping each tier strictly above the
// previous so classification stays monotonic.
func parseThresholds() (domain.Thresholds, error) {
	th := domain.DefaultThresholds()
	var err error
	if th.SnowHeadsUpIn, err = parseFloat("SNOW_HEADSUP_IN", th.SnowHeadsUpIn); err != nil {
		return th, err
	}
	if th.SnowWarningIn, err = parseFloat("SNOW_WARNING_IN", th.SnowWarningIn); err != nil {
		return th, err
	}
	if th.SnowCriticalIn, err = parseFloat("SNOW_CRITICAL_IN", th.SnowCriticalIn); err != nil {
		return th, err
	}
	if th.IceHeadsUpIn, err = parseFloat("ICE_HEADSUP_IN", th.IceHeadsUpIn); err != nil {
		return th, err
	}
	if th.IceWarningIn, err = parseFloat("ICE_WARNING_IN", th.IceWarningIn); err != nil {
		return th, err
	}
	if th.IceCriticalIn, err = parseFloat("ICE_CRITICAL_IN", th.IceCriticalIn); err != nil {
		return th, err
	}

	if !(th.SnowHeadsUpIn < th.SnowWarningIn && th.SnowWarningIn < th.SnowCriticalIn) {
		return th, errors.New("snow thresholds must be strictly increasing")
	}
	if !(th.IceHeadsUpIn < th.IceWarningIn && th.IceWarningIn < th.IceCriticalIn) {
		return th, errors.New("ice thresholds must be strictly increasing")
	}
	return th, nil
}

func parseIceProxy() (domain.IceProxyParams, error) {
	p := domain.DefaultIceProxyParams()
	var err error
	if p.Factor, err = parseFloat("ICE_PROXY_FACTOR", p.Factor); err != nil {
		return p, err
	}
	if p.MaxInPerDay, err = parseFloat("ICE_PROXY_MAX_IN_PER_DAY", p.MaxInPerDay); err != nil {
		return p, err
	}
	if p.Factor < 0 || p.MaxInPerDay < 0 {
		return p, errors.New("ice proxy parameters must be non-negative")
	}
	return p, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

// parseList splits a comma-separated value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

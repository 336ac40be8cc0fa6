// Package config loads configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/easeaico/her-line/internal/line"
)

const (
	defaultListenAddr      = ":8080"
	defaultPersona         = "muryi"
	defaultMaxReplyRunes   = 1000
	defaultDeliveryTimeout = 10
	defaultLogLevel        = "info"

	// TracesExporterNone keeps spans in-process only; TracesExporterStdout
	// writes them to stdout as JSON.
	TracesExporterNone   = "none"
	TracesExporterStdout = "stdout"
)

// Config holds runtime settings.
type Config struct {
	ChannelSecret      string
	ChannelAccessToken string
	APIEndpoint        string
	ListenAddr         string
	PersonaDir         string
	DefaultPersona     string
	MaxReplyRunes      int
	DeliveryTimeout    time.Duration
	MoodTone           bool
	LogLevel           string
	LogDevelopment     bool
	TracesExporter     string
}

// Load reads env vars, applies defaults, and validates required fields.
func Load() (Config, error) {
	cfg := Config{
		ChannelSecret:      os.Getenv("LINE_CHANNEL_SECRET"),
		ChannelAccessToken: os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		APIEndpoint:        os.Getenv("LINE_API_ENDPOINT"),
		ListenAddr:         os.Getenv("LISTEN_ADDR"),
		PersonaDir:         os.Getenv("PERSONA_DIR"),
		DefaultPersona:     os.Getenv("DEFAULT_PERSONA"),
		LogLevel:           strings.ToLower(os.Getenv("LOG_LEVEL")),
		TracesExporter:     strings.ToLower(os.Getenv("OTEL_TRACES_EXPORTER")),
	}

	cfg.MaxReplyRunes = getEnvInt("MAX_REPLY_RUNES", defaultMaxReplyRunes)
	cfg.DeliveryTimeout = time.Duration(getEnvInt("DELIVERY_TIMEOUT_SECONDS", defaultDeliveryTimeout)) * time.Second
	cfg.MoodTone = getEnvBool("MOOD_TONE", true)
	cfg.LogDevelopment = getEnvBool("LOG_DEVELOPMENT", false)

	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = line.DefaultEndpoint
	}
	if cfg.TracesExporter == "" {
		cfg.TracesExporter = TracesExporterNone
	}
	if cfg.ListenAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.ListenAddr = ":" + port
		} else {
			cfg.ListenAddr = defaultListenAddr
		}
	}
	if cfg.DefaultPersona == "" {
		cfg.DefaultPersona = defaultPersona
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every missing or out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	if c.ChannelSecret == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_SECRET environment variable is required"))
	}
	if c.ChannelAccessToken == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_ACCESS_TOKEN environment variable is required"))
	}
	if c.MaxReplyRunes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_REPLY_RUNES must be positive, got %d", c.MaxReplyRunes))
	}
	if c.DeliveryTimeout <= 0 {
		errs = append(errs, fmt.Errorf("DELIVERY_TIMEOUT_SECONDS must be positive, got %s", c.DeliveryTimeout))
	}
	switch c.TracesExporter {
	case TracesExporterNone, TracesExporterStdout:
	default:
		errs = append(errs, fmt.Errorf("OTEL_TRACES_EXPORTER must be %q or %q, got %q",
			TracesExporterNone, TracesExporterStdout, c.TracesExporter))
	}
	return errors.Join(errs...)
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

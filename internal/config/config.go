package config

import (
	"log/slog"
	"os"
	"strconv"
)

type Config struct {
	HTTPPort    string
	MetricsPort string
	Strategy    string
	Depth       int
	JournalPath string
	NATS        NATSConfig
	Tracing     TracingConfig
}

type NATSConfig struct {
	Enabled     bool
	URL         string
	TickSubject string
	ExecSubject string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	return &Config{
		HTTPPort:    getEnv("PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		Strategy:    getEnv("STRATEGY", "passive"),
		Depth:       getEnvInt("BOOK_DEPTH", 10),
		JournalPath: getEnv("JOURNAL_PATH", ""),
		NATS: NATSConfig{
			Enabled:     getEnvBool("NATS_ENABLED", false),
			URL:         getEnv("NATS_URL", "nats://localhost:4222"),
			TickSubject: getEnv("NATS_TICK_SUBJECT", "venue.ticks"),
			ExecSubject: getEnv("NATS_EXEC_SUBJECT", "venue.executions"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvBool("TRACING_ENABLED", false),
			Endpoint: getEnv("OTLP_ENDPOINT", "localhost:4317"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to the default on a malformed value rather than
// carrying a zero forward silently.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid config value, using default",
			slog.String("key", key),
			slog.String("value", value),
			slog.Int("default", defaultValue),
		)
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid config value, using default",
			slog.String("key", key),
			slog.String("value", value),
			slog.Bool("default", defaultValue),
		)
		return defaultValue
	}
	return parsed
}

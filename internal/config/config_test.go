package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "9090", cfg.MetricsPort)
	assert.Equal(t, "passive", cfg.Strategy)
	assert.Equal(t, 10, cfg.Depth)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, "venue.ticks", cfg.NATS.TickSubject)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STRATEGY", "vwap")
	t.Setenv("BOOK_DEPTH", "5")
	t.Setenv("NATS_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "9999", cfg.HTTPPort)
	assert.Equal(t, "vwap", cfg.Strategy)
	assert.Equal(t, 5, cfg.Depth)
	assert.True(t, cfg.NATS.Enabled)
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("BOOK_DEPTH", "abc")
	t.Setenv("NATS_ENABLED", "yes please")
	t.Setenv("TRACING_ENABLED", "1")

	cfg := Load()
	assert.Equal(t, 10, cfg.Depth)
	assert.False(t, cfg.NATS.Enabled)
	assert.True(t, cfg.Tracing.Enabled)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, FeedSourceProxy, cfg.FeedSource)
	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, DefaultNASAAPIURL, cfg.NASAAPIURL)
	assert.Equal(t, "DEMO_KEY", cfg.NASAAPIKey)
	assert.Equal(t, 10*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 7, cfg.FeedCacheSize)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)

	assert.Equal(t, 33*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 1280, cfg.ViewportWidth)
	assert.Equal(t, 800, cfg.ViewportHeight)
	assert.InDelta(t, 1.0, cfg.PixelRatio, 0)
	assert.Equal(t, 768, cfg.MobileBreakpoint)
	assert.InDelta(t, 700.0, cfg.DesktopScaleFactor, 0)
	assert.InDelta(t, 350.0, cfg.MobileScaleFactor, 0)
	assert.Zero(t, cfg.ShapeSeed)

	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "neo-scenes", cfg.KafkaSceneTopic)

	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, "stdout", cfg.TracingExporter)
	assert.Empty(t, cfg.OTLPEndpoint)
	assert.InDelta(t, 1.0, cfg.TracingSampleRatio, 0)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("FEED_SOURCE", "NASA")
	t.Setenv("NASA_API_KEY", "abc123")
	t.Setenv("FEED_TIMEOUT", "3s")
	t.Setenv("FEED_CACHE_SIZE", "30")
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("FRAME_INTERVAL", "16ms")
	t.Setenv("VIEWPORT_WIDTH", "500")
	t.Setenv("VIEWPORT_HEIGHT", "900")
	t.Setenv("PIXEL_RATIO", "2.5")
	t.Setenv("MOBILE_BREAKPOINT", "600")
	t.Setenv("SCALE_FACTOR_DESKTOP", "800")
	t.Setenv("SCALE_FACTOR_MOBILE", "400")
	t.Setenv("SHAPE_SEED", "42")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SCENE_TOPIC", "custom-scenes")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_EXPORTER", "otlp")
	t.Setenv("OTLP_ENDPOINT", "collector:4317")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, FeedSourceNASA, cfg.FeedSource)
	assert.Equal(t, "abc123", cfg.NASAAPIKey)
	assert.Equal(t, 3*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 30, cfg.FeedCacheSize)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 500, cfg.ViewportWidth)
	assert.Equal(t, 900, cfg.ViewportHeight)
	assert.InDelta(t, 2.5, cfg.PixelRatio, 0)
	assert.Equal(t, 600, cfg.MobileBreakpoint)
	assert.InDelta(t, 800.0, cfg.DesktopScaleFactor, 0)
	assert.InDelta(t, 400.0, cfg.MobileScaleFactor, 0)
	assert.Equal(t, uint64(42), cfg.ShapeSeed)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-scenes", cfg.KafkaSceneTopic)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, "otlp", cfg.TracingExporter)
	assert.Equal(t, "collector:4317", cfg.OTLPEndpoint)
	assert.InDelta(t, 0.25, cfg.TracingSampleRatio, 0)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"FEED_SOURCE", "ftp"},
		{"FEED_TIMEOUT", "bad"},
		{"REFRESH_INTERVAL", "0s"},
		{"FRAME_INTERVAL", "-33ms"},
		{"FEED_CACHE_SIZE", "0"},
		{"VIEWPORT_WIDTH", "wide"},
		{"MOBILE_BREAKPOINT", "-1"},
		{"PIXEL_RATIO", "0"},
		{"SCALE_FACTOR_DESKTOP", "NaN"},
		{"SHAPE_SEED", "-5"},
		{"TRACING_SAMPLE_RATIO", "1.5"},
		{"TRACING_EXPORTER", "zipkin"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Feed sources.
const (
	FeedSourceProxy = "proxy"
	FeedSourceNASA  = "nasa"
)

// Default upstream endpoints.
const (
	DefaultFeedURL    = "https://r8rt1aci7a.execute-api.us-east-2.amazonaws.com/dev/get-neo-data"
	DefaultNASAAPIURL = "https://api.nasa.gov/neo/rest/v1/feed"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Feed configuration.
	FeedSource      string
	FeedURL         string
	NASAAPIURL      string
	NASAAPIKey      string
	FeedTimeout     time.Duration
	FeedCacheSize   int
	RefreshInterval time.Duration

	// Scene and render configuration.
	FrameInterval      time.Duration
	ViewportWidth      int
	ViewportHeight     int
	PixelRatio         float64
	MobileBreakpoint   int
	DesktopScaleFactor float64
	MobileScaleFactor  float64
	ShapeSeed          uint64

	// Scene publishing.
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaSceneTopic string

	// Tracing.
	TracingEnabled     bool
	TracingExporter    string
	OTLPEndpoint       string
	TracingSampleRatio float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FeedSource: strings.ToLower(sharedcfg.EnvOrDefault("FEED_SOURCE", FeedSourceProxy)),
		FeedURL:    sharedcfg.EnvOrDefault("FEED_URL", DefaultFeedURL),
		NASAAPIURL: sharedcfg.EnvOrDefault("NASA_API_URL", DefaultNASAAPIURL),
		NASAAPIKey: sharedcfg.EnvOrDefault("NASA_API_KEY", "DEMO_KEY"),

		KafkaEnabled:    os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSceneTopic: sharedcfg.EnvOrDefault("KAFKA_SCENE_TOPIC", "neo-scenes"),

		TracingEnabled:  os.Getenv("TRACING_ENABLED") == "true",
		TracingExporter: strings.ToLower(sharedcfg.EnvOrDefault("TRACING_EXPORTER", "stdout")),
		OTLPEndpoint:    os.Getenv("OTLP_ENDPOINT"),
	}

	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"FEED_TIMEOUT", "10s", &cfg.FeedTimeout},
		{"REFRESH_INTERVAL", "1m", &cfg.RefreshInterval},
		{"FRAME_INTERVAL", "33ms", &cfg.FrameInterval},
	}
	for _, d := range durations {
		if *d.dest, err = parsePositiveDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}

	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"FEED_CACHE_SIZE", 7, &cfg.FeedCacheSize},
		{"VIEWPORT_WIDTH", 1280, &cfg.ViewportWidth},
		{"VIEWPORT_HEIGHT", 800, &cfg.ViewportHeight},
		{"MOBILE_BREAKPOINT", 768, &cfg.MobileBreakpoint},
	}
	for _, i := range ints {
		if *i.dest, err = parsePositiveInt(i.key, i.def); err != nil {
			return nil, err
		}
	}

	floats := []struct {
		key  string
		def  float64
		dest *float64
	}{
		{"PIXEL_RATIO", 1, &cfg.PixelRatio},
		{"SCALE_FACTOR_DESKTOP", 700, &cfg.DesktopScaleFactor},
		{"SCALE_FACTOR_MOBILE", 350, &cfg.MobileScaleFactor},
	}
	for _, f := range floats {
		if *f.dest, err = parsePositiveFloat(f.key, f.def); err != nil {
			return nil, err
		}
	}

	if cfg.ShapeSeed, err = parseSeed(); err != nil {
		return nil, err
	}
	if cfg.TracingSampleRatio, err = parseSampleRatio(); err != nil {
		return nil, err
	}

	if cfg.FeedSource != FeedSourceProxy && cfg.FeedSource != FeedSourceNASA {
		return nil, fmt.Errorf("invalid FEED_SOURCE %q: must be %q or %q", cfg.FeedSource, FeedSourceProxy, FeedSourceNASA)
	}
	if cfg.FeedSource == FeedSourceProxy && cfg.FeedURL == "" {
		return nil, errors.New("FEED_URL is required")
	}
	if cfg.FeedSource == FeedSourceNASA && cfg.NASAAPIKey == "" {
		return nil, errors.New("NASA_API_KEY is required when FEED_SOURCE is nasa")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaSceneTopic == "" {
		return nil, errors.New("KAFKA_SCENE_TOPIC is required when KAFKA_ENABLED is true")
	}
	if cfg.TracingExporter != "stdout" && cfg.TracingExporter != "otlp" {
		return nil, fmt.Errorf("invalid TRACING_EXPORTER %q", cfg.TracingExporter)
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parsePositiveFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !(f > 0) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

// parseSeed reads SHAPE_SEED. Zero leaves shape generation time-seeded.
func parseSeed() (uint64, error) {
	s := os.Getenv("SHAPE_SEED")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New("invalid SHAPE_SEED")
	}
	return n, nil
}

func parseSampleRatio() (float64, error) {
	s := os.Getenv("TRACING_SAMPLE_RATIO")
	if s == "" {
		return 1, nil
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r < 0 || r > 1 {
		return 0, errors.New("invalid TRACING_SAMPLE_RATIO: must be between 0 and 1")
	}
	return r, nil
}

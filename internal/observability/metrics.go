package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "neo_scale"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	ServiceRunning prometheus.Gauge
	RecordsLoaded  prometheus.Counter
	ActiveScenes   prometheus.Gauge
	BuildErrors    prometheus.Counter
	LoadDuration   prometheus.Histogram

	// Feed metrics.
	FeedFetches       *prometheus.CounterVec   // labels: source={proxy,nasa}, outcome={success,error,empty}
	FeedCache         *prometheus.CounterVec   // labels: result={hit,miss}
	FeedFetchDuration *prometheus.HistogramVec // labels: source={proxy,nasa}

	// Render loop metrics.
	FramesRendered      prometheus.Counter
	FrameRenderDuration prometheus.Histogram
	ResizeEvents        prometheus.Counter

	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.ServiceRunning,
		m.RecordsLoaded,
		m.ActiveScenes,
		m.BuildErrors,
		m.LoadDuration,
		m.FeedFetches,
		m.FeedCache,
		m.FeedFetchDuration,
		m.FramesRendered,
		m.FrameRenderDuration,
		m.ResizeEvents,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		ServiceRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "service_running",
			Help:      help("1 while the refresh service is active, 0 when shut down."),
		}),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      help("Total NEO records placed on a page."),
		}),
		ActiveScenes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_scenes",
			Help:      help("Scenes currently registered and animating."),
		}),
		BuildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_build_errors_total",
			Help:      help("Total records whose scene could not be built."),
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      help("Duration of a complete fetch and build cycle."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetches_total",
			Help:      help("Feed requests by source and outcome."),
		}, []string{"source", "outcome"}),
		FeedCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_cache_total",
			Help:      help("Feed cache lookups by result."),
		}, []string{"result"}),
		FeedFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      help("Upstream feed request duration in seconds."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      help("Total frames rendered across all scenes."),
		}),
		FrameRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_render_duration_seconds",
			Help:      help("Time to step and rasterize one frame."),
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}),
		ResizeEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resize_events_total",
			Help:      help("Viewport resize events handled."),
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_publish_errors_total",
			Help:      help("Scene descriptor batches that failed to publish."),
		}),
	}
}

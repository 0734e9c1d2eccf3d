// Package feed fetches the daily NEO feed from the proxy endpoint or directly
// from the NASA NeoWs API.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/observability"
)

// ErrNoData is returned when the upstream has no feed for the requested date.
var ErrNoData = domain.ErrNoData

// Source labels used in metrics and spans.
const (
	sourceProxy = "proxy"
	sourceNASA  = "nasa"
)

// Client fetches the feed from the proxy endpoint, which serves an already
// converted payload for a single fetch date.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a proxy feed client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// Fetch requests the feed for date (YYYY-MM-DD). A null payload yields ErrNoData.
func (c *Client) Fetch(ctx context.Context, date string) (domain.Feed, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("fetch_date", date)
	u.RawQuery = q.Encode()

	var payload *domain.Feed
	err = instrumented(ctx, sourceProxy, date, c.metrics, func(ctx context.Context) error {
		return getJSON(ctx, c.httpClient, u.String(), &payload)
	})
	if err != nil {
		return domain.Feed{}, err
	}
	if payload == nil {
		c.metrics.FeedFetches.WithLabelValues(sourceProxy, "empty").Inc()
		return domain.Feed{}, ErrNoData
	}

	c.metrics.FeedFetches.WithLabelValues(sourceProxy, "success").Inc()
	c.logger.Debug("feed fetched", "source", sourceProxy, "fetch_date", payload.FetchDate, "count", len(payload.Neos))
	return *payload, nil
}

// instrumented wraps an upstream call with a span, a duration observation,
// and an error count.
func instrumented(ctx context.Context, source, date string, metrics *observability.Metrics, fn func(context.Context) error) error {
	ctx, span := observability.Tracer().Start(ctx, "feed.fetch", trace.WithAttributes(
		attribute.String("feed.source", source),
		attribute.String("feed.fetch_date", date),
	))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	metrics.FeedFetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.FeedFetches.WithLabelValues(source, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func getJSON(ctx context.Context, client *http.Client, fullURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("feed API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

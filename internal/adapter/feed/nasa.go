package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/observability"
)

// NASAClient fetches the NeoWs feed for a single day and converts it into the
// proxy payload shape.
type NASAClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewNASAClient creates a NeoWs client.
func NewNASAClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *NASAClient {
	return &NASAClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// Fetch requests the objects approaching on date. A response without an
// entry for date yields ErrNoData; an empty entry is a valid empty feed.
func (c *NASAClient) Fetch(ctx context.Context, date string) (domain.Feed, error) {
	params := url.Values{
		"start_date": {date},
		"end_date":   {date},
		"api_key":    {c.apiKey},
	}

	var raw domain.NASAFeed
	err := instrumented(ctx, sourceNASA, date, c.metrics, func(ctx context.Context) error {
		return getJSON(ctx, c.httpClient, c.baseURL+"?"+params.Encode(), &raw)
	})
	if err != nil {
		return domain.Feed{}, err
	}
	if _, ok := raw.NearEarthObjects[date]; !ok {
		c.metrics.FeedFetches.WithLabelValues(sourceNASA, "empty").Inc()
		return domain.Feed{}, fmt.Errorf("%w for %s", ErrNoData, date)
	}

	feed := domain.ConvertNASAFeed(raw, date)
	c.metrics.FeedFetches.WithLabelValues(sourceNASA, "success").Inc()
	c.logger.Debug("feed fetched", "source", sourceNASA, "fetch_date", date,
		"element_count", raw.ElementCount, "count", len(feed.Neos))
	return feed, nil
}

package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/neo-scale-service/internal/observability"
)

const (
	testDate          = "2024-03-01"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string, metrics *observability.Metrics) *Client {
	return NewClient(baseURL, 5*time.Second, metrics, discardLogger())
}

const proxyPayload = `{
  "fetch_date": "2024-03-01",
  "neos": [
    {
      "neo_id": "3542519",
      "name": "(2010 PK9)",
      "nasa_jpl_url": "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=3542519",
      "is_potentially_hazardous_asteroid": true,
      "absolute_magnitude_h": "21.08",
      "estimated_diameter": {
        "kilometers": {"estimated_diameter_min": "0.14", "estimated_diameter_max": 0.31}
      },
      "close_approach_data": []
    }
  ]
}`

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testDate, r.URL.Query().Get("fetch_date"))
		assert.Equal(t, "dev", r.URL.Query().Get("stage"), "existing query parameters are kept")
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, proxyPayload)
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	feed, err := testClient(srv.URL+"?stage=dev", metrics).Fetch(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, testDate, feed.FetchDate)
	require.Len(t, feed.Neos, 1)
	neo := feed.Neos[0]
	assert.Equal(t, "3542519", neo.ID)
	assert.True(t, neo.IsPotentiallyHazardous)
	assert.InDelta(t, 21.08, neo.AbsoluteMagnitudeH.Value, 1e-12)
	assert.InDelta(t, 0.225, neo.MedianDiameterKm(), 1e-12)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.FeedFetches.WithLabelValues(sourceProxy, "success")), 0)
}

func TestClient_Fetch_NullPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, "null")
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	_, err := testClient(srv.URL, metrics).Fetch(context.Background(), testDate)
	require.ErrorIs(t, err, ErrNoData)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.FeedFetches.WithLabelValues(sourceProxy, "empty")), 0)
}

func TestClient_Fetch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream unavailable"}`))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	_, err := testClient(srv.URL, metrics).Fetch(context.Background(), testDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream unavailable")
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.FeedFetches.WithLabelValues(sourceProxy, "error")), 0)
}

func TestClient_Fetch_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, observability.NewMetricsForTesting()).Fetch(context.Background(), testDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond, observability.NewMetricsForTesting(), discardLogger())
	_, err := c.Fetch(context.Background(), testDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed request")
}

const nasaPayload = `{
  "element_count": 1,
  "near_earth_objects": {
    "2024-03-01": [
      {
        "id": "54016849",
        "name": "(2020 GE)",
        "nasa_jpl_url": "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=54016849",
        "absolute_magnitude_h": 26.62,
        "estimated_diameter": {
          "kilometers": {"estimated_diameter_min": 0.0112123874, "estimated_diameter_max": 0.0250716631}
        },
        "is_potentially_hazardous_asteroid": false,
        "close_approach_data": [
          {
            "close_approach_date": "2024-03-01",
            "relative_velocity": {"kilometers_per_second": "5.8411302291", "kilometers_per_hour": "21028.0688248", "miles_per_hour": "13066.0122"},
            "miss_distance": {"astronomical": "0.0457302481234", "lunar": "17.789", "kilometers": "6841142.6", "miles": "4250833.2"},
            "orbiting_body": "Earth"
          }
        ]
      }
    ]
  }
}`

func TestNASAClient_Fetch_Converts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, testDate, q.Get("start_date"))
		assert.Equal(t, testDate, q.Get("end_date"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, nasaPayload)
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	c := NewNASAClient(srv.URL, "test-key", 5*time.Second, metrics, discardLogger())
	feed, err := c.Fetch(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, testDate, feed.FetchDate)
	require.Len(t, feed.Neos, 1)
	neo := feed.Neos[0]
	assert.Equal(t, "54016849", neo.ID)
	assert.InDelta(t, 0.01, neo.EstimatedDiameter.Kilometers.Min.Value, 1e-12)
	assert.InDelta(t, 0.03, neo.EstimatedDiameter.Kilometers.Max.Value, 1e-12)
	require.Len(t, neo.CloseApproachData, 1)
	assert.InDelta(t, 5.84113, neo.CloseApproachData[0].RelativeVelocity.KilometersPerSecond.Value, 1e-12)
	assert.InDelta(t, 0.04573025, neo.CloseApproachData[0].MissDistance.Astronomical.Value, 1e-12)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.FeedFetches.WithLabelValues(sourceNASA, "success")), 0)
}

func TestNASAClient_Fetch_MissingDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"element_count": 0, "near_earth_objects": {}}`)
	}))
	defer srv.Close()

	c := NewNASAClient(srv.URL, "k", 5*time.Second, observability.NewMetricsForTesting(), discardLogger())
	_, err := c.Fetch(context.Background(), testDate)
	require.ErrorIs(t, err, ErrNoData)
}

func TestNASAClient_Fetch_EmptyDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"element_count": 0, "near_earth_objects": {"2024-03-01": []}}`)
	}))
	defer srv.Close()

	c := NewNASAClient(srv.URL, "k", 5*time.Second, observability.NewMetricsForTesting(), discardLogger())
	feed, err := c.Fetch(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, testDate, feed.FetchDate)
	assert.Empty(t, feed.Neos)
}

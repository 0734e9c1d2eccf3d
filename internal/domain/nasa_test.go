package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNASAFeed = `{
	"element_count": 1,
	"near_earth_objects": {
		"2024-08-01": [{
			"id": "2465633",
			"name": "465633 (2009 JR5)",
			"nasa_jpl_url": "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=2465633",
			"absolute_magnitude_h": 20.444,
			"estimated_diameter": {
				"kilometers": {"estimated_diameter_min": 0.2170475943, "estimated_diameter_max": 0.4853331752},
				"meters": {"estimated_diameter_min": 217.0475943071, "estimated_diameter_max": 485.3331752235},
				"miles": {"estimated_diameter_min": 0.1348670807, "estimated_diameter_max": 0.3015719604},
				"feet": {"estimated_diameter_min": 712.0984293066, "estimated_diameter_max": 1592.3004946003}
			},
			"is_potentially_hazardous_asteroid": true,
			"close_approach_data": [{
				"close_approach_date": "2024-08-01",
				"relative_velocity": {
					"kilometers_per_second": "18.1279360862",
					"kilometers_per_hour": "65260.5699103704",
					"miles_per_hour": "40550.3802312521"
				},
				"miss_distance": {
					"astronomical": "0.3027469593",
					"lunar": "117.7685671677",
					"kilometers": "45290300.260256491",
					"miles": "28142087.0169648958"
				},
				"orbiting_body": "Earth"
			}]
		}]
	}
}`

func TestConvertNASAFeed(t *testing.T) {
	var raw NASAFeed
	require.NoError(t, json.Unmarshal([]byte(testNASAFeed), &raw))

	feed := ConvertNASAFeed(raw, "2024-08-01")
	assert.Equal(t, "2024-08-01", feed.FetchDate)
	require.Len(t, feed.Neos, 1)

	rec := feed.Neos[0]
	assert.Equal(t, "2465633", rec.ID)
	assert.Equal(t, "465633 (2009 JR5)", rec.Name)
	assert.True(t, rec.IsPotentiallyHazardous)
	assert.Equal(t, "20.44", rec.AbsoluteMagnitudeH.String())
	assert.Equal(t, "0.22", rec.EstimatedDiameter.Kilometers.Min.String())
	assert.Equal(t, "0.49", rec.EstimatedDiameter.Kilometers.Max.String())
	assert.Equal(t, "1592.3", rec.EstimatedDiameter.Feet.Max.String())

	require.Len(t, rec.CloseApproachData, 1)
	ca := rec.CloseApproachData[0]
	assert.Equal(t, "18.12794", ca.RelativeVelocity.KilometersPerSecond.String())
	assert.Equal(t, "65260.57", ca.RelativeVelocity.KilometersPerHour.String())
	assert.Equal(t, "0.30274696", ca.MissDistance.Astronomical.String())
	assert.Equal(t, "117.77", ca.MissDistance.Lunar.String())
	assert.Equal(t, "Earth", ca.OrbitingBody)
}

func TestRoundNumber_TiesToEven(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   string
	}{
		{0.125, 2, "0.12"},
		{0.375, 2, "0.38"},
		{-0.125, 2, "-0.12"},
		{2.675, 2, "2.67"}, // stored just below the tie
		{0.135, 2, "0.14"}, // stored just above the tie
		{20.444, 2, "20.44"},
		{2.5, 0, "2"},
	}
	for _, tt := range tests {
		got := roundNumber(NewNumber(tt.in), tt.places)
		assert.Equal(t, tt.want, got.String(), "round(%v, %d)", tt.in, tt.places)
	}
}

func TestConvertNASAFeed_MissingDate(t *testing.T) {
	var raw NASAFeed
	require.NoError(t, json.Unmarshal([]byte(testNASAFeed), &raw))

	feed := ConvertNASAFeed(raw, "1999-01-01")
	assert.Equal(t, "1999-01-01", feed.FetchDate)
	assert.Empty(t, feed.Neos)
}

func TestConvertNASAFeed_ProducesProxyShape(t *testing.T) {
	var raw NASAFeed
	require.NoError(t, json.Unmarshal([]byte(testNASAFeed), &raw))

	out, err := json.Marshal(ConvertNASAFeed(raw, "2024-08-01"))
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	neos := generic["neos"].([]any)
	first := neos[0].(map[string]any)
	assert.Equal(t, "2465633", first["neo_id"])
	assert.NotContains(t, first, "id")
}

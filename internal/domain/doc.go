// Package domain models near-Earth-object (NEO) feed data.
//
// # Data Source
//
// Records originate from the NASA NeoWs feed
// (https://api.nasa.gov/neo/rest/v1/feed). A daily job fetches the feed for
// the current UTC date, flattens near_earth_objects[<date>] into a list, rounds
// the noisy numeric columns, and serves the result from a proxy endpoint as:
//
//	{ "fetch_date": "2024-08-01", "neos": [ <record>, ... ] }
//
// The service can read either the proxy payload or the NASA feed directly; the
// latter goes through [ConvertNASAFeed] so both paths yield the same [Feed].
//
// # Numeric Fields
//
// The proxy serializes numbers either as JSON numbers or as numeric strings
// depending on how the upstream store typed them. [Number] accepts both and
// keeps the original text for display. Text that does not parse decodes to
// NaN instead of failing the whole payload; a NaN diameter is handled by the
// scene builder, not here.
//
// Rounding applied to NASA data (half away from zero):
//
//	absolute_magnitude_h                     2 places
//	estimated_diameter.*.min/max             2 places
//	relative_velocity.kilometers_per_second  5 places
//	relative_velocity.kilometers_per_hour    2 places
//	relative_velocity.miles_per_hour         2 places
//	miss_distance.astronomical               8 places
//	miss_distance.lunar/kilometers/miles     2 places
//
// # Dates
//
// Fetch dates are calendar days in UTC formatted as YYYY-MM-DD. "Today" is
// taken from the package clock so tests can freeze it via [SetClock].
package domain

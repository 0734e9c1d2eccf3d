package domain

// DiameterRange is an estimated {min, max} diameter in a single unit.
type DiameterRange struct {
	Min Number `json:"estimated_diameter_min"`
	Max Number `json:"estimated_diameter_max"`
}

// EstimatedDiameter holds the diameter bounds in the four units NASA reports.
type EstimatedDiameter struct {
	Kilometers DiameterRange `json:"kilometers"`
	Meters     DiameterRange `json:"meters"`
	Miles      DiameterRange `json:"miles"`
	Feet       DiameterRange `json:"feet"`
}

// RelativeVelocity at close approach.
type RelativeVelocity struct {
	KilometersPerSecond Number `json:"kilometers_per_second"`
	KilometersPerHour   Number `json:"kilometers_per_hour"`
	MilesPerHour        Number `json:"miles_per_hour"`
}

// MissDistance at close approach.
type MissDistance struct {
	Astronomical Number `json:"astronomical"`
	Lunar        Number `json:"lunar"`
	Kilometers   Number `json:"kilometers"`
	Miles        Number `json:"miles"`
}

// CloseApproach is one pass of the object near a body.
type CloseApproach struct {
	Date             string           `json:"close_approach_date"`
	RelativeVelocity RelativeVelocity `json:"relative_velocity"`
	MissDistance     MissDistance     `json:"miss_distance"`
	OrbitingBody     string           `json:"orbiting_body"`
}

// NeoRecord is a single near-Earth object as served by the feed. Records are
// treated as immutable once decoded.
type NeoRecord struct {
	ID                     string            `json:"neo_id"`
	Name                   string            `json:"name"`
	NASAJPLURL             string            `json:"nasa_jpl_url"`
	IsPotentiallyHazardous bool              `json:"is_potentially_hazardous_asteroid"`
	AbsoluteMagnitudeH     Number            `json:"absolute_magnitude_h"`
	EstimatedDiameter      EstimatedDiameter `json:"estimated_diameter"`
	CloseApproachData      []CloseApproach   `json:"close_approach_data"`
}

// MedianDiameterKm returns the average of the min and max kilometer bounds.
// The result is NaN when either bound failed to parse.
func (r NeoRecord) MedianDiameterKm() float64 {
	km := r.EstimatedDiameter.Kilometers
	return (km.Min.Value + km.Max.Value) / 2
}

// Feed is the daily payload: a fetch date and the ordered list of records.
type Feed struct {
	FetchDate string      `json:"fetch_date"`
	Neos      []NeoRecord `json:"neos"`
}

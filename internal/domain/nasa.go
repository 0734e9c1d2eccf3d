package domain

import "strconv"

// NASAFeed is the subset of the NeoWs /feed response the service reads.
type NASAFeed struct {
	ElementCount     int                     `json:"element_count"`
	NearEarthObjects map[string][]NASAObject `json:"near_earth_objects"`
}

// NASAObject is a NeoWs near-Earth object. Diameters and magnitude arrive as
// numbers; close-approach values arrive as strings.
type NASAObject struct {
	ID                     string            `json:"id"`
	Name                   string            `json:"name"`
	NASAJPLURL             string            `json:"nasa_jpl_url"`
	AbsoluteMagnitudeH     Number            `json:"absolute_magnitude_h"`
	EstimatedDiameter      EstimatedDiameter `json:"estimated_diameter"`
	IsPotentiallyHazardous bool              `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData      []CloseApproach   `json:"close_approach_data"`
}

// ConvertNASAFeed flattens the objects listed under date into a Feed, renaming
// id to neo_id and rounding numeric columns. A missing date yields an empty
// list.
func ConvertNASAFeed(raw NASAFeed, date string) Feed {
	objs := raw.NearEarthObjects[date]
	feed := Feed{
		FetchDate: date,
		Neos:      make([]NeoRecord, 0, len(objs)),
	}
	for _, obj := range objs {
		feed.Neos = append(feed.Neos, convertNASAObject(obj))
	}
	return feed
}

func convertNASAObject(obj NASAObject) NeoRecord {
	rec := NeoRecord{
		ID:                     obj.ID,
		Name:                   obj.Name,
		NASAJPLURL:             obj.NASAJPLURL,
		IsPotentiallyHazardous: obj.IsPotentiallyHazardous,
		AbsoluteMagnitudeH:     roundNumber(obj.AbsoluteMagnitudeH, 2),
		EstimatedDiameter: EstimatedDiameter{
			Kilometers: roundRange(obj.EstimatedDiameter.Kilometers, 2),
			Meters:     roundRange(obj.EstimatedDiameter.Meters, 2),
			Miles:      roundRange(obj.EstimatedDiameter.Miles, 2),
			Feet:       roundRange(obj.EstimatedDiameter.Feet, 2),
		},
		CloseApproachData: make([]CloseApproach, 0, len(obj.CloseApproachData)),
	}

	for _, ca := range obj.CloseApproachData {
		rec.CloseApproachData = append(rec.CloseApproachData, CloseApproach{
			Date: ca.Date,
			RelativeVelocity: RelativeVelocity{
				KilometersPerSecond: roundNumber(ca.RelativeVelocity.KilometersPerSecond, 5),
				KilometersPerHour:   roundNumber(ca.RelativeVelocity.KilometersPerHour, 2),
				MilesPerHour:        roundNumber(ca.RelativeVelocity.MilesPerHour, 2),
			},
			MissDistance: MissDistance{
				Astronomical: roundNumber(ca.MissDistance.Astronomical, 8),
				Lunar:        roundNumber(ca.MissDistance.Lunar, 2),
				Kilometers:   roundNumber(ca.MissDistance.Kilometers, 2),
				Miles:        roundNumber(ca.MissDistance.Miles, 2),
			},
			OrbitingBody: ca.OrbitingBody,
		})
	}
	return rec
}

func roundRange(r DiameterRange, places int) DiameterRange {
	return DiameterRange{Min: roundNumber(r.Min, places), Max: roundNumber(r.Max, places)}
}

// roundNumber rounds the exact binary value to places decimals, ties to even,
// so 0.125 becomes 0.12 and 0.135 (stored just above) becomes 0.14.
// Non-finite values pass through with their raw text.
func roundNumber(n Number, places int) Number {
	if !n.Valid() {
		return n
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(n.Value, 'f', places, 64), 64)
	if err != nil {
		return n
	}
	return NewNumber(v)
}

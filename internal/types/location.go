package types

import "math"

const earthRadiusKm = 6371

// Location is a coordinate pair. Two locations are equal when both coordinates are equal.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKm returns the haversine distance between l and other in kilometers.
func (l Location) DistanceKm(other Location) float64 {
	lat1Rad := l.Lat * math.Pi / 180
	lat2Rad := other.Lat * math.Pi / 180
	dlat := (other.Lat - l.Lat) * math.Pi / 180
	dlon := (other.Lng - l.Lng) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Valid reports whether the coordinates are inside the WGS84 range.
func (l Location) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsNaN(l.Lng) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

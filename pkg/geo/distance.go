// Package geo computes great-circle distances between airports.
package geo

import "math"

// EarthRadiusKm is the mean radius of Earth in kilometers.
const EarthRadiusKm = 6371.0

// Coordinates represents a geographic point in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// IsValid returns true if the coordinates are within valid ranges.
func (c Coordinates) IsValid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// IsZero returns true if both coordinates are zero (likely unset).
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

// HaversineKm returns the great-circle distance in kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)
	deltaLat := degreesToRadians(lat2 - lat1)
	deltaLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceKm returns the distance between two points, and false when either
// point is unset or out of range.
func DistanceKm(from, to Coordinates) (float64, bool) {
	if from.IsZero() || to.IsZero() || !from.IsValid() || !to.IsValid() {
		return 0, false
	}
	return HaversineKm(from.Lat, from.Lon, to.Lat, to.Lon), true
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

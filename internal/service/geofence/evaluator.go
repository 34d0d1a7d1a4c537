package geofence

import (
	"math"
)

// Region is a named circular geofence.
type Region struct {
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type Match struct {
	InRegion   bool
	RegionName string
}

// Evaluator classifies a coordinate against a fixed, ordered region list.
// The first region containing the point wins, so configuration order
// matters.
type Evaluator struct {
	regions []Region
}

func NewEvaluator(regions []Region) *Evaluator {
	return &Evaluator{regions: regions}
}

// Locate returns the first region whose center is within its radius of the
// point. No match means the caller is remote.
func (e *Evaluator) Locate(lat, lon float64) Match {
	for _, region := range e.regions {
		distance := haversineDistance(lat, lon, region.Latitude, region.Longitude)
		if distance <= region.RadiusMeters {
			return Match{InRegion: true, RegionName: region.Name}
		}
	}
	return Match{}
}

// haversineDistance returns the great-circle distance between two
// coordinates in meters.
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // meters

	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

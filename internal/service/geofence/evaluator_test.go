package geofence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testRegions = []Region{
	{Name: "hq", Latitude: -6.2000, Longitude: 106.8167, RadiusMeters: 200},
	{Name: "branch", Latitude: -6.9147, Longitude: 107.6098, RadiusMeters: 150},
}

func TestLocate_InsideRegion(t *testing.T) {
	e := NewEvaluator(testRegions)

	// At the exact center of hq.
	match := e.Locate(-6.2000, 106.8167)

	assert.True(t, match.InRegion)
	assert.Equal(t, "hq", match.RegionName)
}

func TestLocate_NearCenterStillInside(t *testing.T) {
	e := NewEvaluator(testRegions)

	// ~110m north of the hq center, inside the 200m radius.
	match := e.Locate(-6.1990, 106.8167)

	assert.True(t, match.InRegion)
	assert.Equal(t, "hq", match.RegionName)
}

func TestLocate_Remote(t *testing.T) {
	e := NewEvaluator(testRegions)

	// Singapore, hundreds of kilometers from either office.
	match := e.Locate(1.3521, 103.8198)

	assert.False(t, match.InRegion)
	assert.Empty(t, match.RegionName)
}

func TestLocate_FirstMatchWins(t *testing.T) {
	overlapping := []Region{
		{Name: "inner", Latitude: 0, Longitude: 0, RadiusMeters: 500},
		{Name: "outer", Latitude: 0, Longitude: 0, RadiusMeters: 5000},
	}
	e := NewEvaluator(overlapping)

	match := e.Locate(0, 0)

	assert.True(t, match.InRegion)
	assert.Equal(t, "inner", match.RegionName)
}

func TestLocate_OrderDependsOnConfiguration(t *testing.T) {
	reversed := []Region{
		{Name: "outer", Latitude: 0, Longitude: 0, RadiusMeters: 5000},
		{Name: "inner", Latitude: 0, Longitude: 0, RadiusMeters: 500},
	}
	e := NewEvaluator(reversed)

	match := e.Locate(0, 0)

	assert.Equal(t, "outer", match.RegionName)
}

func TestLocate_NoRegions(t *testing.T) {
	e := NewEvaluator(nil)

	match := e.Locate(-6.2, 106.8)

	assert.False(t, match.InRegion)
}

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude is ~111.19 km.
	d := haversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 100)

	// Same point.
	assert.InDelta(t, 0, haversineDistance(-6.2, 106.8, -6.2, 106.8), 1e-6)
}

package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		totalSec int64
		want     string
	}{
		{0, "0h 0m 0s"},
		{59, "0h 0m 59s"},
		{60, "0h 1m 0s"},
		{3661, "1h 1m 1s"},
		{8*3600 + 30*60, "8h 30m 0s"},
		{100 * 3600, "100h 0m 0s"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, FormatDuration(c.totalSec))
	}
}

func TestClockInRequest_Validate(t *testing.T) {
	lat, lon := 1.0, 2.0
	badLat := 91.0

	valid := ClockInRequest{Method: "web"}
	assert.NoError(t, valid.Validate())

	withGeo := ClockInRequest{Method: "mobile"}
	withGeo.Verification.GeoLat = &lat
	withGeo.Verification.GeoLon = &lon
	assert.NoError(t, withGeo.Validate())

	badMethod := ClockInRequest{Method: "fax"}
	assert.Error(t, badMethod.Validate())

	outOfRange := ClockInRequest{Method: "web"}
	outOfRange.Verification.GeoLat = &badLat
	outOfRange.Verification.GeoLon = &lon
	assert.Error(t, outOfRange.Validate())

	halfGeo := ClockInRequest{Method: "web"}
	halfGeo.Verification.GeoLat = &lat
	assert.Error(t, halfGeo.Validate())
}

package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCoordinate(t *testing.T) {
	cases := []struct {
		name    string
		lat     float64
		lng     float64
		valid   bool
		message string
	}{
		{"gdansk", 54.526, 18.5318, true, ""},
		{"amsterdam", 52.37, 4.89, true, ""},
		{"nan latitude", math.NaN(), 10, false, "Coordinates must be valid numbers"},
		{"nan longitude", 10, math.NaN(), false, "Coordinates must be valid numbers"},
		{"infinite", math.Inf(1), 10, false, "Coordinates must be valid numbers"},
		{"latitude out of range", 200, 10, false, "Latitude 200 is out of range (-90 to 90)"},
		{"negative latitude out of range", -90.5, 10, false, "Latitude -90.5 is out of range (-90 to 90)"},
		{"longitude out of range", 10, 181, false, "Longitude 181 is out of range (-180 to 180)"},
		{"null island", 0, 0, false, "Coordinates (0,0) are in the ocean off Africa"},
		{"mid pacific", 0, -150, false, "Coordinates (0.0000, -150.0000) appear to be in the ocean or inaccessible area"},
		{"mid atlantic", 30, -40, false, "Coordinates (30.0000, -40.0000) appear to be in the ocean or inaccessible area"},
		{"indian ocean", -20, 70, false, "Coordinates (-20.0000, 70.0000) appear to be in the ocean or inaccessible area"},
		{"antarctica", -75, 0, false, "Coordinates (-75.0000, 0.0000) appear to be in the ocean or inaccessible area"},
		{"arctic", 85, 20, false, "Coordinates (85.0000, 20.0000) appear to be in the ocean or inaccessible area"},
		{"san francisco carve-out", 37.77, -122.42, true, ""},
		{"lima", -12.05, -77.04, true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateCoordinate(tc.lat, tc.lng)
			assert.Equal(t, tc.valid, res.Valid)
			assert.Equal(t, tc.message, res.Error)
		})
	}
}

func TestValidateCoordinateRangeBeatsOrigin(t *testing.T) {
	res := ValidateCoordinate(-91, 0)
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "out of range")
}

type alwaysWater struct{}

func (alwaysWater) IsLikelyOnLand(float64, float64) bool { return false }

func TestValidatorUsesSwappedClassifier(t *testing.T) {
	v := NewValidator(alwaysWater{})

	res := v.ValidateCoordinate(52.37, 4.89)
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "appear to be in the ocean")

	assert.True(t, NewValidator(nil).ValidateCoordinate(52.37, 4.89).Valid)
}

func TestBoxRulesFirstMatchWins(t *testing.T) {
	rules := BoxRules{
		{Name: "island", Bound: box(0, 10, 0, 10), Land: true},
		{Name: "sea", Bound: box(-20, 20, -20, 20), Land: false},
	}

	assert.True(t, rules.IsLikelyOnLand(5, 5))
	assert.False(t, rules.IsLikelyOnLand(15, 15))
	assert.True(t, rules.IsLikelyOnLand(50, 50), "unmatched points default to land")
	assert.False(t, rules.IsLikelyOnLand(10, 5), "edges are exclusive so the outer box wins")
}

func TestTooClose(t *testing.T) {
	assert.True(t, TooClose(52.0, 4.0, 52.0, 4.0, 100))
	assert.False(t, TooClose(52.0, 4.0, 10.0, 10.0, 100))

	// 0.0005 degrees of latitude is roughly 55.6 m.
	assert.True(t, TooClose(52.0, 4.0, 52.0005, 4.0, DefaultMinSeparationMeters))
	assert.False(t, TooClose(52.0, 4.0, 52.002, 4.0, DefaultMinSeparationMeters))
}

func TestHaversineMeters(t *testing.T) {
	// One degree of latitude on a 6,371 km sphere.
	d := HaversineMeters(0, 0, 1, 0)
	assert.InDelta(t, 111194.9, d, 0.5)

	assert.Equal(t, 0.0, HaversineMeters(12, 34, 12, 34))
	assert.InDelta(t, HaversineMeters(10, 20, 30, 40), HaversineMeters(30, 40, 10, 20), 1e-6)
}

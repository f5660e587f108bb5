package tradler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"} {
		d, err := ParseDirection(s)
		require.NoError(t, err)
		assert.Equal(t, Direction(s), d)
	}

	d, err := ParseDirection(" nw ")
	require.NoError(t, err)
	assert.Equal(t, NorthWest, d)

	for _, s := range []string{"NNW", "north", "", "X", "EN", "WS"} {
		_, err := ParseDirection(s)
		assert.ErrorIs(t, err, ErrInvalidDirection, "ParseDirection(%q)", s)
	}
}

func TestClassifyOctants(t *testing.T) {
	origin := Country{Name: "Origin"}

	cases := []struct {
		lat, lng float64
		want     Direction
	}{
		{10, 0, North},
		{10, 10, NorthEast},
		{0, 10, East},
		{-10, 10, SouthEast},
		{-10, 0, South},
		{-10, -10, SouthWest},
		{0, -10, West},
		{10, -10, NorthWest},
		{0, 0, Direction("")},
	}
	for _, tc := range cases {
		got := Classify(origin, Country{Latitude: tc.lat, Longitude: tc.lng}, 0)
		assert.Equal(t, tc.want, got, "Classify to (%v, %v)", tc.lat, tc.lng)
	}
}

func TestClassifyTolerance(t *testing.T) {
	origin := Country{}

	// Within tol the axis drops out of the classification.
	assert.Equal(t, North, Classify(origin, Country{Latitude: 10, Longitude: 0.5}, 1))
	assert.Equal(t, East, Classify(origin, Country{Latitude: -0.5, Longitude: 10}, 1))
	assert.Equal(t, Direction(""), Classify(origin, Country{Latitude: 0.9, Longitude: -0.9}, 1))

	// At exactly tol the difference is still neutral; just beyond it is not.
	assert.Equal(t, Direction(""), Classify(origin, Country{Latitude: 1, Longitude: 0}, 1))
	assert.Equal(t, North, Classify(origin, Country{Latitude: 1.01, Longitude: 0}, 1))
}

func TestClassifyDateLineWraparound(t *testing.T) {
	a := Country{Name: "A", Latitude: 0, Longitude: 179}
	b := Country{Name: "B", Latitude: 0, Longitude: -179}

	// Crossing the date line eastward is East, not a 358-degree westward trek.
	assert.Equal(t, East, Classify(a, b, 0))
	assert.Equal(t, West, Classify(b, a, 0))

	// Fiji (179.4E) to Samoa (172.1W) crosses the line going northeast.
	fiji := Country{Name: "Fiji", Latitude: -16.578193, Longitude: 179.414413}
	samoa := Country{Name: "Samoa", Latitude: -13.759029, Longitude: -172.104629}
	assert.Equal(t, NorthEast, Classify(fiji, samoa, 0))
	assert.Equal(t, SouthWest, Classify(samoa, fiji, 0))
}

func TestAgreesNeutralAxisPolicy(t *testing.T) {
	// A neutral classification matches any reported direction. Pinned as
	// policy: exact alignment must never cause a penalty.
	for _, rep := range []Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest} {
		assert.True(t, Direction("").Agrees(rep), "neutral vs %s", rep)
	}

	// A candidate due north (no horizontal component) is compatible with any
	// reported direction that does not contradict its north component.
	assert.True(t, North.Agrees(North))
	assert.True(t, North.Agrees(NorthEast))
	assert.True(t, North.Agrees(NorthWest))
	assert.False(t, North.Agrees(South))
	assert.False(t, North.Agrees(SouthEast))

	// An axis the report leaves unconstrained can take any value.
	assert.True(t, NorthEast.Agrees(North))
	assert.True(t, NorthEast.Agrees(East))
	assert.False(t, NorthEast.Agrees(NorthWest))
	assert.False(t, NorthEast.Agrees(SouthWest))
	assert.False(t, SouthEast.Agrees(NorthWest))
}

func TestWrapLongitude(t *testing.T) {
	assert.Equal(t, 2.0, wrapLongitude(-358))
	assert.Equal(t, -2.0, wrapLongitude(358))
	assert.Equal(t, 180.0, wrapLongitude(180))
	assert.Equal(t, 180.0, wrapLongitude(-180))
	assert.Equal(t, 0.0, wrapLongitude(0))
	assert.Equal(t, 45.0, wrapLongitude(45))
}

func TestInitialBearing(t *testing.T) {
	origin := Country{}

	assert.InDelta(t, 0, InitialBearing(origin, Country{Latitude: 10}), 1e-9)
	assert.InDelta(t, 90, InitialBearing(origin, Country{Longitude: 10}), 1e-9)
	assert.InDelta(t, 180, InitialBearing(origin, Country{Latitude: -10}), 1e-9)
	assert.InDelta(t, 270, InitialBearing(origin, Country{Longitude: -10}), 1e-9)

	fiji := Country{Latitude: -16.578193, Longitude: 179.414413}
	samoa := Country{Latitude: -13.759029, Longitude: -172.104629}
	assert.InDelta(t, 72.14, InitialBearing(fiji, samoa), 0.01)
}

package nav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine(t *testing.T) {
	t.Parallel()

	a := Point{Lat: 37.8, Lon: -122.45}
	assert.Equal(t, 0.0, Haversine(a, a))

	// One degree of latitude is about 111.2 km.
	b := Point{Lat: 38.8, Lon: -122.45}
	assert.InDelta(t, 111195, Haversine(a, b), 100)

	// Symmetric.
	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
}

func TestBearing(t *testing.T) {
	t.Parallel()

	origin := Point{Lat: 0, Lon: 0}
	assert.InDelta(t, 0, Bearing(origin, Point{Lat: 1, Lon: 0}), 0.01)
	assert.InDelta(t, 90, Bearing(origin, Point{Lat: 0, Lon: 1}), 0.01)
	assert.InDelta(t, 180, Bearing(origin, Point{Lat: -1, Lon: 0}), 0.01)
	assert.InDelta(t, 270, Bearing(origin, Point{Lat: 0, Lon: -1}), 0.01)
}

func TestIntersection(t *testing.T) {
	t.Parallel()

	t.Run("perpendicular courses cross ahead", func(t *testing.T) {
		t.Parallel()
		// One boat sails due east along the equator, another due south
		// toward it.
		got := Intersection(Point{Lat: 0, Lon: 0}, 90, Point{Lat: 1, Lon: 1}, 180)
		assert.InDelta(t, 0, got.Lat, 0.05)
		assert.InDelta(t, 1, got.Lon, 0.05)
	})

	t.Run("crossing behind returns start", func(t *testing.T) {
		t.Parallel()
		// Both lines point away from each other.
		start := Point{Lat: 0, Lon: 0}
		got := Intersection(start, 270, Point{Lat: 1, Lon: 1}, 0)
		assert.Equal(t, start, got)
	})

	t.Run("coincident points return start", func(t *testing.T) {
		t.Parallel()
		start := Point{Lat: 10, Lon: 10}
		assert.Equal(t, start, Intersection(start, 45, start, 90))
	})
}

func TestFilterJumps(t *testing.T) {
	t.Parallel()

	track := []Point{
		{Lat: 37.8000, Lon: -122.4500},
		{Lat: 37.8001, Lon: -122.4500}, // ~11 m
		{Lat: 37.9000, Lon: -122.4500}, // ~11 km teleport
		{Lat: 37.8002, Lon: -122.4500}, // back on track
	}

	filtered := FilterJumps(track, 100)
	require.Len(t, filtered, 3)
	assert.Equal(t, track[0], filtered[0])
	assert.Equal(t, track[1], filtered[1])
	assert.Equal(t, track[3], filtered[2])

	// Short inputs pass through.
	single := []Point{{Lat: 1, Lon: 1}}
	assert.Equal(t, single, FilterJumps(single, 100))
}

func TestVMC(t *testing.T) {
	t.Parallel()

	// Sailing straight at the mark: full speed counts.
	assert.InDelta(t, 40, VMC(40, 90, 90), 1e-9)
	// Perpendicular: nothing counts.
	assert.InDelta(t, 0, VMC(40, 0, 90), 1e-9)
	// 60 degrees off: half speed.
	assert.InDelta(t, 20, VMC(40, 30, 90), 1e-9)
	// Wraparound across north.
	assert.InDelta(t, 40*math.Cos(radians(20)), VMC(40, 350, 10), 1e-9)
}

func TestCompassAverage(t *testing.T) {
	t.Parallel()

	t.Run("plain window average", func(t *testing.T) {
		t.Parallel()
		got := CompassAverage([]float64{10, 20, 30, 40}, 2, 1)
		require.Len(t, got, 2)
		assert.InDelta(t, 15, got[0], 0.01)
		assert.InDelta(t, 35, got[1], 0.01)
	})

	t.Run("wraps around north", func(t *testing.T) {
		t.Parallel()
		got := CompassAverage([]float64{359, 1}, 2, 1)
		require.Len(t, got, 1)
		assert.InDelta(t, 0, math.Min(got[0], 360-got[0]), 0.01)
	})

	t.Run("partial trailing window", func(t *testing.T) {
		t.Parallel()
		got := CompassAverage([]float64{90, 90, 180}, 2, 1)
		require.Len(t, got, 2)
		assert.InDelta(t, 90, got[0], 0.01)
		assert.InDelta(t, 180, got[1], 0.01)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, CompassAverage(nil, 1, 1))
	})
}

func TestAngularDiff(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 20.0, AngularDiff(350, 10))
	assert.Equal(t, 180.0, AngularDiff(0, 180))
	assert.Equal(t, 0.0, AngularDiff(45, 45))
}

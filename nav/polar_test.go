package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolar(t *testing.T) *PolarTable {
	t.Helper()

	var points []PolarPoint
	for _, tws := range []float64{10, 20, 30} {
		for _, twa := range []float64{40, 50, 60, 90, 130, 150, 170} {
			// Speed grows with wind and peaks around a beam reach.
			bsp := tws * (1.5 - AngularDiff(twa, 100)/100)
			points = append(points, PolarPoint{TWA: twa, TWS: tws, BSP: bsp})
		}
	}
	table, err := NewPolarTable(points)
	require.NoError(t, err)
	return table
}

func TestNewPolarTableEmpty(t *testing.T) {
	t.Parallel()

	_, err := NewPolarTable(nil)
	assert.Error(t, err)
}

func TestPolarBoatSpeed(t *testing.T) {
	t.Parallel()

	table := testPolar(t)

	t.Run("exact cell", func(t *testing.T) {
		t.Parallel()
		got := table.BoatSpeed(20, 90)
		assert.Greater(t, got, 0.0)
	})

	t.Run("angles fold across tacks", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, table.BoatSpeed(20, 90), table.BoatSpeed(20, -90))
	})

	t.Run("angles above 180 fold back", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, table.BoatSpeed(20, 90), table.BoatSpeed(20, 270))
	})
}

func TestPolarOptimalAngles(t *testing.T) {
	t.Parallel()

	table := testPolar(t)

	t.Run("upwind", func(t *testing.T) {
		t.Parallel()
		port, stbd, err := table.OptimalAngles(20, false)
		require.NoError(t, err)
		assert.Equal(t, stbd, -port)
		assert.GreaterOrEqual(t, stbd, 30.0)
		assert.LessOrEqual(t, stbd, 60.0)
	})

	t.Run("downwind", func(t *testing.T) {
		t.Parallel()
		port, stbd, err := table.OptimalAngles(20, true)
		require.NoError(t, err)
		assert.Equal(t, stbd, -port)
		assert.GreaterOrEqual(t, stbd, 120.0)
		assert.LessOrEqual(t, stbd, 180.0)
	})

	t.Run("no data near wind speed", func(t *testing.T) {
		t.Parallel()
		_, _, err := table.OptimalAngles(99, false)
		assert.Error(t, err)
	})
}

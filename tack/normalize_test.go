package tack

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f50-race-telemetry/telemetry"
)

func testTable(t *testing.T) *RuleTable {
	t.Helper()
	table, err := NewRuleTable(map[string]Transform{
		"TWA_SGP_deg":    Negate(),
		"HEADING_deg":    Rotate180(),
		"LENGTH_RH_P_mm": SwapPair("LENGTH_RH_S_mm"),
		"LENGTH_RH_S_mm": SwapPair("LENGTH_RH_P_mm"),
		"PITCH_deg":      Identity(),
	})
	require.NoError(t, err)
	return table
}

func TestNormalizeStarboardTackIsIdentity(t *testing.T) {
	t.Parallel()

	row := telemetry.Row{
		telemetry.FieldBoat:     "AUS",
		telemetry.FieldPortTack: false,
		"TWA_SGP_deg":           45.0,
		"HEADING_deg":           10.0,
		"LENGTH_RH_P_mm":        120.0,
		"LENGTH_RH_S_mm":        200.0,
		"PITCH_deg":             2.5,
	}

	got, err := Normalize(row, testTable(t))
	require.NoError(t, err)

	if diff := cmp.Diff(row, got); diff != "" {
		t.Errorf("starboard-tack row changed (-want +got):\n%s", diff)
	}
}

func TestNormalizePortTack(t *testing.T) {
	t.Parallel()

	t.Run("negate flips sign", func(t *testing.T) {
		t.Parallel()
		row := telemetry.Row{telemetry.FieldPortTack: true, "TWA_SGP_deg": 45.0}
		got, err := Normalize(row, testTable(t))
		require.NoError(t, err)
		assert.Equal(t, -45.0, got["TWA_SGP_deg"])
	})

	t.Run("negate is an involution", func(t *testing.T) {
		t.Parallel()
		row := telemetry.Row{telemetry.FieldPortTack: true, "TWA_SGP_deg": -38.5}
		got, err := Normalize(row, testTable(t))
		require.NoError(t, err)
		v, ok := got.Float("TWA_SGP_deg")
		require.True(t, ok)
		assert.Equal(t, -38.5, -v)
	})

	t.Run("offset wrap rotates heading", func(t *testing.T) {
		t.Parallel()
		table := testTable(t)

		row := telemetry.Row{telemetry.FieldPortTack: true, "HEADING_deg": 10.0}
		got, err := Normalize(row, table)
		require.NoError(t, err)
		assert.Equal(t, 190.0, got["HEADING_deg"])

		row = telemetry.Row{telemetry.FieldPortTack: true, "HEADING_deg": 270.0}
		got, err = Normalize(row, table)
		require.NoError(t, err)
		assert.Equal(t, 90.0, got["HEADING_deg"])
	})

	t.Run("offset wrap result stays in range", func(t *testing.T) {
		t.Parallel()
		for _, heading := range []float64{0, 45, 179.9, 180, 180.1, 359.9, -10} {
			row := telemetry.Row{telemetry.FieldPortTack: true, "HEADING_deg": heading}
			got, err := Normalize(row, testTable(t))
			require.NoError(t, err)
			v, ok := got.Float("HEADING_deg")
			require.True(t, ok)
			assert.GreaterOrEqual(t, v, 0.0, "heading %v", heading)
			assert.Less(t, v, 360.0, "heading %v", heading)
		}
	})

	t.Run("swap pair exchanges ride heights", func(t *testing.T) {
		t.Parallel()
		row := telemetry.Row{
			telemetry.FieldPortTack: true,
			"LENGTH_RH_P_mm":        120.0,
			"LENGTH_RH_S_mm":        200.0,
		}
		got, err := Normalize(row, testTable(t))
		require.NoError(t, err)
		assert.Equal(t, 200.0, got["LENGTH_RH_P_mm"])
		assert.Equal(t, 120.0, got["LENGTH_RH_S_mm"])
	})

	t.Run("identity rule leaves value alone", func(t *testing.T) {
		t.Parallel()
		row := telemetry.Row{telemetry.FieldPortTack: true, "PITCH_deg": 2.5}
		got, err := Normalize(row, testTable(t))
		require.NoError(t, err)
		assert.Equal(t, 2.5, got["PITCH_deg"])
	})

	t.Run("unruled field passes through", func(t *testing.T) {
		t.Parallel()
		row := telemetry.Row{telemetry.FieldPortTack: true, "TWS_SGP_km_h_1": 33.0}
		got, err := Normalize(row, testTable(t))
		require.NoError(t, err)
		assert.Equal(t, 33.0, got["TWS_SGP_km_h_1"])
	})
}

func TestNormalizeEndToEnd(t *testing.T) {
	t.Parallel()

	when := time.Date(2025, 3, 22, 14, 5, 0, 0, time.UTC)
	row := telemetry.Row{
		telemetry.FieldBoat:     "AUS",
		telemetry.FieldDateTime: when,
		telemetry.FieldPortTack: true,
		"TWA_SGP_deg":           45.0,
		"HEADING_deg":           10.0,
		"LENGTH_RH_P_mm":        120.0,
		"LENGTH_RH_S_mm":        200.0,
	}

	got, err := Normalize(row, testTable(t))
	require.NoError(t, err)

	want := telemetry.Row{
		telemetry.FieldBoat:     "AUS",
		telemetry.FieldDateTime: when,
		telemetry.FieldPortTack: true,
		"TWA_SGP_deg":           -45.0,
		"HEADING_deg":           190.0,
		"LENGTH_RH_P_mm":        200.0,
		"LENGTH_RH_S_mm":        120.0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("normalized row mismatch (-want +got):\n%s", diff)
	}

	// Input row must be untouched.
	assert.Equal(t, 45.0, row["TWA_SGP_deg"])
	assert.Equal(t, 120.0, row["LENGTH_RH_P_mm"])
}

func TestNormalizeInputErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing tack flag", func(t *testing.T) {
		t.Parallel()
		_, err := Normalize(telemetry.Row{"TWA_SGP_deg": 45.0}, testTable(t))
		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
		assert.Equal(t, telemetry.FieldPortTack, inputErr.Field)
	})

	t.Run("non-boolean tack flag", func(t *testing.T) {
		t.Parallel()
		row := telemetry.Row{telemetry.FieldPortTack: "port", "TWA_SGP_deg": 45.0}
		_, err := Normalize(row, testTable(t))
		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
	})

	t.Run("missing swap partner", func(t *testing.T) {
		t.Parallel()
		row := telemetry.Row{telemetry.FieldPortTack: true, "LENGTH_RH_P_mm": 120.0}
		_, err := Normalize(row, testTable(t))
		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
		assert.Equal(t, "LENGTH_RH_P_mm", inputErr.Field)
	})

	t.Run("non-numeric value under negate", func(t *testing.T) {
		t.Parallel()
		row := telemetry.Row{telemetry.FieldPortTack: true, "TWA_SGP_deg": "n/a"}
		_, err := Normalize(row, testTable(t))
		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
	})

	t.Run("missing swap partner on starboard tack is fine", func(t *testing.T) {
		t.Parallel()
		row := telemetry.Row{telemetry.FieldPortTack: false, "LENGTH_RH_P_mm": 120.0}
		_, err := Normalize(row, testTable(t))
		assert.NoError(t, err)
	})
}

func TestNormalizeBatch(t *testing.T) {
	t.Parallel()

	rows := []telemetry.Row{
		{telemetry.FieldPortTack: true, "TWA_SGP_deg": 45.0},
		{"TWA_SGP_deg": 45.0}, // missing tack flag
		{telemetry.FieldPortTack: false, "TWA_SGP_deg": 50.0},
		{telemetry.FieldPortTack: true, "LENGTH_RH_P_mm": 120.0}, // missing partner
	}

	t.Run("lenient mode skips bad rows and counts them", func(t *testing.T) {
		t.Parallel()
		res, err := NormalizeBatch(rows, testTable(t), false)
		require.NoError(t, err)
		assert.Equal(t, 2, res.OK)
		assert.Equal(t, 2, res.Skipped)
		require.Len(t, res.Failures, 2)
		assert.Equal(t, 1, res.Failures[0].Index)
		assert.Equal(t, 3, res.Failures[1].Index)
		require.Len(t, res.Rows, 2)
		assert.Equal(t, -45.0, res.Rows[0]["TWA_SGP_deg"])
		assert.Equal(t, 50.0, res.Rows[1]["TWA_SGP_deg"])
	})

	t.Run("strict mode aborts on first bad row", func(t *testing.T) {
		t.Parallel()
		res, err := NormalizeBatch(rows, testTable(t), true)
		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
		assert.Equal(t, 1, res.OK)
	})
}

func TestNormalizeF50Table(t *testing.T) {
	t.Parallel()

	table := F50Table()
	row := telemetry.Row{
		telemetry.FieldBoat:     "FRA",
		telemetry.FieldPortTack: true,
		"GPS_COG_deg":           270.0,
		"HEEL_deg":              -3.2,
		"ANGLE_DB_CANT_P_deg":   12.0,
		"ANGLE_DB_CANT_S_deg":   -5.0,
		"TWD_SGP_deg":           225.0, // wind direction carries no rule
	}

	got, err := Normalize(row, table)
	require.NoError(t, err)
	assert.Equal(t, 90.0, got["GPS_COG_deg"])
	assert.Equal(t, 3.2, got["HEEL_deg"])
	assert.Equal(t, -5.0, got["ANGLE_DB_CANT_P_deg"])
	assert.Equal(t, 12.0, got["ANGLE_DB_CANT_S_deg"])
	assert.Equal(t, 225.0, got["TWD_SGP_deg"])
}

package tack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuleTableValidation(t *testing.T) {
	t.Parallel()

	t.Run("accepts a symmetric table", func(t *testing.T) {
		t.Parallel()
		table, err := NewRuleTable(map[string]Transform{
			"A": SwapPair("B"),
			"B": SwapPair("A"),
			"C": Negate(),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, table.Len())
	})

	t.Run("rejects asymmetric swap pair", func(t *testing.T) {
		t.Parallel()
		_, err := NewRuleTable(map[string]Transform{
			"A": SwapPair("B"),
			"B": Identity(),
		})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "A", cfgErr.Field)
	})

	t.Run("rejects unknown swap partner", func(t *testing.T) {
		t.Parallel()
		_, err := NewRuleTable(map[string]Transform{
			"A": SwapPair("MISSING"),
		})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("rejects self swap", func(t *testing.T) {
		t.Parallel()
		_, err := NewRuleTable(map[string]Transform{
			"A": SwapPair("A"),
		})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("rejects non-positive modulus", func(t *testing.T) {
		t.Parallel()
		for _, modulus := range []float64{0, -360} {
			_, err := NewRuleTable(map[string]Transform{
				"HEADING_deg": OffsetWrap(180, modulus),
			})
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr, "modulus %v", modulus)
		}
	})

	t.Run("swap pair chain must be mutual", func(t *testing.T) {
		t.Parallel()
		// A points at B, but B points at C.
		_, err := NewRuleTable(map[string]Transform{
			"A": SwapPair("B"),
			"B": SwapPair("C"),
			"C": SwapPair("B"),
		})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestRuleDefaultsToIdentity(t *testing.T) {
	t.Parallel()

	table := MustRuleTable(map[string]Transform{"TWA_SGP_deg": Negate()})
	assert.Equal(t, KindIdentity, table.Rule("UNLISTED_FIELD").Kind)
	assert.Equal(t, KindNegate, table.Rule("TWA_SGP_deg").Kind)
}

func TestF50TableShape(t *testing.T) {
	t.Parallel()

	table := F50Table()

	assert.Equal(t, KindOffsetWrap, table.Rule("HEADING_deg").Kind)
	assert.Equal(t, KindOffsetWrap, table.Rule("GPS_COG_deg").Kind)
	assert.Equal(t, 180.0, table.Rule("GPS_COG_deg").Offset)
	assert.Equal(t, 360.0, table.Rule("GPS_COG_deg").Modulus)

	assert.Equal(t, KindNegate, table.Rule("TWA_SGP_deg").Kind)
	assert.Equal(t, KindNegate, table.Rule("ANGLE_RUD_DIFF_TACK_deg").Kind)

	assert.Equal(t, "LENGTH_RH_S_mm", table.Rule("LENGTH_RH_P_mm").Partner)
	assert.Equal(t, "ANGLE_DB_RAKE_P_deg", table.Rule("ANGLE_DB_RAKE_S_deg").Partner)

	// Channels the analysis deliberately leaves unruled.
	assert.Equal(t, KindIdentity, table.Rule("TWD_SGP_deg").Kind)
	assert.Equal(t, KindIdentity, table.Rule("PITCH_deg").Kind)
	assert.Equal(t, KindIdentity, table.Rule("BOAT_SPEED_km_h_1").Kind)

	// 16 negates, 2 rotations, 3 swap pairs.
	assert.Equal(t, 24, table.Len())
}

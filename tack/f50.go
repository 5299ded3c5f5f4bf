package tack

// F50Rules is the per-field transform enumeration for F50 boat logs,
// normalizing every tack-dependent channel to its starboard-tack
// representation.
//
// The asymmetries here are domain-driven and deliberate: GPS_COG_deg and
// HEADING_deg rotate 180 degrees because they are ground-referenced courses,
// while wind-relative angles negate; TWD_SGP_deg and PITCH_deg carry no rule
// at all. The table must stay exactly as enumerated, not be inferred from
// field naming patterns.
func F50Rules() map[string]Transform {
	rules := map[string]Transform{
		// Ground-referenced courses rotate half a turn on port tack.
		"HEADING_deg": Rotate180(),
		"GPS_COG_deg": Rotate180(),

		// Symmetric port/starboard channels exchange sides.
		"LENGTH_RH_P_mm":      SwapPair("LENGTH_RH_S_mm"),
		"LENGTH_RH_S_mm":      SwapPair("LENGTH_RH_P_mm"),
		"ANGLE_DB_RAKE_P_deg": SwapPair("ANGLE_DB_RAKE_S_deg"),
		"ANGLE_DB_RAKE_S_deg": SwapPair("ANGLE_DB_RAKE_P_deg"),
		"ANGLE_DB_CANT_P_deg": SwapPair("ANGLE_DB_CANT_S_deg"),
		"ANGLE_DB_CANT_S_deg": SwapPair("ANGLE_DB_CANT_P_deg"),
	}

	// Signed wind-relative and control-surface angles flip sign on port tack.
	for _, f := range []string{
		"TWA_SGP_deg",
		"AWA_SGP_deg",
		"RATE_YAW_deg_s_1",
		"LEEWAY_deg",
		"ANGLE_CA1_deg",
		"ANGLE_CA2_deg",
		"ANGLE_CA3_deg",
		"ANGLE_CA4_deg",
		"ANGLE_CA5_deg",
		"ANGLE_CA6_deg",
		"ANGLE_WING_TWIST_deg",
		"ANGLE_WING_ROT_deg",
		"HEEL_deg",
		"ANGLE_RUDDER_deg",
		"ANGLE_RUD_AVG_deg",
		"ANGLE_RUD_DIFF_TACK_deg",
	} {
		rules[f] = Negate()
	}

	return rules
}

// F50Table is the validated default rule table.
func F50Table() *RuleTable {
	return MustRuleTable(F50Rules())
}

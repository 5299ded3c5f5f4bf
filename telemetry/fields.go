package telemetry

import (
	"fmt"
	"sort"
)

// Field describes one named channel in an F50 telemetry row. Unit is
// informational only; nothing in the pipeline enforces it numerically.
type Field struct {
	Name        string
	Unit        string
	Description string
}

// Catalog is the immutable set of known telemetry fields, loaded once at
// startup. Field lookups after construction are read-only.
type Catalog struct {
	fields map[string]Field
	names  []string
}

// NewCatalog builds a catalog from a field list. Duplicate names are a
// configuration error.
func NewCatalog(fields []Field) (*Catalog, error) {
	c := &Catalog{
		fields: make(map[string]Field, len(fields)),
		names:  make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("catalog: field with empty name")
		}
		if _, ok := c.fields[f.Name]; ok {
			return nil, fmt.Errorf("catalog: duplicate field %q", f.Name)
		}
		c.fields[f.Name] = f
		c.names = append(c.names, f.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

// Lookup returns the field definition for name.
func (c *Catalog) Lookup(name string) (Field, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// Has reports whether name is a known field.
func (c *Catalog) Has(name string) bool {
	_, ok := c.fields[name]
	return ok
}

// Names returns the sorted field names.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of fields in the catalog.
func (c *Catalog) Len() int {
	return len(c.fields)
}

// DefaultCatalog returns the F50 boat-log field set.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(f50Fields)
	if err != nil {
		// Static field list, only reachable if the table above is edited badly.
		panic(err)
	}
	return c
}

var f50Fields = []Field{
	// Identifiers and timestamps
	{Name: FieldBoat, Unit: "", Description: "Boat identifier (national crew code)"},
	{Name: FieldDateTime, Unit: "", Description: "Sample timestamp, UTC"},
	{Name: "TIME_LOCAL_unk", Unit: "", Description: "Local timestamp, timezone unverified"},

	// GPS and position
	{Name: "LATITUDE_GPS_unk", Unit: "deg", Description: "GPS latitude"},
	{Name: "LONGITUDE_GPS_unk", Unit: "deg", Description: "GPS longitude"},

	// Speed and motion
	{Name: "BOAT_SPEED_km_h_1", Unit: "km/h", Description: "Boat speed through water"},
	{Name: "GPS_SOG_km_h_1", Unit: "km/h", Description: "GPS speed over ground"},
	{Name: "VMG_km_h_1", Unit: "km/h", Description: "Velocity made good"},

	// Angles and directions
	{Name: "HEADING_deg", Unit: "deg", Description: "Compass heading, 0-360"},
	{Name: "TWA_SGP_deg", Unit: "deg", Description: "True wind angle, -180 to +180 (negative on port tack)"},
	{Name: "TWS_SGP_km_h_1", Unit: "km/h", Description: "True wind speed"},
	{Name: "TWD_SGP_deg", Unit: "deg", Description: "True wind direction, 0-360"},
	{Name: "AWA_SGP_deg", Unit: "deg", Description: "Apparent wind angle, -180 to +180"},
	{Name: "RATE_YAW_deg_s_1", Unit: "deg/s", Description: "Yaw rate"},
	{Name: "GPS_COG_deg", Unit: "deg", Description: "GPS course over ground, 0-360"},
	{Name: "LEEWAY_deg", Unit: "deg", Description: "Leeway angle"},

	// Control surfaces
	{Name: "ANGLE_CA1_deg", Unit: "deg", Description: "Wing camber angle 1"},
	{Name: "ANGLE_CA2_deg", Unit: "deg", Description: "Wing camber angle 2"},
	{Name: "ANGLE_CA3_deg", Unit: "deg", Description: "Wing camber angle 3"},
	{Name: "ANGLE_CA4_deg", Unit: "deg", Description: "Wing camber angle 4"},
	{Name: "ANGLE_CA5_deg", Unit: "deg", Description: "Wing camber angle 5"},
	{Name: "ANGLE_CA6_deg", Unit: "deg", Description: "Wing camber angle 6"},

	// Wing controls
	{Name: "ANGLE_WING_TWIST_deg", Unit: "deg", Description: "Wing twist angle"},
	{Name: "ANGLE_WING_ROT_deg", Unit: "deg", Description: "Wing rotation angle"},

	// Boat attitude
	{Name: "PITCH_deg", Unit: "deg", Description: "Pitch angle, bow up positive"},
	{Name: "HEEL_deg", Unit: "deg", Description: "Heel angle"},

	// Ride heights
	{Name: "LENGTH_RH_P_mm", Unit: "mm", Description: "Port hull ride height"},
	{Name: "LENGTH_RH_S_mm", Unit: "mm", Description: "Starboard hull ride height"},
	{Name: "LENGTH_RH_BOW_mm", Unit: "mm", Description: "Bow ride height"},

	// Rudder and daggerboard controls
	{Name: "ANGLE_RUDDER_deg", Unit: "deg", Description: "Rudder angle"},
	{Name: "ANGLE_RUD_AVG_deg", Unit: "deg", Description: "Average rudder angle"},
	{Name: "ANGLE_RUD_DIFF_TACK_deg", Unit: "deg", Description: "Rudder differential for current tack"},
	{Name: "ANGLE_DB_RAKE_P_deg", Unit: "deg", Description: "Port daggerboard rake"},
	{Name: "ANGLE_DB_RAKE_S_deg", Unit: "deg", Description: "Starboard daggerboard rake"},
	{Name: "ANGLE_DB_CANT_P_deg", Unit: "deg", Description: "Port daggerboard cant"},
	{Name: "ANGLE_DB_CANT_S_deg", Unit: "deg", Description: "Starboard daggerboard cant"},

	// Race tracking
	{Name: "TRK_LEG_NUM_TOT_unk", Unit: "", Description: "Total legs in race"},
	{Name: "TRK_LEG_NUM_unk", Unit: "", Description: "Current leg number"},
	{Name: "TRK_RACE_NUM_unk", Unit: "", Description: "Race identifier"},

	// Performance calculations
	{Name: "PC_TTS_s", Unit: "s", Description: "Time to start line"},
	{Name: "PC_TTK_s", Unit: "s", Description: "Time to next tack"},
	{Name: "PC_TTB_s", Unit: "s", Description: "Time to boundary"},
	{Name: "PC_DTB_m", Unit: "m", Description: "Distance to boundary"},
	{Name: "PC_DTL_m", Unit: "m", Description: "Distance to start line"},
	{Name: "PC_TTM_s", Unit: "s", Description: "Time to next mark"},
}

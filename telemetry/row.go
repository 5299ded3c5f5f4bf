package telemetry

import (
	"fmt"
	"strconv"
	"time"
)

// Well-known row keys. PortTack is derived during ingestion and carried on
// the row; identifiers and timestamps pass through every transform untouched.
const (
	FieldBoat     = "BOAT"
	FieldDateTime = "DATETIME"
	FieldPortTack = "port_tack"

	// FieldTWA is the channel the tack state is derived from.
	FieldTWA = "TWA_SGP_deg"
)

// Row is one telemetry sample: field name to value. Values are float64 for
// sensor channels, string for identifiers, time.Time for timestamps and bool
// for the tack flag.
type Row map[string]interface{}

// Clone returns a shallow copy of the row. Values are scalars, so a shallow
// copy is a full snapshot.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Float returns the value of a field coerced to float64.
func (r Row) Float(name string) (float64, bool) {
	v, ok := r[name]
	if !ok {
		return 0, false
	}
	return ToFloat64(v)
}

// String returns the value of a field as a string, formatting non-string
// scalars.
func (r Row) String(name string) (string, bool) {
	v, ok := r[name]
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprintf("%v", v), true
}

// Time returns the value of a field as a time.Time.
func (r Row) Time(name string) (time.Time, bool) {
	v, ok := r[name]
	if !ok {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

// Boat returns the boat identifier, if present.
func (r Row) Boat() string {
	s, _ := r.String(FieldBoat)
	return s
}

// Timestamp returns the sample timestamp, if present.
func (r Row) Timestamp() time.Time {
	t, _ := r.Time(FieldDateTime)
	return t
}

// PortTack returns the tack flag. The flag must be present and boolean;
// anything else is an input error for the row.
func (r Row) PortTack() (bool, error) {
	v, ok := r[FieldPortTack]
	if !ok {
		return false, fmt.Errorf("row missing %s flag", FieldPortTack)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("row %s flag is %T, want bool", FieldPortTack, v)
	}
	return b, nil
}

// DerivePortTack computes the tack state from the true wind angle: negative
// TWA means the wind comes over the port side. Ingestion calls this to stamp
// the flag onto rows; downstream transforms only ever read the flag.
func DerivePortTack(r Row) (bool, error) {
	twa, ok := r.Float(FieldTWA)
	if !ok {
		return false, fmt.Errorf("row missing %s, cannot derive tack", FieldTWA)
	}
	return twa < 0, nil
}

// ToFloat64 coerces a decoded value to float64. Unparseable values report
// ok=false rather than defaulting silently.
func ToFloat64(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

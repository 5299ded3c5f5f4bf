package race

import (
	"fmt"
	"strings"
	"time"

	"f50-race-telemetry/nav"
)

// Mark is a single physical mark on the race course, optionally annotated
// with the wind measured at it.
type Mark struct {
	Name  string
	Pos   nav.Point
	SeqID int
	TWD   float64 // true wind direction at mark, 0 if unknown
	TWS   float64 // true wind speed at mark, 0 if unknown
}

// CompoundMark groups the marks forming a gate (or a single mark) that boats
// round as one course feature.
type CompoundMark struct {
	ID       int
	Name     string
	Marks    []Mark
	Rounding string
	SeqID    int
	ZoneSize float64
}

// Primary returns the first mark of the compound, the one leg geometry is
// measured against.
func (cm CompoundMark) Primary() Mark {
	return cm.Marks[0]
}

// TWD averages the wind direction across the compound's marks, circularly.
func (cm CompoundMark) TWD() float64 {
	var dirs []float64
	for _, m := range cm.Marks {
		if m.TWD != 0 {
			dirs = append(dirs, m.TWD)
		}
	}
	if len(dirs) == 0 {
		return 0
	}
	avg := nav.CompassAverage(dirs, float64(len(dirs)), 1)
	return avg[0]
}

// TWS averages the wind speed across the compound's marks.
func (cm CompoundMark) TWS() float64 {
	var sum float64
	var n int
	for _, m := range cm.Marks {
		if m.TWS != 0 {
			sum += m.TWS
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Course is the ordered list of compound marks plus race metadata.
type Course struct {
	Marks     []CompoundMark
	StartTime time.Time
	RaceID    string
}

// MarkAt returns the compound mark for a leg index.
func (c Course) MarkAt(leg int) (CompoundMark, error) {
	if leg < 0 || leg >= len(c.Marks) {
		return CompoundMark{}, fmt.Errorf("course: leg %d out of range (0..%d)", leg, len(c.Marks)-1)
	}
	return c.Marks[leg], nil
}

// LegType classifies a leg as upwind, downwind or reaching. Mark naming
// settles the standard course shapes first (start to M1 is always upwind,
// gate-to-gate legs alternate); anything else falls back to the wind angle
// relative to the leg bearing.
type LegType string

const (
	Upwind   LegType = "upwind"
	Downwind LegType = "downwind"
	Reaching LegType = "reaching"
)

// DetermineLegType classifies the leg from start to end under the given true
// wind direction.
func DetermineLegType(start, end CompoundMark, windDirection float64) LegType {
	switch {
	case start.Name == "SL1" && end.Name == "M1":
		return Upwind
	case start.Name == "M1" && strings.HasPrefix(end.Name, "LG"):
		return Downwind
	case strings.HasPrefix(start.Name, "LG") && strings.HasPrefix(end.Name, "WG"):
		return Upwind
	case strings.HasPrefix(start.Name, "WG") && strings.HasPrefix(end.Name, "LG"):
		return Downwind
	}

	legBearing := nav.Bearing(start.Primary().Pos, end.Primary().Pos)
	relativeWind := nav.NormalizeDegrees(windDirection - legBearing)

	switch {
	case relativeWind <= 90 || relativeWind >= 270:
		return Upwind
	case relativeWind >= 150 && relativeWind <= 210:
		return Downwind
	default:
		return Reaching
	}
}

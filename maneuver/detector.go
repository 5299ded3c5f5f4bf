package maneuver

import (
	"math"
	"sort"
	"time"

	"f50-race-telemetry/telemetry"
)

// Type classifies a maneuver by the wind sector it happens in.
type Type string

const (
	// Tack crosses the wind bow-first, upwind.
	Tack Type = "tack"
	// Gybe crosses the wind stern-first, downwind.
	Gybe Type = "gybe"
)

// Maneuver is one detected tack or gybe with its derived statistics, the
// per-maneuver record the analysis plan works from.
type Maneuver struct {
	Boat      string
	Race      string
	Leg       int
	Type      Type
	Time      time.Time // moment the TWA changes sign
	EntryTack string    // "port" or "starboard"

	EntryTWA float64
	ExitTWA  float64

	EntryBSP float64
	ExitBSP  float64
	MinBSP   float64
	BSPLoss  float64 // entry minus minimum

	MaxYawRate     float64 // deg/s, unsigned
	TurningTime    float64 // seconds with yaw rate above config threshold
	MaxRudderAngle float64 // deg, unsigned
	TurnMinRH      float64 // mm, lowest ride height of either hull in the turn
	Flying         bool    // both hulls above the flying threshold at entry
}

// Config tunes maneuver detection.
type Config struct {
	// EntryOffset and ExitOffset place the entry/exit samples relative to
	// the wind crossing.
	EntryOffset time.Duration
	ExitOffset  time.Duration
	// MinGap debounces crossings; wobbling across TWA zero during one
	// maneuver must not count twice.
	MinGap time.Duration
	// GybeTWA splits tacks from gybes: crossings with mean |TWA| above it
	// are gybes.
	GybeTWA float64
	// TurnRate is the yaw rate (deg/s) above which the boat counts as
	// turning, for TurningTime.
	TurnRate float64
	// FlyingRH is the ride height (mm) above which a hull counts as flying.
	FlyingRH float64
}

// DefaultConfig returns detection settings tuned for F50 logs.
func DefaultConfig() Config {
	return Config{
		EntryOffset: 5 * time.Second,
		ExitOffset:  5 * time.Second,
		MinGap:      15 * time.Second,
		GybeTWA:     90,
		TurnRate:    5,
		FlyingRH:    400,
	}
}

// Detect finds tacks and gybes in one boat's time-ordered rows. Rows without
// a TWA sample are skipped; rows are sorted by timestamp before scanning so
// callers can pass logs as imported.
//
// The tack flag on rows is not consulted: detection runs on raw (pre
// normalization) logs, where the sign of TWA itself carries the tack.
func Detect(rows []telemetry.Row, cfg Config) []Maneuver {
	samples := collectSamples(rows)
	if len(samples) < 2 {
		return nil
	}

	var maneuvers []Maneuver
	lastCrossing := time.Time{}

	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if prev.twa == 0 || prev.twa*cur.twa >= 0 {
			continue
		}
		if !lastCrossing.IsZero() && cur.t.Sub(lastCrossing) < cfg.MinGap {
			continue
		}
		lastCrossing = cur.t

		m := buildManeuver(samples, i, cfg)
		maneuvers = append(maneuvers, m)
	}
	return maneuvers
}

type sample struct {
	t      time.Time
	twa    float64
	bsp    float64
	yaw    float64
	rudder float64
	rhP    float64
	rhS    float64
	hasBSP bool
	hasRH  bool
	boat   string
	race   string
	leg    int
}

func collectSamples(rows []telemetry.Row) []sample {
	samples := make([]sample, 0, len(rows))
	for _, row := range rows {
		twa, ok := row.Float(telemetry.FieldTWA)
		if !ok {
			continue
		}
		s := sample{t: row.Timestamp(), twa: twa, boat: row.Boat()}
		s.bsp, s.hasBSP = row.Float("BOAT_SPEED_km_h_1")
		s.yaw, _ = row.Float("RATE_YAW_deg_s_1")
		s.rudder, _ = row.Float("ANGLE_RUDDER_deg")
		rhP, okP := row.Float("LENGTH_RH_P_mm")
		rhS, okS := row.Float("LENGTH_RH_S_mm")
		s.rhP, s.rhS = rhP, rhS
		s.hasRH = okP && okS
		s.race, _ = row.String("TRK_RACE_NUM_unk")
		if leg, ok := row.Float("TRK_LEG_NUM_unk"); ok {
			s.leg = int(leg)
		}
		samples = append(samples, s)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].t.Before(samples[j].t) })
	return samples
}

// buildManeuver derives the statistics for the crossing at index i.
func buildManeuver(samples []sample, i int, cfg Config) Maneuver {
	crossing := samples[i]
	entry := sampleAt(samples, crossing.t.Add(-cfg.EntryOffset), i, -1)
	exit := sampleAt(samples, crossing.t.Add(cfg.ExitOffset), i, +1)

	m := Maneuver{
		Boat:     crossing.boat,
		Race:     crossing.race,
		Leg:      crossing.leg,
		Time:     crossing.t,
		EntryTWA: entry.twa,
		ExitTWA:  exit.twa,
		EntryBSP: entry.bsp,
		ExitBSP:  exit.bsp,
	}

	if entry.twa < 0 {
		m.EntryTack = "port"
	} else {
		m.EntryTack = "starboard"
	}

	if math.Abs(entry.twa)+math.Abs(exit.twa) > 2*cfg.GybeTWA {
		m.Type = Gybe
	} else {
		m.Type = Tack
	}

	if entry.hasRH {
		m.Flying = entry.rhP > cfg.FlyingRH && entry.rhS > cfg.FlyingRH
	}

	// Scan the window between entry and exit for extrema.
	minBSP := math.Inf(1)
	minRH := math.Inf(1)
	var turning time.Duration
	for j := indexOf(samples, entry.t); j <= indexOf(samples, exit.t) && j < len(samples); j++ {
		s := samples[j]
		if s.hasBSP && s.bsp < minBSP {
			minBSP = s.bsp
		}
		if y := math.Abs(s.yaw); y > m.MaxYawRate {
			m.MaxYawRate = y
		}
		if r := math.Abs(s.rudder); r > m.MaxRudderAngle {
			m.MaxRudderAngle = r
		}
		if s.hasRH {
			if rh := math.Min(s.rhP, s.rhS); rh < minRH {
				minRH = rh
			}
		}
		if j > 0 && math.Abs(s.yaw) > cfg.TurnRate {
			turning += s.t.Sub(samples[j-1].t)
		}
	}

	if !math.IsInf(minBSP, 1) {
		m.MinBSP = minBSP
		m.BSPLoss = m.EntryBSP - minBSP
	}
	if !math.IsInf(minRH, 1) {
		m.TurnMinRH = minRH
	}
	m.TurningTime = turning.Seconds()

	return m
}

// sampleAt finds the sample nearest to target on one side of the crossing
// index, walking outward in direction dir. Falls back to the crossing's
// neighbor when the log does not extend far enough.
func sampleAt(samples []sample, target time.Time, crossing, dir int) sample {
	best := crossing
	if dir < 0 {
		best = crossing - 1
	}
	for j := best; j >= 0 && j < len(samples); j += dir {
		if dir < 0 && !samples[j].t.After(target) {
			return samples[j]
		}
		if dir > 0 && !samples[j].t.Before(target) {
			return samples[j]
		}
		best = j
	}
	return samples[best]
}

func indexOf(samples []sample, t time.Time) int {
	return sort.Search(len(samples), func(i int) bool {
		return !samples[i].t.Before(t)
	})
}

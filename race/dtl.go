package race

import (
	"sort"
	"time"

	"f50-race-telemetry/nav"
)

// DTLEntry is one boat's distance-to-leader sample.
type DTLEntry struct {
	Time time.Time
	// Direct is the straight-line distance to the leader in meters.
	Direct float64
	// Indirect routes via the next mark: the boat's distance to its next
	// mark plus the leader's distance to that same mark. On a shared leg it
	// collapses to Direct.
	Indirect float64
	// LegBehind is how many legs the boat trails the leader.
	LegBehind int
}

// CalculateDTL computes distance-to-leader for one boat's track against the
// leader timeline from IdentifyLeader. Positions without a usable leader
// sample (beyond the end of the timeline) are dropped.
func CalculateDTL(boat string, positions []Position, leaders []LeaderEntry, course Course) []DTLEntry {
	var out []DTLEntry

	for _, p := range positions {
		idx := sort.Search(len(leaders), func(i int) bool {
			return !leaders[i].Time.Before(p.Time)
		})
		if idx >= len(leaders) {
			continue
		}
		leader := leaders[idx]

		// The leader's own samples score zero.
		if boat == leader.Boat {
			out = append(out, DTLEntry{Time: p.Time})
			continue
		}

		direct := nav.Haversine(p.Pos, leader.Pos)

		cm, err := course.MarkAt(p.Leg)
		if err != nil {
			continue
		}
		markPos := cm.Primary().Pos

		indirect := nav.Haversine(p.Pos, markPos) + nav.Haversine(leader.Pos, markPos)
		legBehind := leader.Leg - p.Leg

		if p.Leg == leader.Leg {
			indirect = direct
		}

		out = append(out, DTLEntry{
			Time:      p.Time,
			Direct:    direct,
			Indirect:  indirect,
			LegBehind: legBehind,
		})
	}
	return out
}

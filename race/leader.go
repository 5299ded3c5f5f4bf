package race

import (
	"sort"
	"time"

	"f50-race-telemetry/nav"
)

// Position is one boat's GPS fix with race progress context.
type Position struct {
	Time    time.Time
	Pos     nav.Point
	Leg     int
	Speed   float64
	Heading float64
}

// LeaderEntry records which boat led the race at one timestamp.
type LeaderEntry struct {
	Time time.Time
	Boat string
	Pos  nav.Point
	Leg  int
}

// progress is a boat's standing at one instant.
type progress struct {
	pos        nav.Point
	leg        int
	distToMark float64
}

// IdentifyLeader walks the union of fleet timestamps and picks the leading
// boat at each one: furthest leg first, then shortest distance to the next
// mark. Boats without a fix at a timestamp simply don't compete for it.
func IdentifyLeader(fleet map[string][]Position, course Course) []LeaderEntry {
	timestamps := alignedTimestamps(fleet)

	// Index fixes by timestamp per boat for the sweep.
	byTime := make(map[string]map[time.Time]Position, len(fleet))
	for boat, positions := range fleet {
		idx := make(map[time.Time]Position, len(positions))
		for _, p := range positions {
			idx[p.Time] = p
		}
		byTime[boat] = idx
	}

	var leaders []LeaderEntry
	for _, ts := range timestamps {
		standings := make(map[string]progress)
		for boat, idx := range byTime {
			p, ok := idx[ts]
			if !ok {
				continue
			}
			cm, err := course.MarkAt(p.Leg)
			if err != nil {
				continue
			}
			standings[boat] = progress{
				pos:        p.Pos,
				leg:        p.Leg,
				distToMark: nav.Haversine(p.Pos, cm.Primary().Pos),
			}
		}

		boat, ok := determineLeader(standings)
		if !ok {
			continue
		}
		lead := standings[boat]
		leaders = append(leaders, LeaderEntry{
			Time: ts,
			Boat: boat,
			Pos:  lead.pos,
			Leg:  lead.leg,
		})
	}
	return leaders
}

// determineLeader picks the best-placed boat: higher leg wins, ties go to
// the boat closer to its next mark, then to the lexically smaller id so the
// result is deterministic.
func determineLeader(standings map[string]progress) (string, bool) {
	best := ""
	for boat, p := range standings {
		if best == "" {
			best = boat
			continue
		}
		b := standings[best]
		switch {
		case p.leg > b.leg:
			best = boat
		case p.leg == b.leg && p.distToMark < b.distToMark:
			best = boat
		case p.leg == b.leg && p.distToMark == b.distToMark && boat < best:
			best = boat
		}
	}
	return best, best != ""
}

// alignedTimestamps returns the sorted union of all fleet timestamps.
func alignedTimestamps(fleet map[string][]Position) []time.Time {
	seen := map[time.Time]bool{}
	for _, positions := range fleet {
		for _, p := range positions {
			seen[p.Time] = true
		}
	}
	out := make([]time.Time, 0, len(seen))
	for ts := range seen {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

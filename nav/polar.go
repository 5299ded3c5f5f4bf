package nav

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PolarPoint is one cell of a polar performance diagram.
type PolarPoint struct {
	TWA float64 // true wind angle, degrees
	TWS float64 // true wind speed
	BSP float64 // boat speed at that angle and wind
}

// Polar looks up expected boat speed from polar performance data.
type Polar interface {
	BoatSpeed(tws, twa float64) float64
}

// PolarTable is a Polar backed by measured polar points.
type PolarTable struct {
	points []PolarPoint
}

// NewPolarTable builds a table from polar points.
func NewPolarTable(points []PolarPoint) (*PolarTable, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("polar: no points")
	}
	copied := make([]PolarPoint, len(points))
	copy(copied, points)
	return &PolarTable{points: copied}, nil
}

// BoatSpeed returns the expected boat speed for a wind speed and angle by
// averaging the polar points nearest in both wind speed and wind angle.
// Angles fold to [0, 180]; the polar is symmetric across tacks.
func (p *PolarTable) BoatSpeed(tws, twa float64) float64 {
	twa = math.Abs(twa)
	if twa > 180 {
		twa = 360 - twa
	}

	nearTWS := nearestValues(p.points, tws, func(pt PolarPoint) float64 { return pt.TWS })
	nearTWA := nearestValues(p.points, twa, func(pt PolarPoint) float64 { return pt.TWA })

	var speeds []float64
	for _, pt := range p.points {
		if nearTWS[pt.TWS] && nearTWA[pt.TWA] {
			speeds = append(speeds, pt.BSP)
		}
	}
	if len(speeds) == 0 {
		return 0
	}
	return stat.Mean(speeds, nil)
}

// OptimalAngles returns the (port, starboard) true wind angles with the best
// VMG for a wind speed. Upwind searches 30-60 degrees, downwind 120-180; only
// points within 2 units of the requested wind speed are considered.
func (p *PolarTable) OptimalAngles(tws float64, downwind bool) (port, starboard float64, err error) {
	lo, hi, ref := 30.0, 60.0, 0.0
	if downwind {
		lo, hi, ref = 120.0, 180.0, 180.0
	}

	var angles, vmgs []float64
	for _, pt := range p.points {
		if math.Abs(pt.TWS-tws) >= 2.0 {
			continue
		}
		if pt.TWA < lo || pt.TWA > hi {
			continue
		}
		angles = append(angles, pt.TWA)
		vmgs = append(vmgs, pt.BSP*math.Cos(radians(pt.TWA-ref)))
	}
	if len(angles) == 0 {
		return 0, 0, fmt.Errorf("polar: no points near tws %.1f in [%.0f, %.0f]", tws, lo, hi)
	}

	best := angles[floats.MaxIdx(vmgs)]
	return -best, best, nil
}

// nearestValues finds the two distinct key values closest to target and
// returns them as a membership set.
func nearestValues(points []PolarPoint, target float64, key func(PolarPoint) float64) map[float64]bool {
	distinct := map[float64]bool{}
	for _, pt := range points {
		distinct[key(pt)] = true
	}

	best := make([]float64, 0, 2)
	for v := range distinct {
		best = append(best, v)
	}
	// Selection of the two nearest distinct values.
	for i := 0; i < len(best); i++ {
		for j := i + 1; j < len(best); j++ {
			if math.Abs(best[j]-target) < math.Abs(best[i]-target) {
				best[i], best[j] = best[j], best[i]
			}
		}
	}
	if len(best) > 2 {
		best = best[:2]
	}

	set := make(map[float64]bool, len(best))
	for _, v := range best {
		set[v] = true
	}
	return set
}

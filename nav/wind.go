package nav

import "math"

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// AngularDiff returns the unsigned smallest difference between two angles in
// degrees, in [0, 180].
func AngularDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// VMC is the component of boat speed toward a course bearing: speed times
// the cosine of the heading/bearing difference.
func VMC(boatSpeed, boatHeading, courseBearing float64) float64 {
	return boatSpeed * math.Cos(radians(AngularDiff(boatHeading, courseBearing)))
}

// CompassAverage downsamples a series of compass directions by windowed
// circular mean. The window is sampleRate/targetRate samples; a plain
// arithmetic mean would average 359 and 1 to 180, so each window is averaged
// on the unit circle instead.
func CompassAverage(directions []float64, sampleRate, targetRate float64) []float64 {
	if len(directions) == 0 || sampleRate <= 0 || targetRate <= 0 {
		return nil
	}

	window := int(sampleRate / targetRate)
	if window < 1 {
		window = 1
	}

	averaged := make([]float64, 0, (len(directions)+window-1)/window)
	for i := 0; i < len(directions); i += window {
		end := i + window
		if end > len(directions) {
			end = len(directions)
		}

		var x, y float64
		for _, d := range directions[i:end] {
			x += math.Cos(radians(d))
			y += math.Sin(radians(d))
		}
		n := float64(end - i)
		mean := degrees(math.Atan2(y/n, x/n))
		averaged = append(averaged, NormalizeDegrees(mean))
	}
	return averaged
}

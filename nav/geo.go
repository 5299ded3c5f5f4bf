package nav

import "math"

// Point is a WGS84 latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

const earthRadiusMeters = 6371000

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	lat1, lon1 := radians(a.Lat), radians(a.Lon)
	lat2, lon2 := radians(b.Lat), radians(b.Lon)

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// Bearing returns the initial great-circle bearing from a to b in degrees,
// normalized to [0, 360).
func Bearing(a, b Point) float64 {
	lat1, lon1 := radians(a.Lat), radians(a.Lon)
	lat2, lon2 := radians(b.Lat), radians(b.Lon)
	dlon := lon2 - lon1

	y := math.Sin(dlon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)

	return NormalizeDegrees(degrees(math.Atan2(y, x)))
}

// Intersection returns the point where two great-circle lines cross, each
// given by a start point and a bearing. When the lines are parallel, or the
// crossing lies behind either start point, the first start point is returned
// unchanged (the caller treats that as "no useful crossing ahead").
func Intersection(start Point, startBearing float64, end Point, endBearing float64) Point {
	lat1, lon1 := radians(start.Lat), radians(start.Lon)
	lat2, lon2 := radians(end.Lat), radians(end.Lon)
	brng1 := radians(startBearing)
	brng2 := radians(endBearing)

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	dist12 := 2 * math.Asin(math.Sqrt(
		math.Pow(math.Sin(dlat/2), 2)+
			math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)))
	if dist12 == 0 {
		return start
	}

	brngA := math.Acos((math.Sin(lat2) - math.Sin(lat1)*math.Cos(dist12)) /
		(math.Sin(dist12) * math.Cos(lat1)))
	brngB := math.Acos((math.Sin(lat1) - math.Sin(lat2)*math.Cos(dist12)) /
		(math.Sin(dist12) * math.Cos(lat2)))

	var brng12, brng21 float64
	if math.Sin(dlon) > 0 {
		brng12 = brngA
		brng21 = 2*math.Pi - brngB
	} else {
		brng12 = 2*math.Pi - brngA
		brng21 = brngB
	}

	alpha1 := math.Mod(brng1-brng12+math.Pi, 2*math.Pi) - math.Pi
	alpha2 := math.Mod(brng21-brng2+math.Pi, 2*math.Pi) - math.Pi

	if math.Sin(alpha1) == 0 && math.Sin(alpha2) == 0 {
		return start // infinite intersections
	}
	if math.Sin(alpha1)*math.Sin(alpha2) < 0 {
		return start // crossing is behind one or both points
	}

	alpha3 := math.Acos(-math.Cos(alpha1)*math.Cos(alpha2) +
		math.Sin(alpha1)*math.Sin(alpha2)*math.Cos(dist12))
	dist13 := math.Atan2(
		math.Sin(dist12)*math.Sin(alpha1)*math.Sin(alpha2),
		math.Cos(alpha2)+math.Cos(alpha1)*math.Cos(alpha3))
	lat3 := math.Asin(math.Sin(lat1)*math.Cos(dist13) +
		math.Cos(lat1)*math.Sin(dist13)*math.Cos(brng1))
	dlon13 := math.Atan2(
		math.Sin(brng1)*math.Sin(dist13)*math.Cos(lat1),
		math.Cos(dist13)-math.Sin(lat1)*math.Sin(lat3))

	return Point{Lat: degrees(lat3), Lon: degrees(lon1 + dlon13)}
}

// FilterJumps drops GPS fixes further than maxJumpMeters from the last kept
// fix. Receiver glitches show up as single-sample teleports; everything
// downstream assumes a physically plausible track.
func FilterJumps(points []Point, maxJumpMeters float64) []Point {
	if len(points) < 2 {
		return points
	}

	filtered := make([]Point, 0, len(points))
	filtered = append(filtered, points[0])

	for _, p := range points[1:] {
		if Haversine(filtered[len(filtered)-1], p) <= maxJumpMeters {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Package geodesy provides the spherical-earth position math used by the QC
// checks: great-circle distance and unit-sphere position averaging.
package geodesy

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// EarthRadiusKm is the mean earth radius used for great-circle distances.
const EarthRadiusKm = 6367.4445

// Point is a geographic position in decimal degrees. Longitude is positive
// east, latitude positive north.
type Point struct {
	Lat float64
	Lon float64
}

// HaversineKm returns the great-circle distance between two points in
// kilometres on a sphere of radius EarthRadiusKm.
func HaversineKm(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(s)))
}

// ToVector maps a geographic point onto the unit sphere.
func ToVector(p Point) r3.Vec {
	lat := radians(p.Lat)
	lon := radians(p.Lon)
	return r3.Vec{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// FromVector maps a vector back to a geographic point. The vector need not be
// normalized. It reports false when the vector is too close to the origin to
// define a direction; at the poles the longitude is fixed to zero.
func FromVector(v r3.Vec) (Point, bool) {
	n := r3.Norm(v)
	if n < 1e-9 {
		return Point{}, false
	}
	lat := degrees(math.Asin(v.Z / n))
	var lon float64
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y) > 1e-12 {
		lon = degrees(math.Atan2(v.Y, v.X))
	}
	return Point{Lat: lat, Lon: lon}, true
}

// MeanPosition averages positions on the unit sphere. It reports false for an
// empty input or when the points cancel out, as antipodal pairs do.
func MeanPosition(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	var sum r3.Vec
	for _, p := range points {
		sum = r3.Add(sum, ToVector(p))
	}
	return FromVector(r3.Scale(1/float64(len(points)), sum))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

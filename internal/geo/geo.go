package geo

import (
	"errors"
	"math"
)

// ErrEmptyInput indicates Centroid was called with no points. That is a
// caller bug (guard with a non-empty check), not a runtime condition.
var ErrEmptyInput = errors.New("geo: centroid requires at least one point")

const earthRadiusMiles = 3959

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func ToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// HaversineDistanceMiles returns the great-circle distance between two
// coordinates in miles.
func HaversineDistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := ToRadians(lat2 - lat1)
	dLng := ToRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(ToRadians(lat1))*math.Cos(ToRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// Centroid is the arithmetic mean of latitudes and longitudes taken
// independently. This is a flat-plane approximation, not a geodesic
// centroid; stored centroids were produced this way, so the behavior is
// kept as is for compatibility.
func Centroid(points []Point) (Point, error) {
	if len(points) == 0 {
		return Point{}, ErrEmptyInput
	}

	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}

	n := float64(len(points))
	return Point{Lat: sumLat / n, Lng: sumLng / n}, nil
}

// Package geo holds the spherical-distance and bounding-box math used by the
// candidate finder and the routing fallback.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// kmPerDegreeLat approximates the north-south span of one degree of latitude.
const kmPerDegreeLat = 111.0

// Haversine returns the great-circle distance in km between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	deltaPhi := radians(lat2 - lat1)
	deltaLambda := radians(lng2 - lng1)

	a := math.Pow(math.Sin(deltaPhi/2), 2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(deltaLambda/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// BBox is a rectangular coordinate range used to cheaply narrow candidates
// before exact distance computation.
type BBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// BoundingBox returns a box that is a conservative superset of the disk of
// the given radius around the center: it must never exclude a true positive.
// Near the poles cos(lat) approaches zero and the longitude span blows up;
// that degrades performance, not correctness, and is accepted.
func BoundingBox(lat, lng, radiusKm float64) BBox {
	latDelta := radiusKm / kmPerDegreeLat
	lngDelta := radiusKm / (kmPerDegreeLat * math.Cos(radians(lat)))

	return BBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - lngDelta,
		MaxLng: lng + lngDelta,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

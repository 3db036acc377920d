package repositories

import "math"

const (
	DefaultSearchRadiusKm = 10.0
	kmPerDegree           = 111.0
)

// BoundingBox is a latitude/longitude rectangle used as a cheap radius approximation.
// It is not corrected for longitude convergence at high latitudes.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// NewBoundingBox builds the box lat ± r/111 and lng ± r/(111·|lat|).
// At the equator the longitude span degenerates to lng ± r.
func NewBoundingBox(lat, lng, radiusKm float64) BoundingBox {
	latDelta := radiusKm / kmPerDegree

	lngDelta := radiusKm
	if lat != 0 {
		lngDelta = radiusKm / (kmPerDegree * math.Abs(lat))
	}

	return BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - lngDelta,
		MaxLng: lng + lngDelta,
	}
}

// Contains reports whether the point lies inside the box, edges included
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

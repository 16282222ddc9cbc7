package geo

// Point represents a WGS-84 geographic coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Polyline is an ordered sequence of points forming a line over the ground,
// such as a trail or road centerline.
type Polyline struct {
	Points []Point `json:"points"`
}

// GeoUtils defines the geographic calculations used by the clustering and
// intersection-matching pipeline.
type GeoUtils interface {
	// Great-circle distance between two points, in meters.
	PointToPoint(p1, p2 Point) (float64, error)

	// Great-circle distance between two raw coordinate pairs, in meters.
	// Convenience form of PointToPoint.
	DistanceFromCoords(lat1, lon1, lat2, lon2 float64) (float64, error)

	// Minimum distance from a point to any segment of a polyline, in meters.
	// The polyline must have at least 2 points.
	PointToPolyline(point Point, polyline Polyline) (float64, error)

	// Decode a Google encoded polyline string into a point sequence.
	DecodePolyline(encoded string) ([]Point, error)
}

// NewGeoUtils is implemented in geo.go

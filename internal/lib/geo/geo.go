package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-polyline"
)

// earthRadiusMeters is the mean radius of the Earth. A spherical
// approximation is sufficient at survey scale; no geodesic solver is used.
const earthRadiusMeters = 6371000

const degToRad = math.Pi / 180

// geoUtils implements the GeoUtils interface
type geoUtils struct{}

// NewGeoUtils creates a new GeoUtils implementation
func NewGeoUtils() GeoUtils {
	return &geoUtils{}
}

// PointToPoint calculates great-circle distance between two points using the
// haversine formula.
func (g *geoUtils) PointToPoint(p1, p2 Point) (float64, error) {
	if !isValidCoordinate(p1) || !isValidCoordinate(p2) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return haversine(p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude), nil
}

// DistanceFromCoords calculates great-circle distance between two raw
// coordinate pairs.
func (g *geoUtils) DistanceFromCoords(lat1, lon1, lat2, lon2 float64) (float64, error) {
	return g.PointToPoint(Point{Latitude: lat1, Longitude: lon1}, Point{Latitude: lat2, Longitude: lon2})
}

// haversine computes great-circle distance in meters between two lat/lon
// pairs given in decimal degrees.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// PointToPolyline calculates the minimum distance from a point to a polyline
// by checking every segment.
func (g *geoUtils) PointToPolyline(point Point, pl Polyline) (float64, error) {
	if !isValidCoordinate(point) {
		return 0, errors.New("invalid point coordinates")
	}
	if len(pl.Points) < 2 {
		return 0, errors.New("polyline must have at least 2 points")
	}

	minDistance := math.Inf(1)
	for i := 0; i < len(pl.Points)-1; i++ {
		d := g.pointToSegmentDistance(point, pl.Points[i], pl.Points[i+1])
		if d < minDistance {
			minDistance = d
		}
	}
	return minDistance, nil
}

// pointToSegmentDistance calculates the distance from a point to a line
// segment. The point is projected onto the segment on a locally-flat
// (equirectangular) plane and the projection is clamped to the segment
// endpoints when the perpendicular foot falls outside it. At survey scale
// (segments of tens of meters to a few kilometers) the flat approximation is
// well within 1% of a full spherical solution.
func (g *geoUtils) pointToSegmentDistance(point, segStart, segEnd Point) float64 {
	if segStart.Latitude == segEnd.Latitude && segStart.Longitude == segEnd.Longitude {
		return haversine(point.Latitude, point.Longitude, segStart.Latitude, segStart.Longitude)
	}

	// Local plane centred on the segment start. Longitude degrees shrink by
	// cos(latitude); latitude degrees are treated as constant length.
	metersPerDegree := earthRadiusMeters * degToRad
	cosLat := math.Cos(segStart.Latitude * degToRad)

	ax := (segEnd.Longitude - segStart.Longitude) * cosLat * metersPerDegree
	ay := (segEnd.Latitude - segStart.Latitude) * metersPerDegree
	px := (point.Longitude - segStart.Longitude) * cosLat * metersPerDegree
	py := (point.Latitude - segStart.Latitude) * metersPerDegree

	t := (px*ax + py*ay) / (ax*ax + ay*ay)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	projected := Point{
		Latitude:  segStart.Latitude + t*(segEnd.Latitude-segStart.Latitude),
		Longitude: segStart.Longitude + t*(segEnd.Longitude-segStart.Longitude),
	}
	return haversine(point.Latitude, point.Longitude, projected.Latitude, projected.Longitude)
}

// DecodePolyline decodes a Google encoded polyline string to a point sequence.
func (g *geoUtils) DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}
		if !isValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}
	return points, nil
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}

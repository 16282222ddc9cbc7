package intersect

import (
	"fmt"
	"sort"

	"github.com/kootenaytrails/signpost/internal/lib/cluster"
	"github.com/kootenaytrails/signpost/internal/lib/geo"
)

// unknownTrailName substitutes for a matched trail with no name. Nameless
// trails still count and are never silently dropped.
const unknownTrailName = "Unknown"

// Matcher cross-references cluster centers against trail geometry. A trail
// matches a cluster when its polyline passes within radius_m + bufferM of
// the cluster center.
type Matcher struct {
	geoUtils geo.GeoUtils
	bufferM  float64
}

// NewMatcher creates a matcher with the given buffer distance in meters.
func NewMatcher(bufferM float64) *Matcher {
	return &Matcher{
		geoUtils: geo.NewGeoUtils(),
		bufferM:  bufferM,
	}
}

// Match produces one Intersection per input cluster, sorted descending by
// trail count (stable, so ties keep the input cluster order). Non-fatal
// conditions (zero-match clusters, degenerate trail geometry) are
// accumulated as warnings, never dropped.
func (m *Matcher) Match(clusters []cluster.Cluster, trails []Trail) ([]Intersection, []Warning, error) {
	if m.bufferM < 0 {
		return nil, nil, fmt.Errorf("intersection buffer must not be negative, got %v", m.bufferM)
	}

	var warnings []Warning

	// Trails that cannot form a line are excluded up front, once, rather
	// than re-flagged for every cluster.
	usable := make([]Trail, 0, len(trails))
	for _, t := range trails {
		if len(t.Geometry) < 2 {
			warnings = append(warnings, Warning{
				Kind:    WarnDegenerateGeometry,
				TrailID: t.ID,
				Message: fmt.Sprintf("trail %q has %d coordinate(s), cannot form a line; excluded from matching", t.displayName(), len(t.Geometry)),
			})
			continue
		}
		usable = append(usable, t)
	}

	intersections := make([]Intersection, 0, len(clusters))
	for _, c := range clusters {
		center := geo.Point{Latitude: c.Latitude, Longitude: c.Longitude}
		matchRadius := c.RadiusM + m.bufferM

		result := Intersection{
			ClusterID:  c.ID,
			TrailNames: []string{},
			Latitude:   c.Latitude,
			Longitude:  c.Longitude,
			RadiusM:    c.RadiusM,
			Photos:     memberFilenames(c),
		}

		for _, t := range usable {
			d, err := m.geoUtils.PointToPolyline(center, geo.Polyline{Points: t.Geometry})
			if err != nil {
				return nil, nil, fmt.Errorf("matching cluster %s against trail %q: %w", c.ID, t.displayName(), err)
			}
			if d > matchRadius {
				continue
			}

			result.TrailCount++
			name := t.Name
			if name == "" {
				name = unknownTrailName
			}
			result.TrailNames = append(result.TrailNames, name)
			result.Activities = result.Activities.or(t.Activities)
		}

		if result.TrailCount == 0 {
			warnings = append(warnings, Warning{
				Kind:      WarnNoMatch,
				ClusterID: c.ID,
				Message:   fmt.Sprintf("cluster %s matched no trails within %.0fm; emitted with trail_count=0", c.ID, matchRadius),
			})
		}

		intersections = append(intersections, result)
	}

	// Stable sort keeps input cluster order for equal counts, so identical
	// input always produces identically-ordered output.
	sort.SliceStable(intersections, func(i, j int) bool {
		return intersections[i].TrailCount > intersections[j].TrailCount
	})

	return intersections, warnings, nil
}

// displayName returns the trail's name, or its ID when unnamed, for
// human-facing messages.
func (t Trail) displayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// memberFilenames lists a cluster's member photos in member order.
func memberFilenames(c cluster.Cluster) []string {
	filenames := make([]string, len(c.Members))
	for i, m := range c.Members {
		filenames[i] = m.Filename
	}
	return filenames
}

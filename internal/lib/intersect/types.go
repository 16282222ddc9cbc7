package intersect

import (
	"github.com/kootenaytrails/signpost/internal/lib/geo"
)

// Activities are the boolean activity flags carried on a trail record. A
// flag absent from the source data is false.
type Activities struct {
	Hiking     bool `json:"hiking"`
	Biking     bool `json:"biking"`
	Equestrian bool `json:"equestrian"`
	Motorized  bool `json:"motorized"`
}

// or returns the elementwise logical OR of two flag sets.
func (a Activities) or(b Activities) Activities {
	return Activities{
		Hiking:     a.Hiking || b.Hiking,
		Biking:     a.Biking || b.Biking,
		Equestrian: a.Equestrian || b.Equestrian,
		Motorized:  a.Motorized || b.Motorized,
	}
}

// Trail is a known trail from the mapping service: a named polyline plus
// activity flags. Color and difficulty are display metadata and play no part
// in matching.
type Trail struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Geometry   []geo.Point `json:"geometry"`
	Activities Activities  `json:"activities"`
	Color      string      `json:"color,omitempty"`
	Difficulty string      `json:"difficulty,omitempty"`
}

// Intersection is a candidate signage site: one photo cluster annotated with
// every trail whose geometry passes within the cluster's buffered radius.
type Intersection struct {
	ClusterID  string     `json:"cluster_id"`
	TrailCount int        `json:"trail_count"`
	TrailNames []string   `json:"trail_names"`
	Activities Activities `json:"activities"`
	Latitude   float64    `json:"lat"`
	Longitude  float64    `json:"lon"`
	RadiusM    float64    `json:"radius_m"`
	Photos     []string   `json:"photos"`
}

// WarningKind classifies non-fatal conditions raised during matching.
type WarningKind string

const (
	// WarnNoMatch: a cluster matched zero trails. The cluster is still
	// emitted: a photo cluster with no known trail nearby is survey
	// information, not an error.
	WarnNoMatch WarningKind = "no_match"

	// WarnDegenerateGeometry: a trail record has fewer than 2 coordinates
	// and cannot form a line. The trail is excluded from matching.
	WarnDegenerateGeometry WarningKind = "degenerate_geometry"
)

// Warning is a non-fatal condition accumulated during a matching run and
// reported alongside the output.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	ClusterID string      `json:"cluster_id,omitempty"`
	TrailID   string      `json:"trail_id,omitempty"`
	Message   string      `json:"message"`
}

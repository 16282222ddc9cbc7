package cluster

import (
	"errors"
	"fmt"
	"math"

	"github.com/mmcloughlin/geohash"

	"github.com/kootenaytrails/signpost/internal/lib/geo"
)

// clusterIDPrefix labels geohash-derived cluster IDs so they read as site
// identifiers in downstream output.
const clusterIDPrefix = "site_"

// geohashPrecision is the number of geohash characters in a cluster ID. A
// 6-character cell is ~1.2km x 0.6km; two cluster centers inside the same
// cell collide, which is accepted behavior since expected cluster spacing
// exceeds the cell size.
const geohashPrecision = 6

// ErrNoObservations indicates the engine was invoked with zero observations.
// An empty photo set is a setup error the operator must fix, not a valid
// empty result.
var ErrNoObservations = errors.New("no observations to cluster")

// Engine partitions photo observations into single-linkage spatial clusters:
// two observations share a cluster exactly when a chain of observations, each
// within the distance threshold of the next, connects them.
type Engine struct {
	geoUtils   geo.GeoUtils
	thresholdM float64
}

// NewEngine creates a clustering engine with the given linkage distance
// threshold in meters.
func NewEngine(thresholdM float64) *Engine {
	return &Engine{
		geoUtils:   geo.NewGeoUtils(),
		thresholdM: thresholdM,
	}
}

// Cluster partitions the observations into clusters. Every observation lands
// in exactly one cluster; the result is deterministic for a given input
// order, with clusters ordered by their first member's position in the input.
//
// Pair comparison is O(N^2), which is the complexity ceiling of this
// implementation. It is acceptable for surveys in the low thousands of
// photos; larger inputs would want a spatial index in front of the same
// union-find semantics.
func (e *Engine) Cluster(observations []Observation) ([]Cluster, error) {
	if e.thresholdM <= 0 {
		return nil, fmt.Errorf("cluster threshold must be positive, got %v", e.thresholdM)
	}
	if len(observations) == 0 {
		return nil, ErrNoObservations
	}

	uf := newUnionFind(len(observations))
	for i := 0; i < len(observations); i++ {
		for j := i + 1; j < len(observations); j++ {
			d, err := e.geoUtils.DistanceFromCoords(
				observations[i].Latitude, observations[i].Longitude,
				observations[j].Latitude, observations[j].Longitude,
			)
			if err != nil {
				return nil, fmt.Errorf("observation %q: %w", observations[j].Filename, err)
			}
			if d <= e.thresholdM {
				uf.union(i, j)
			}
		}
	}

	// Group indices by component root, keeping first-appearance order so the
	// output is stable across runs.
	var order []int
	groups := make(map[int][]int)
	for i := range observations {
		root := uf.find(i)
		if _, seen := groups[root]; !seen {
			order = append(order, root)
		}
		groups[root] = append(groups[root], i)
	}

	clusters := make([]Cluster, 0, len(order))
	for _, root := range order {
		c, err := e.buildCluster(observations, groups[root])
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, c)
	}
	return clusters, nil
}

// buildCluster derives the cluster geometry for one connected component.
//
// The center is the plain arithmetic mean of member coordinates, not a
// geodesic centroid. Cluster extents are tens of meters, where the two agree
// to well under a meter, and the geohash-derived ID depends on this exact
// definition; do not substitute a spherical centroid.
func (e *Engine) buildCluster(observations []Observation, indices []int) (Cluster, error) {
	var sumLat, sumLon float64
	for _, idx := range indices {
		sumLat += observations[idx].Latitude
		sumLon += observations[idx].Longitude
	}
	n := float64(len(indices))
	centerLat := sumLat / n
	centerLon := sumLon / n

	members := make([]Member, 0, len(indices))
	var radius float64
	for _, idx := range indices {
		obs := observations[idx]
		d, err := e.geoUtils.DistanceFromCoords(obs.Latitude, obs.Longitude, centerLat, centerLon)
		if err != nil {
			return Cluster{}, fmt.Errorf("observation %q: %w", obs.Filename, err)
		}
		d = roundMeters(d)
		if d > radius {
			radius = d
		}
		members = append(members, Member{
			Filename:            obs.Filename,
			Latitude:            obs.Latitude,
			Longitude:           obs.Longitude,
			Timestamp:           obs.Timestamp,
			DistanceFromCenterM: d,
		})
	}

	return Cluster{
		ID:        clusterIDPrefix + geohash.EncodeWithPrecision(centerLat, centerLon, geohashPrecision),
		Latitude:  centerLat,
		Longitude: centerLon,
		RadiusM:   radius,
		Members:   members,
	}, nil
}

// roundMeters rounds a distance to 2 decimal places (centimeter precision).
func roundMeters(d float64) float64 {
	return math.Round(d*100) / 100
}

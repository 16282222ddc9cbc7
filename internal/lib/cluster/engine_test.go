package cluster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Cluster_PairAndSingleton(t *testing.T) {
	engine := NewEngine(30)

	// Two photos at the same junction ~13m apart, one photo ~6.5km away.
	observations := []Observation{
		{Filename: "IMG_0001.jpg", Latitude: 49.6812, Longitude: -115.9856, Timestamp: "2025-06-14T10:31:00Z"},
		{Filename: "IMG_0002.jpg", Latitude: 49.6813, Longitude: -115.9857, Timestamp: "2025-06-14T10:32:00Z"},
		{Filename: "IMG_0003.jpg", Latitude: 49.7000, Longitude: -115.9000, Timestamp: "2025-06-14T11:05:00Z"},
	}

	clusters, err := engine.Cluster(observations)
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	pair := clusters[0]
	require.Len(t, pair.Members, 2)
	assert.Equal(t, "IMG_0001.jpg", pair.Members[0].Filename)
	assert.Equal(t, "IMG_0002.jpg", pair.Members[1].Filename)
	assert.InDelta(t, 49.68125, pair.Latitude, 1e-9, "center is the arithmetic mean")
	assert.InDelta(t, -115.98565, pair.Longitude, 1e-9)
	assert.InDelta(t, 6.6, pair.RadiusM, 0.2, "radius is half the ~13m pair distance")

	singleton := clusters[1]
	require.Len(t, singleton.Members, 1)
	assert.Equal(t, "IMG_0003.jpg", singleton.Members[0].Filename)
	assert.Zero(t, singleton.RadiusM, "single-member cluster has radius 0")
	assert.Zero(t, singleton.Members[0].DistanceFromCenterM)
}

func TestEngine_Cluster_TransitiveChain(t *testing.T) {
	engine := NewEngine(30)

	// Three photos in a north-south line, ~22m between neighbors. The end
	// points are ~44m apart, beyond the threshold, but chained through the
	// middle photo they form one cluster.
	step := 22.0 / 111195.0
	observations := []Observation{
		{Filename: "a.jpg", Latitude: 49.6800, Longitude: -115.9856},
		{Filename: "b.jpg", Latitude: 49.6800 + step, Longitude: -115.9856},
		{Filename: "c.jpg", Latitude: 49.6800 + 2*step, Longitude: -115.9856},
	}

	clusters, err := engine.Cluster(observations)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Members, 3)

	// With a tighter threshold the chain breaks into three singletons.
	tight := NewEngine(10)
	clusters, err = tight.Cluster(observations)
	require.NoError(t, err)
	assert.Len(t, clusters, 3)
}

func TestEngine_Cluster_PartitionProperty(t *testing.T) {
	engine := NewEngine(50)

	observations := []Observation{
		{Filename: "a.jpg", Latitude: 49.6812, Longitude: -115.9856},
		{Filename: "b.jpg", Latitude: 49.6813, Longitude: -115.9857},
		{Filename: "c.jpg", Latitude: 49.7000, Longitude: -115.9000},
		{Filename: "d.jpg", Latitude: 49.7001, Longitude: -115.9001},
		{Filename: "e.jpg", Latitude: 49.6500, Longitude: -116.0500},
	}

	clusters, err := engine.Cluster(observations)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, c := range clusters {
		for _, m := range c.Members {
			seen[m.Filename]++
		}
	}
	require.Len(t, seen, len(observations), "every observation appears in the output")
	for filename, count := range seen {
		assert.Equal(t, 1, count, "observation %s must belong to exactly one cluster", filename)
	}
}

func TestEngine_Cluster_RadiusMatchesMaxMemberDistance(t *testing.T) {
	engine := NewEngine(100)

	observations := []Observation{
		{Filename: "a.jpg", Latitude: 49.6812, Longitude: -115.9856},
		{Filename: "b.jpg", Latitude: 49.6813, Longitude: -115.9857},
		{Filename: "c.jpg", Latitude: 49.6815, Longitude: -115.9856},
	}

	clusters, err := engine.Cluster(observations)
	require.NoError(t, err)
	require.Len(t, clusters, 1)

	c := clusters[0]
	var max float64
	for _, m := range c.Members {
		assert.GreaterOrEqual(t, m.DistanceFromCenterM, 0.0)
		if m.DistanceFromCenterM > max {
			max = m.DistanceFromCenterM
		}
	}
	assert.Equal(t, max, c.RadiusM, "radius equals the maximum member distance")

	// Distances carry centimeter precision only.
	for _, m := range c.Members {
		rounded := float64(int(m.DistanceFromCenterM*100+0.5)) / 100
		assert.InDelta(t, rounded, m.DistanceFromCenterM, 1e-9)
	}
}

func TestEngine_Cluster_Deterministic(t *testing.T) {
	engine := NewEngine(30)

	observations := []Observation{
		{Filename: "a.jpg", Latitude: 49.6812, Longitude: -115.9856},
		{Filename: "b.jpg", Latitude: 49.6813, Longitude: -115.9857},
		{Filename: "c.jpg", Latitude: 49.7000, Longitude: -115.9000},
	}

	first, err := engine.Cluster(observations)
	require.NoError(t, err)
	second, err := engine.Cluster(observations)
	require.NoError(t, err)
	assert.Equal(t, first, second, "re-running on identical input yields identical clusters")
}

func TestEngine_Cluster_GeohashID(t *testing.T) {
	engine := NewEngine(30)

	// Well-known geohash test vector: (57.64911, 10.40744) -> "u4pruy" at
	// 6 characters.
	clusters, err := engine.Cluster([]Observation{
		{Filename: "lighthouse.jpg", Latitude: 57.64911, Longitude: 10.40744},
	})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "site_u4pruy", clusters[0].ID)

	require.True(t, strings.HasPrefix(clusters[0].ID, "site_"))
	assert.Len(t, clusters[0].ID, len("site_")+6)
}

func TestEngine_Cluster_EmptyInput(t *testing.T) {
	engine := NewEngine(30)

	_, err := engine.Cluster(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoObservations)
}

func TestEngine_Cluster_InvalidThreshold(t *testing.T) {
	engine := NewEngine(0)

	_, err := engine.Cluster([]Observation{{Filename: "a.jpg", Latitude: 49.68, Longitude: -115.98}})
	assert.Error(t, err)
}

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kootenaytrails/signpost/internal/lib/cluster"
	"github.com/kootenaytrails/signpost/internal/lib/intersect"
)

func TestStore_ObservationsRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	observations := []cluster.Observation{
		{Filename: "IMG_0001.jpg", Latitude: 49.6812, Longitude: -115.9856, Timestamp: "2025-06-14T10:31:00Z"},
		{Filename: "IMG_0002.jpg", Latitude: 49.6813, Longitude: -115.9857},
	}

	require.NoError(t, s.SaveObservations(observations))

	loaded, err := s.LoadObservations()
	require.NoError(t, err)
	assert.Equal(t, observations, loaded)
}

func TestStore_MissingPrerequisite(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.LoadClusters()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPrerequisite)
	assert.Contains(t, err.Error(), "signpost cluster", "error should name the command that produces the dataset")

	_, err = s.LoadTrails()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPrerequisite)
	assert.Contains(t, err.Error(), "signpost trails")
}

func TestStore_EmptyDatasetIsMissingPrerequisite(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.SaveTrails([]intersect.Trail{}))

	_, err := s.LoadTrails()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPrerequisite, "an empty trail set must not feed the matcher")
}

func TestStore_ReportRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	report := Report{
		Intersections: []intersect.Intersection{
			{
				ClusterID:  "site_u4pruy",
				TrailCount: 2,
				TrailNames: []string{"Eager Ridge", "Sunrise Loop"},
				Activities: intersect.Activities{Hiking: true, Biking: true},
				Latitude:   49.6812,
				Longitude:  -115.9856,
				RadiusM:    6.62,
				Photos:     []string{"IMG_0001.jpg"},
			},
		},
		Warnings: []intersect.Warning{
			{Kind: intersect.WarnNoMatch, ClusterID: "site_other1", Message: "no trails nearby"},
		},
	}

	require.NoError(t, s.SaveReport(report))

	loaded, err := s.LoadReport()
	require.NoError(t, err)
	assert.Equal(t, report, loaded)
}

func TestStore_DocumentCarriesMetadata(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.SaveClusters([]cluster.Cluster{{ID: "site_u4pruy"}}))

	raw, err := os.ReadFile(filepath.Join(dir, "clusters.json"))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "generated_at")
	assert.Contains(t, doc, "source")
	assert.Contains(t, doc, "count")
	assert.Contains(t, doc, "data")
}

func TestStore_NoStrayTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.SaveClusters([]cluster.Cluster{{ID: "site_u4pruy"}}))
	require.NoError(t, s.SaveClusters([]cluster.Cluster{{ID: "site_u4pruz"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "writes stage through a temp file but leave only the final document")
	assert.Equal(t, "clusters.json", entries[0].Name())

	clusters, err := s.LoadClusters()
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "site_u4pruz", clusters[0].ID, "second write replaces the first")
}

package export

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kootenaytrails/signpost/internal/lib/intersect"
	"github.com/kootenaytrails/signpost/internal/store"
)

func testReport() store.Report {
	return store.Report{
		Intersections: []intersect.Intersection{
			{
				ClusterID:  "site_u4pruy",
				TrailCount: 2,
				TrailNames: []string{"Eager Ridge", "Sunrise Loop"},
				Activities: intersect.Activities{Hiking: true, Biking: true},
				Latitude:   49.6812,
				Longitude:  -115.9856,
				RadiusM:    6.62,
				Photos:     []string{"IMG_0001.jpg", "IMG_0002.jpg"},
			},
			{
				ClusterID: "site_lonely",
				Latitude:  49.60,
				Longitude: -116.10,
				Photos:    []string{"IMG_0009.jpg"},
			},
		},
	}
}

func TestSitesGeoJSON(t *testing.T) {
	data, err := SitesGeoJSON(testReport())
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2, "ranking order is preserved, nothing is dropped")

	first := fc.Features[0]
	point, ok := first.Geometry.(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, -115.9856, point.Lon(), 1e-9)
	assert.InDelta(t, 49.6812, point.Lat(), 1e-9)
	assert.Equal(t, "site_u4pruy", first.Properties.MustString("cluster_id"))
	assert.Equal(t, 2.0, first.Properties.MustFloat64("trail_count"))
	assert.True(t, first.Properties.MustBool("hiking"))
	assert.False(t, first.Properties.MustBool("equestrian"))

	second := fc.Features[1]
	assert.Equal(t, "site_lonely", second.Properties.MustString("cluster_id"))
	assert.Equal(t, 0.0, second.Properties.MustFloat64("trail_count"))
}

func TestSitesKML(t *testing.T) {
	data, err := SitesKML(testReport())
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "<kml")
	assert.Contains(t, out, "Eager Ridge / Sunrise Loop")
	assert.Contains(t, out, "site_lonely (no trails matched)")
	assert.Contains(t, out, "-115.9856,49.6812")
}

func TestSitesGeoJSON_EmptyReport(t *testing.T) {
	data, err := SitesGeoJSON(store.Report{})
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}

// Package export renders the survey report for display tools: GeoJSON for
// the web map, KML for GPS units and Google Earth. These are presentation
// wrappers only; they never alter the report's content or ordering.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-kml/v2"

	"github.com/kootenaytrails/signpost/internal/lib/intersect"
	"github.com/kootenaytrails/signpost/internal/store"
)

// SitesGeoJSON renders candidate signage sites as a GeoJSON
// FeatureCollection of points, preserving the report's ranking order.
func SitesGeoJSON(report store.Report) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, site := range report.Intersections {
		f := geojson.NewFeature(orb.Point{site.Longitude, site.Latitude})
		f.ID = site.ClusterID
		f.Properties = geojson.Properties{
			"cluster_id":  site.ClusterID,
			"trail_count": site.TrailCount,
			"trail_names": site.TrailNames,
			"hiking":      site.Activities.Hiking,
			"biking":      site.Activities.Biking,
			"equestrian":  site.Activities.Equestrian,
			"motorized":   site.Activities.Motorized,
			"radius_m":    site.RadiusM,
			"photos":      site.Photos,
		}
		fc.Append(f)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal site GeoJSON: %w", err)
	}
	return data, nil
}

// SitesKML renders candidate signage sites as a KML document of placemarks.
func SitesKML(report store.Report) ([]byte, error) {
	placemarks := make([]kml.Element, 0, len(report.Intersections))
	for _, site := range report.Intersections {
		placemarks = append(placemarks, kml.Placemark(
			kml.Name(siteName(site)),
			kml.Description(siteDescription(site)),
			kml.Point(
				kml.Coordinates(kml.Coordinate{Lon: site.Longitude, Lat: site.Latitude}),
			),
		))
	}

	doc := kml.KML(kml.Document(placemarks...))

	var buf bytes.Buffer
	if err := doc.WriteIndent(&buf, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to write site KML: %w", err)
	}
	return buf.Bytes(), nil
}

// siteName titles a placemark by its trails, falling back to the cluster ID
// for zero-match sites.
func siteName(site intersect.Intersection) string {
	if site.TrailCount == 0 {
		return site.ClusterID + " (no trails matched)"
	}
	return strings.Join(site.TrailNames, " / ")
}

func siteDescription(site intersect.Intersection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cluster %s: %d trail(s), %d photo(s), radius %.2fm.",
		site.ClusterID, site.TrailCount, len(site.Photos), site.RadiusM)

	var activities []string
	if site.Activities.Hiking {
		activities = append(activities, "hiking")
	}
	if site.Activities.Biking {
		activities = append(activities, "biking")
	}
	if site.Activities.Equestrian {
		activities = append(activities, "equestrian")
	}
	if site.Activities.Motorized {
		activities = append(activities, "motorized")
	}
	if len(activities) > 0 {
		fmt.Fprintf(&b, " Activities: %s.", strings.Join(activities, ", "))
	}
	return b.String()
}

// Package trails loads trail records captured from the mapping service.
// Two export shapes are supported: a GeoJSON FeatureCollection, and a JSON
// dump whose geometry is a Google encoded polyline. Acquiring the export in
// the first place (browser capture, bulk download) happens outside this
// program.
package trails

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kootenaytrails/signpost/internal/lib/geo"
	"github.com/kootenaytrails/signpost/internal/lib/intersect"
)

// Loader parses trail geometry exports into trail records.
type Loader struct {
	geoUtils geo.GeoUtils
}

// NewLoader creates a new trail export loader.
func NewLoader() *Loader {
	return &Loader{geoUtils: geo.NewGeoUtils()}
}

// polylineTrail is one record of the encoded-polyline dump format.
type polylineTrail struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	EncodedPolyline string               `json:"encoded_polyline"`
	Activities      intersect.Activities `json:"activities"`
	Color           string               `json:"color"`
	Difficulty      string               `json:"difficulty"`
}

// LoadFile reads a trail export and parses it by shape: a GeoJSON
// FeatureCollection object, or a JSON array of encoded-polyline records.
func (l *Loader) LoadFile(path string) ([]intersect.Trail, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trail export %s: %w", path, err)
	}

	trimmed := firstNonSpace(data)
	switch trimmed {
	case '[':
		return l.ParsePolylineDump(data)
	case '{':
		return l.ParseGeoJSON(data)
	default:
		return nil, fmt.Errorf("unrecognized trail export format in %s", path)
	}
}

// ParseGeoJSON parses a GeoJSON FeatureCollection of trails. LineString
// features become one trail each; MultiLineString features become one trail
// per part, sharing the feature's name and attributes. Non-line geometries
// are skipped. Geometry is NOT validated here: degenerate lines are the
// matcher's concern.
func (l *Loader) ParseGeoJSON(data []byte) ([]intersect.Trail, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trail GeoJSON: %w", err)
	}

	var trails []intersect.Trail
	for i, feature := range fc.Features {
		base := intersect.Trail{
			ID:   featureID(feature, i),
			Name: feature.Properties.MustString("name", ""),
			Activities: intersect.Activities{
				Hiking:     feature.Properties.MustBool("hiking", false),
				Biking:     feature.Properties.MustBool("biking", false),
				Equestrian: feature.Properties.MustBool("equestrian", false),
				Motorized:  feature.Properties.MustBool("motorized", false),
			},
			Color:      feature.Properties.MustString("color", ""),
			Difficulty: feature.Properties.MustString("difficulty", ""),
		}

		switch g := feature.Geometry.(type) {
		case orb.LineString:
			t := base
			t.Geometry = lineToPoints(g)
			trails = append(trails, t)
		case orb.MultiLineString:
			for part, line := range g {
				t := base
				if len(g) > 1 {
					t.ID = fmt.Sprintf("%s/%d", base.ID, part)
				}
				t.Geometry = lineToPoints(line)
				trails = append(trails, t)
			}
		default:
			log.Printf("Skipping feature %s: geometry type %s is not a line", base.ID, feature.Geometry.GeoJSONType())
		}
	}
	return trails, nil
}

// ParsePolylineDump parses a JSON array of trail records whose geometry is a
// Google encoded polyline.
func (l *Loader) ParsePolylineDump(data []byte) ([]intersect.Trail, error) {
	var records []polylineTrail
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse trail dump: %w", err)
	}

	trails := make([]intersect.Trail, 0, len(records))
	for _, rec := range records {
		points, err := l.geoUtils.DecodePolyline(rec.EncodedPolyline)
		if err != nil {
			return nil, fmt.Errorf("trail %q: %w", rec.Name, err)
		}
		trails = append(trails, intersect.Trail{
			ID:         rec.ID,
			Name:       rec.Name,
			Geometry:   points,
			Activities: rec.Activities,
			Color:      rec.Color,
			Difficulty: rec.Difficulty,
		})
	}
	return trails, nil
}

// featureID derives a stable record ID from a feature, preferring its
// GeoJSON id, then an id property, then its position in the collection.
func featureID(feature *geojson.Feature, index int) string {
	switch id := feature.ID.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return fmt.Sprintf("%.0f", id)
	}
	if id := feature.Properties.MustString("id", ""); id != "" {
		return id
	}
	return fmt.Sprintf("trail-%d", index)
}

// lineToPoints converts an orb line (lon,lat order) into geo points.
func lineToPoints(line orb.LineString) []geo.Point {
	points := make([]geo.Point, len(line))
	for i, c := range line {
		points[i] = geo.Point{Latitude: c.Lat(), Longitude: c.Lon()}
	}
	return points
}

// firstNonSpace returns the first non-whitespace byte of data, or 0.
func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}

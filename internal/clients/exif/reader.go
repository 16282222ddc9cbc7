// Package exif extracts GPS coordinates and capture timestamps from photo
// files. It is the boundary between the camera roll and the clustering
// pipeline: only photos with usable GPS metadata become observations.
package exif

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"

	"github.com/kootenaytrails/signpost/internal/lib/cluster"
)

// ErrNoGPS indicates a photo carries no GPS metadata. Such photos are
// excluded from the survey, not treated as failures.
var ErrNoGPS = errors.New("no GPS metadata present")

// Reader extracts photo observations from image files on disk.
type Reader struct{}

// NewReader creates a new EXIF reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadDirectory scans a directory for JPEG photos and returns one
// observation per photo with usable GPS metadata, in filename order. Photos
// without GPS, or with unreadable metadata, are logged and skipped; they
// never reach the clustering stage.
func (r *Reader) ReadDirectory(dir string) ([]cluster.Observation, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo directory %s: %w", dir, err)
	}

	var observations []cluster.Observation
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() || !isJPEG(entry.Name()) {
			continue
		}

		obs, err := r.ReadPhoto(filepath.Join(dir, entry.Name()))
		if errors.Is(err, ErrNoGPS) {
			log.Printf("Skipping %s: no GPS metadata", entry.Name())
			skipped++
			continue
		}
		if err != nil {
			log.Printf("Skipping %s: %v", entry.Name(), err)
			skipped++
			continue
		}
		observations = append(observations, obs)
	}

	log.Printf("Read %d geotagged photo(s) from %s (%d skipped)", len(observations), dir, skipped)
	return observations, nil
}

// ReadPhoto extracts a single observation from one photo file. Returns
// ErrNoGPS when the photo has EXIF data but no GPS fix. A missing or
// unparseable capture time yields an empty timestamp, not an error.
func (r *Reader) ReadPhoto(path string) (cluster.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return cluster.Observation{}, fmt.Errorf("failed to open photo: %w", err)
	}
	defer f.Close()

	x, err := goexif.Decode(f)
	if err != nil {
		return cluster.Observation{}, fmt.Errorf("failed to decode EXIF: %w", err)
	}

	lat, lon, err := x.LatLong()
	if err != nil {
		return cluster.Observation{}, ErrNoGPS
	}

	timestamp := ""
	if taken, err := x.DateTime(); err == nil {
		timestamp = taken.Format(time.RFC3339)
	}

	return cluster.Observation{
		Filename:  filepath.Base(path),
		Latitude:  lat,
		Longitude: lon,
		Timestamp: timestamp,
	}, nil
}

func isJPEG(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

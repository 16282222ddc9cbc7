// Package store is the shared file-based data model of the survey pipeline.
// Each stage reads its prerequisites from, and writes its result to, a JSON
// document in the data directory; stages never communicate any other way.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kootenaytrails/signpost/internal/lib/cluster"
	"github.com/kootenaytrails/signpost/internal/lib/intersect"
)

// ErrMissingPrerequisite indicates a stage was invoked before the stage that
// produces its input. Fatal: the pipeline must not proceed with partial or
// empty data.
var ErrMissingPrerequisite = errors.New("missing prerequisite dataset")

// Report is the final pipeline output: ranked candidate signage sites plus
// the non-fatal warnings accumulated while matching.
type Report struct {
	Intersections []intersect.Intersection `json:"intersections"`
	Warnings      []intersect.Warning      `json:"warnings,omitempty"`
}

// envelope wraps a dataset with provenance metadata so operators can tell
// when and by what a file was produced.
type envelope struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Source      string          `json:"source"`
	Count       int             `json:"count"`
	Data        json.RawMessage `json:"data"`
}

// Store reads and writes pipeline datasets under a single data directory.
type Store struct {
	dir string
}

// New creates a store rooted at the given data directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory this store operates on.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) SaveObservations(observations []cluster.Observation) error {
	return s.save("observations", "signpost photos", len(observations), observations)
}

func (s *Store) LoadObservations() ([]cluster.Observation, error) {
	var observations []cluster.Observation
	if err := s.load("observations", "signpost photos", &observations); err != nil {
		return nil, err
	}
	return observations, nil
}

func (s *Store) SaveClusters(clusters []cluster.Cluster) error {
	return s.save("clusters", "signpost cluster", len(clusters), clusters)
}

func (s *Store) LoadClusters() ([]cluster.Cluster, error) {
	var clusters []cluster.Cluster
	if err := s.load("clusters", "signpost cluster", &clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

func (s *Store) SaveTrails(trails []intersect.Trail) error {
	return s.save("trails", "signpost trails", len(trails), trails)
}

func (s *Store) LoadTrails() ([]intersect.Trail, error) {
	var trails []intersect.Trail
	if err := s.load("trails", "signpost trails", &trails); err != nil {
		return nil, err
	}
	return trails, nil
}

func (s *Store) SaveReport(report Report) error {
	return s.save("intersections", "signpost match", len(report.Intersections), report)
}

func (s *Store) LoadReport() (Report, error) {
	var report Report
	if err := s.load("intersections", "signpost match", &report); err != nil {
		return Report{}, err
	}
	return report, nil
}

// save writes a dataset atomically: the document is staged in a temp file in
// the same directory and renamed into place, so a failed run never leaves a
// partial file for downstream stages to observe.
func (s *Store) save(name, source string, count int, data interface{}) error {
	rawData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	doc, err := json.MarshalIndent(envelope{
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Count:       count,
		Data:        rawData,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s document: %w", name, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize %s: %w", name, err)
	}
	return nil
}

// load reads a dataset, translating a missing or empty file into
// ErrMissingPrerequisite naming the command that produces it.
func (s *Store) load(name, producedBy string, out interface{}) error {
	raw, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s.json not found in %s; run '%s' first", ErrMissingPrerequisite, name, s.dir, producedBy)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	var doc envelope
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse %s.json: %w", name, err)
	}
	if doc.Count == 0 {
		return fmt.Errorf("%w: %s.json is empty; re-run '%s'", ErrMissingPrerequisite, name, producedBy)
	}

	if err := json.Unmarshal(doc.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s.json data: %w", name, err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

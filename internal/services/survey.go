package services

import (
	"fmt"
	"log"

	"github.com/kootenaytrails/signpost/internal/clients/exif"
	"github.com/kootenaytrails/signpost/internal/clients/trails"
	"github.com/kootenaytrails/signpost/internal/config"
	"github.com/kootenaytrails/signpost/internal/lib/cluster"
	"github.com/kootenaytrails/signpost/internal/lib/intersect"
	"github.com/kootenaytrails/signpost/internal/store"
)

// SurveyService runs the signage survey pipeline: photo import, trail
// import, clustering, and intersection matching, all communicating through
// the shared store. Each stage runs to completion and persists its result
// before the next stage begins.
type SurveyService struct {
	store       *store.Store
	config      *config.Config
	exifReader  *exif.Reader
	trailLoader *trails.Loader
}

// NewSurveyService creates a survey service over the given store and
// configuration.
func NewSurveyService(st *store.Store, cfg *config.Config) *SurveyService {
	return &SurveyService{
		store:       st,
		config:      cfg,
		exifReader:  exif.NewReader(),
		trailLoader: trails.NewLoader(),
	}
}

// ImportPhotos extracts observations from the configured photo directory and
// persists them. Zero usable observations is fatal: an empty photo set means
// the operator pointed the survey at the wrong directory, not that the
// survey is legitimately empty.
func (s *SurveyService) ImportPhotos() error {
	if s.config.Photos.Dir == "" {
		return fmt.Errorf("photos.dir must be set")
	}

	observations, err := s.exifReader.ReadDirectory(s.config.Photos.Dir)
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		return fmt.Errorf("no geotagged photos found in %s", s.config.Photos.Dir)
	}

	if err := s.store.SaveObservations(observations); err != nil {
		return err
	}
	log.Printf("Saved %d observation(s) to %s", len(observations), s.store.Dir())
	return nil
}

// ImportTrails parses the configured trail export and persists the trail
// records.
func (s *SurveyService) ImportTrails() error {
	if s.config.Trails.Export == "" {
		return fmt.Errorf("trails.export must be set")
	}

	trailRecords, err := s.trailLoader.LoadFile(s.config.Trails.Export)
	if err != nil {
		return err
	}
	if len(trailRecords) == 0 {
		return fmt.Errorf("no trails found in %s", s.config.Trails.Export)
	}

	if err := s.store.SaveTrails(trailRecords); err != nil {
		return err
	}
	log.Printf("Saved %d trail record(s) to %s", len(trailRecords), s.store.Dir())
	return nil
}

// RunClustering groups the stored observations into spatial clusters and
// persists them.
func (s *SurveyService) RunClustering() error {
	observations, err := s.store.LoadObservations()
	if err != nil {
		return err
	}

	engine := cluster.NewEngine(s.config.Survey.ClusterThresholdM)
	clusters, err := engine.Cluster(observations)
	if err != nil {
		return err
	}

	if err := s.store.SaveClusters(clusters); err != nil {
		return err
	}
	log.Printf("Clustered %d observation(s) into %d cluster(s) (threshold %.0fm)",
		len(observations), len(clusters), s.config.Survey.ClusterThresholdM)
	return nil
}

// RunMatching cross-references stored clusters against stored trails and
// persists the ranked report. Non-fatal warnings are surfaced to the
// operator and recorded in the report, never swallowed.
func (s *SurveyService) RunMatching() error {
	clusters, err := s.store.LoadClusters()
	if err != nil {
		return err
	}
	trailRecords, err := s.store.LoadTrails()
	if err != nil {
		return err
	}

	matcher := intersect.NewMatcher(s.config.Survey.IntersectionBufferM)
	intersections, warnings, err := matcher.Match(clusters, trailRecords)
	if err != nil {
		return err
	}

	for _, w := range warnings {
		log.Printf("Warning (%s): %s", w.Kind, w.Message)
	}

	report := store.Report{Intersections: intersections, Warnings: warnings}
	if err := s.store.SaveReport(report); err != nil {
		return err
	}
	log.Printf("Matched %d cluster(s) against %d trail(s): %d candidate site(s), %d warning(s)",
		len(clusters), len(trailRecords), len(intersections), len(warnings))
	return nil
}

// RunPipeline executes every stage in order, stopping at the first fatal
// error.
func (s *SurveyService) RunPipeline() error {
	if err := s.ImportPhotos(); err != nil {
		return err
	}
	if err := s.ImportTrails(); err != nil {
		return err
	}
	if err := s.RunClustering(); err != nil {
		return err
	}
	return s.RunMatching()
}

package config

import (
	"errors"
	"fmt"
)

// Config is the complete survey pipeline configuration. Values are loaded
// through prefab's config system (prefab.yaml plus PF__ environment
// variables) by the CLI and passed down explicitly; the pipeline components
// never read ambient state.
type Config struct {
	Survey SurveyConfig `yaml:"survey"`
	Photos PhotosConfig `yaml:"photos"`
	Trails TrailsConfig `yaml:"trails"`
}

// SurveyConfig holds the core pipeline settings. The two distance values are
// required and have no built-in defaults: the operator sets them per survey.
type SurveyConfig struct {
	// ClusterThresholdM is the single-linkage clustering distance in meters:
	// photos chained within this distance of each other form one cluster.
	ClusterThresholdM float64 `yaml:"cluster_threshold_m"`

	// IntersectionBufferM is added to each cluster's radius before testing
	// proximity to trail geometry.
	IntersectionBufferM float64 `yaml:"intersection_buffer_m"`

	// DataDir is the directory holding the pipeline's JSON datasets.
	DataDir string `yaml:"data_dir"`
}

// PhotosConfig locates the survey photos.
type PhotosConfig struct {
	Dir string `yaml:"dir"`
}

// TrailsConfig locates the trail geometry export captured from the mapping
// service.
type TrailsConfig struct {
	Export string `yaml:"export"`
}

// Validate checks the settings every pipeline stage depends on. Stage-
// specific inputs (photo directory, trail export path) are checked by the
// commands that use them.
func (c *Config) Validate() error {
	if c.Survey.ClusterThresholdM <= 0 {
		return fmt.Errorf("survey.cluster_threshold_m must be set to a positive distance in meters (got %v)", c.Survey.ClusterThresholdM)
	}
	if c.Survey.IntersectionBufferM <= 0 {
		return fmt.Errorf("survey.intersection_buffer_m must be set to a positive distance in meters (got %v)", c.Survey.IntersectionBufferM)
	}
	if c.Survey.DataDir == "" {
		return errors.New("survey.data_dir must be set")
	}
	return nil
}

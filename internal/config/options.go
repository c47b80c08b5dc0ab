package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pipeline option defaults. Character counts unless noted.
const (
	DefaultMaxChunkSize       = 1000
	DefaultOverlapSize        = 100
	DefaultMinSectionLength   = 50
	DefaultRelevanceThreshold = 0.3
	DefaultTopKSections       = 10
	DefaultSurfacedSections   = 5
	DefaultMinRelevanceScore  = 0.2
	DefaultWindowSize         = 300
	DefaultWindowStride       = 150
)

// Options controls a single pipeline run. It is an immutable value
// threaded through each stage rather than ambient state.
type Options struct {
	// MaxChunkSize bounds section content length before a forced split.
	MaxChunkSize int `yaml:"max_chunk_size"`
	// OverlapSize is the tail carried across adjacent section boundaries.
	OverlapSize int `yaml:"overlap_size"`
	// MinSectionLength is the floor below which a section is merged away.
	MinSectionLength int `yaml:"min_section_length"`
	// RelevanceThreshold is an informational floor reported with scores.
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	// TopKSections bounds the ranked window.
	TopKSections int `yaml:"top_k_sections"`
	// SurfacedSections caps the assembled output list.
	SurfacedSections int `yaml:"surfaced_sections"`
	// MinRelevanceScore is the hard exclusion floor, applied
	// independently of the top-K window.
	MinRelevanceScore float64 `yaml:"min_relevance_score"`
	// IncludeSubsections toggles the excerpt refinement stage.
	IncludeSubsections bool `yaml:"include_subsections"`
	// WindowSize and WindowStride shape refinement candidate windows.
	WindowSize   int `yaml:"window_size"`
	WindowStride int `yaml:"window_stride"`
}

// DefaultOptions returns the standard pipeline configuration.
func DefaultOptions() Options {
	return Options{
		MaxChunkSize:       DefaultMaxChunkSize,
		OverlapSize:        DefaultOverlapSize,
		MinSectionLength:   DefaultMinSectionLength,
		RelevanceThreshold: DefaultRelevanceThreshold,
		TopKSections:       DefaultTopKSections,
		SurfacedSections:   DefaultSurfacedSections,
		MinRelevanceScore:  DefaultMinRelevanceScore,
		IncludeSubsections: true,
		WindowSize:         DefaultWindowSize,
		WindowStride:       DefaultWindowStride,
	}
}

// OptionError reports an option value outside its valid range. It fails
// the run before any extraction work begins.
type OptionError struct {
	Option string
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Reason)
}

// Validate checks option ranges and cross-option constraints.
func (o Options) Validate() error {
	if o.MaxChunkSize <= 0 {
		return &OptionError{Option: "max_chunk_size", Reason: "must be positive"}
	}
	if o.OverlapSize < 0 {
		return &OptionError{Option: "overlap_size", Reason: "must be non-negative"}
	}
	if o.MaxChunkSize <= o.OverlapSize {
		return &OptionError{Option: "max_chunk_size", Reason: fmt.Sprintf("must exceed overlap_size (%d)", o.OverlapSize)}
	}
	if o.MinSectionLength <= 0 {
		return &OptionError{Option: "min_section_length", Reason: "must be positive"}
	}
	if o.TopKSections <= 0 {
		return &OptionError{Option: "top_k_sections", Reason: "must be positive"}
	}
	if o.SurfacedSections <= 0 {
		return &OptionError{Option: "surfaced_sections", Reason: "must be positive"}
	}
	if o.MinRelevanceScore < 0 || o.MinRelevanceScore > 1 {
		return &OptionError{Option: "min_relevance_score", Reason: "must be in [0,1]"}
	}
	if o.RelevanceThreshold < 0 || o.RelevanceThreshold > 1 {
		return &OptionError{Option: "relevance_threshold", Reason: "must be in [0,1]"}
	}
	if o.WindowSize <= 0 {
		return &OptionError{Option: "window_size", Reason: "must be positive"}
	}
	if o.WindowStride <= 0 {
		return &OptionError{Option: "window_stride", Reason: "must be positive"}
	}
	return nil
}

// LoadOptions reads pipeline options from a YAML file. A missing file
// yields the defaults; a present file overrides only the keys it sets.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return opts, nil
		}
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse options file %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions_Valid(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("defaults must validate, got %v", err)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
		option string
	}{
		{"zero chunk size", func(o *Options) { o.MaxChunkSize = 0 }, "max_chunk_size"},
		{"negative overlap", func(o *Options) { o.OverlapSize = -1 }, "overlap_size"},
		{"overlap swallows chunk", func(o *Options) { o.OverlapSize = o.MaxChunkSize }, "max_chunk_size"},
		{"zero min length", func(o *Options) { o.MinSectionLength = 0 }, "min_section_length"},
		{"zero top k", func(o *Options) { o.TopKSections = 0 }, "top_k_sections"},
		{"zero surfaced", func(o *Options) { o.SurfacedSections = 0 }, "surfaced_sections"},
		{"floor above one", func(o *Options) { o.MinRelevanceScore = 1.5 }, "min_relevance_score"},
		{"negative floor", func(o *Options) { o.MinRelevanceScore = -0.1 }, "min_relevance_score"},
		{"threshold above one", func(o *Options) { o.RelevanceThreshold = 2 }, "relevance_threshold"},
		{"zero window", func(o *Options) { o.WindowSize = 0 }, "window_size"},
		{"zero stride", func(o *Options) { o.WindowStride = 0 }, "window_stride"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			tc.mutate(&opts)
			err := opts.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var oe *OptionError
			if !errors.As(err, &oe) {
				t.Fatalf("expected OptionError, got %T", err)
			}
			if oe.Option != tc.option {
				t.Errorf("expected option %q, got %q", tc.option, oe.Option)
			}
		})
	}
}

func TestLoadOptions_MissingFileYieldsDefaults(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts != DefaultOptions() {
		t.Fatalf("expected defaults, got %+v", opts)
	}
}

func TestLoadOptions_OverridesOnlySetKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.yaml")
	data := "top_k_sections: 3\nmin_relevance_score: 0.5\ninclude_subsections: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.TopKSections != 3 {
		t.Errorf("expected top k 3, got %d", opts.TopKSections)
	}
	if opts.MinRelevanceScore != 0.5 {
		t.Errorf("expected floor 0.5, got %v", opts.MinRelevanceScore)
	}
	if opts.IncludeSubsections {
		t.Error("expected subsections disabled")
	}
	if opts.MaxChunkSize != DefaultMaxChunkSize {
		t.Errorf("unset key changed: expected %d, got %d", DefaultMaxChunkSize, opts.MaxChunkSize)
	}
}

func TestLoadOptions_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.yaml")
	if err := os.WriteFile(path, []byte("max_chunk_size: -5\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadOptions(path); err == nil {
		t.Fatal("expected error for invalid option value")
	}
}

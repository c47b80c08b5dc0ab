package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount          int
	MaxQueueSize         int
	MaxConcurrentExtract int
	MaxConcurrentScore   int

	// Upload limits
	MaxUploadBytes int64

	// Run state
	RunTTL time.Duration

	// Pipeline defaults
	Options Options

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PERSADOC_API_KEY"),

		WorkerCount:          envInt("WORKER_COUNT", 4),
		MaxQueueSize:         envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentExtract: envInt("MAX_CONCURRENT_EXTRACT", 5),
		MaxConcurrentScore:   envInt("MAX_CONCURRENT_SCORE", 8),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		RunTTL: envDuration("RUN_TTL", 1*time.Hour),

		Options: Options{
			MaxChunkSize:       envInt("MAX_CHUNK_SIZE", DefaultMaxChunkSize),
			OverlapSize:        envInt("OVERLAP_SIZE", DefaultOverlapSize),
			MinSectionLength:   envInt("MIN_SECTION_LENGTH", DefaultMinSectionLength),
			RelevanceThreshold: envFloat("RELEVANCE_THRESHOLD", DefaultRelevanceThreshold),
			TopKSections:       envInt("TOP_K_SECTIONS", DefaultTopKSections),
			SurfacedSections:   envInt("SURFACED_SECTIONS", DefaultSurfacedSections),
			MinRelevanceScore:  envFloat("MIN_RELEVANCE_SCORE", DefaultMinRelevanceScore),
			IncludeSubsections: envBool("INCLUDE_SUBSECTIONS", true),
			WindowSize:         envInt("WINDOW_SIZE", DefaultWindowSize),
			WindowStride:       envInt("WINDOW_STRIDE", DefaultWindowStride),
		},

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentExtract <= 0 {
		cfg.MaxConcurrentExtract = 5
	}
	if cfg.MaxConcurrentScore <= 0 {
		cfg.MaxConcurrentScore = 8
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("PERSADOC_API_KEY is required")
	}
	return c.Options.Validate()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

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

	// Index sink; forwarding is off when IndexURL is empty.
	IndexURL    string
	IndexAPIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Size limits
	MaxUploadBytes   int64
	MaxDocumentBytes int64

	// Job state
	JobTTL time.Duration

	// Rolling window for extraction latency stats
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

const (
	defaultWorkerCount      = 4
	defaultMaxQueueSize     = 100
	defaultMaxUploadBytes   = 52428800 // 50MB
	defaultMaxDocumentBytes = 10485760 // 10MB
	defaultJobTTL           = time.Hour
	defaultStatsWindow      = time.Hour
)

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("MDRECORDS_API_KEY"),

		IndexURL:    os.Getenv("INDEX_URL"),
		IndexAPIKey: os.Getenv("INDEX_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", defaultWorkerCount),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", defaultMaxQueueSize),

		MaxUploadBytes:   envInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		MaxDocumentBytes: envInt64("MAX_DOCUMENT_BYTES", defaultMaxDocumentBytes),

		JobTTL:      envDuration("JOB_TTL", defaultJobTTL),
		StatsWindow: envDuration("STATS_WINDOW", defaultStatsWindow),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultWorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = defaultMaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = defaultMaxDocumentBytes
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = defaultJobTTL
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = defaultStatsWindow
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("MDRECORDS_API_KEY is required")
	}
	return nil
}

// IndexEnabled reports whether extracted records are forwarded to an index.
func (c Config) IndexEnabled() bool {
	return c.IndexURL != ""
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

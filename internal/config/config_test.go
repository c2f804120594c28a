package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MDRECORDS_API_KEY", "INDEX_URL", "WORKER_COUNT", "JOB_TTL", "PDF_FALLBACK_PDFTOTEXT"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected default port, got %q", cfg.Port)
	}
	if cfg.WorkerCount != defaultWorkerCount {
		t.Errorf("expected %d workers, got %d", defaultWorkerCount, cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h job TTL, got %s", cfg.JobTTL)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback on by default")
	}
	if cfg.IndexEnabled() {
		t.Error("expected indexing off without INDEX_URL")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("INDEX_URL", "http://index:8080")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("MAX_DOCUMENT_BYTES", "1024")
	t.Setenv("STATS_WINDOW", "5m")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	if cfg.Port != "9000" || cfg.WorkerCount != 8 || cfg.MaxDocumentBytes != 1024 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.StatsWindow != 5*time.Minute {
		t.Errorf("expected 5m stats window, got %s", cfg.StatsWindow)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected fallback disabled")
	}
	if !cfg.IndexEnabled() {
		t.Error("expected indexing on")
	}
}

func TestLoad_NonPositiveFallsBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "0")
	t.Setenv("MAX_QUEUE_SIZE", "-5")
	t.Setenv("JOB_TTL", "not-a-duration")

	cfg := Load()
	if cfg.WorkerCount != defaultWorkerCount {
		t.Errorf("expected default worker count, got %d", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != defaultMaxQueueSize {
		t.Errorf("expected default queue size, got %d", cfg.MaxQueueSize)
	}
	if cfg.JobTTL != defaultJobTTL {
		t.Errorf("expected default TTL, got %s", cfg.JobTTL)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Error("expected error without API key")
	}
	if err := (Config{APIKey: "k"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Setenv("REQUEST_TIMEOUT_SEC", "")

	cfg := Load()
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("APIBaseURL: got %q, want %q", cfg.APIBaseURL, "http://localhost:8080")
	}
	if cfg.PageSize != 50 {
		t.Errorf("PageSize: got %d, want 50", cfg.PageSize)
	}
	if cfg.MaxUploadMB != 10 {
		t.Errorf("MaxUploadMB: got %d, want 10", cfg.MaxUploadMB)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("RequestTimeout: got %v, want 0", cfg.RequestTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://models.internal:9000/")
	t.Setenv("PAGE_SIZE", "20")
	t.Setenv("REQUEST_TIMEOUT_SEC", "15")
	t.Setenv("HISTORY_ENABLED", "true")
	t.Setenv("HISTORY_CSV", "output/history.csv")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")

	cfg := Load()
	if cfg.APIBaseURL != "http://models.internal:9000" {
		t.Errorf("APIBaseURL: got %q, trailing slash should be trimmed", cfg.APIBaseURL)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize: got %d, want 20", cfg.PageSize)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout: got %v, want 15s", cfg.RequestTimeout)
	}
	if !cfg.HistoryEnabled {
		t.Error("HistoryEnabled should be true")
	}
	if cfg.HistoryCSVPath != "output/history.csv" {
		t.Errorf("HistoryCSVPath: got %q", cfg.HistoryCSVPath)
	}
	if cfg.MaxUploadMB != 10 {
		t.Errorf("MaxUploadMB: got %d, want fallback 10", cfg.MaxUploadMB)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=d sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

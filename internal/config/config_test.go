package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode != ModeLocal {
		t.Errorf("mode = %s", cfg.Mode)
	}
	if cfg.Port != 8080 || cfg.Addr() != ":8080" {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.MaxSessions != 1000 {
		t.Errorf("max sessions = %d", cfg.MaxSessions)
	}
	if !cfg.UseMockLLM {
		t.Error("local mode should default to the mock recommender")
	}
	if cfg.ArchiveBackend != ArchiveMemory {
		t.Errorf("archive = %s", cfg.ArchiveBackend)
	}
	if cfg.DocsDir != "./data/personas_docs" || cfg.ModelName != "gemini-2.5-flash-lite" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LIFESORTER_PORT", "9090")
	t.Setenv("LIFESORTER_MAX_SESSIONS", "25")
	t.Setenv("LIFESORTER_ARCHIVE_BACKEND", "SQLite")
	t.Setenv("LIFESORTER_SQLITE_PATH", "/tmp/archive.db")
	t.Setenv("LIFESORTER_API_KEY", "secret")
	t.Setenv("LIFESORTER_DOMAIN_MANIFEST", "domains.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 || cfg.MaxSessions != 25 {
		t.Errorf("port/max = %d/%d", cfg.Port, cfg.MaxSessions)
	}
	if cfg.ArchiveBackend != ArchiveSQLite || cfg.SQLitePath != "/tmp/archive.db" {
		t.Errorf("archive = %s at %s", cfg.ArchiveBackend, cfg.SQLitePath)
	}
	if cfg.APIKey != "secret" || cfg.DomainManifest != "domains.yaml" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_GCPMode(t *testing.T) {
	t.Setenv("LIFESORTER_MODE", "gcp")
	t.Setenv("LIFESORTER_GCP_PROJECT", "life-sorter-prod")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UseMockLLM {
		t.Error("gcp mode should default to the real recommender")
	}
	if cfg.ArchiveBackend != ArchiveFirestore {
		t.Errorf("archive = %s, want firestore", cfg.ArchiveBackend)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"port out of range", map[string]string{"LIFESORTER_PORT": "70000"}, "PORT"},
		{"zero sessions", map[string]string{"LIFESORTER_MAX_SESSIONS": "0"}, "MAX_SESSIONS"},
		{"unknown archive", map[string]string{"LIFESORTER_ARCHIVE_BACKEND": "postgres"}, "ARCHIVE_BACKEND"},
		{"firestore without project", map[string]string{"LIFESORTER_ARCHIVE_BACKEND": "firestore"}, "GCP_PROJECT"},
		{"gcp without project", map[string]string{"LIFESORTER_MODE": "gcp", "LIFESORTER_ARCHIVE_BACKEND": "none"}, "GCP_PROJECT"},
		{"real llm without project", map[string]string{"LIFESORTER_USE_MOCK_LLM": "false"}, "USE_MOCK_LLM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

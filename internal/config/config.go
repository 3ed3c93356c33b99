package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

// Archive backends.
const (
	ArchiveMemory    = "memory"
	ArchiveSQLite    = "sqlite"
	ArchiveFirestore = "firestore"
	ArchiveNone      = "none"
)

const envPrefix = "LIFESORTER_"

type Config struct {
	Mode Mode

	Port     int
	LogLevel string
	APIKey   string // empty disables bearer auth

	DocsDir        string
	DomainManifest string // optional YAML domain -> document table
	MaxSessions    int

	GCPProjectID string
	GCPLocation  string
	ModelName    string
	UseMockLLM   bool // true = use mock even on GCP

	ArchiveBackend string
	SQLitePath     string
}

func getEnv(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// Load reads all env vars and builds the config.
func Load() (*Config, error) {
	var mode Mode
	switch strings.ToLower(getEnv("MODE", "local")) {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	defaultArchive := ArchiveMemory
	if mode == ModeGCP {
		defaultArchive = ArchiveFirestore
	}

	cfg := &Config{
		Mode: mode,

		Port:     getIntEnv("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		APIKey:   getEnv("API_KEY", ""),

		DocsDir:        getEnv("DOCS_DIR", "./data/personas_docs"),
		DomainManifest: getEnv("DOMAIN_MANIFEST", ""),
		MaxSessions:    getIntEnv("MAX_SESSIONS", 1000),

		GCPProjectID: getEnv("GCP_PROJECT", ""),
		GCPLocation:  getEnv("GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("MODEL_NAME", "gemini-2.5-flash-lite"),
		UseMockLLM:   getBoolEnv("USE_MOCK_LLM", mode == ModeLocal),

		ArchiveBackend: strings.ToLower(getEnv("ARCHIVE_BACKEND", defaultArchive)),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/archive.db"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%sPORT must be between 1 and 65535, got %d", envPrefix, c.Port)
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("%sMAX_SESSIONS must be positive, got %d", envPrefix, c.MaxSessions)
	}
	if c.DocsDir == "" {
		return fmt.Errorf("%sDOCS_DIR must not be empty", envPrefix)
	}

	switch c.ArchiveBackend {
	case ArchiveMemory, ArchiveNone:
	case ArchiveSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%sSQLITE_PATH must be set for the sqlite archive", envPrefix)
		}
	case ArchiveFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("%sGCP_PROJECT must be set for the firestore archive", envPrefix)
		}
	default:
		return fmt.Errorf("%sARCHIVE_BACKEND %q is not one of memory, sqlite, firestore, none", envPrefix, c.ArchiveBackend)
	}

	// Minimal validation in GCP mode
	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		return fmt.Errorf("%sGCP_PROJECT must be set in gcp mode", envPrefix)
	}
	if !c.UseMockLLM && c.GCPProjectID == "" {
		return fmt.Errorf("%sGCP_PROJECT must be set unless %sUSE_MOCK_LLM is true", envPrefix, envPrefix)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

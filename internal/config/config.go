package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadSizeMB int64

	// SchemaDir holds the per-namespace JSON schema files and
	// namespaces.json read once at startup into the process-wide
	// schema.Registry (spec.md §9 "Process-wide registries").
	SchemaDir string
	// SchematronRulesPath is the JSON rule file loaded into the
	// process-wide schematron.Registry.
	SchematronRulesPath string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:                envInt("PORT", 8080),
		ReadTimeout:         envDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:        envDuration("WRITE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:     envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxUploadSizeMB:     int64(envInt("MAX_UPLOAD_SIZE_MB", 50)),
		SchemaDir:           envString("SCHEMA_DIR", "./schema"),
		SchematronRulesPath: envString("SCHEMATRON_RULES_PATH", "./schema/rules.json"),
	}
}

func envString(key, fallback string) string {
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

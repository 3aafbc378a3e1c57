/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Media storage backend selection.
type StorageBackend string

const (
	StorageFilesystem StorageBackend = "fs"
	StorageS3         StorageBackend = "s3"
)

// RemotePort is the fixed port the remote/stage surface listens on.
const RemotePort = 15171

// Config covers process level configuration read from environment variables.
// Operator-visible state (global layout defaults, recent services, default
// bible) lives in the settings bag, not here.
type Config struct {
	Environment string
	DataDir     string // Root for projecton.db, bibles/, backgrounds/, images/, videos/
	HTTPBind    string
	HTTPPort    int
	DBBackend   DatabaseBackend
	DBDSN       string
	MetricsBind string

	// Media storage configuration
	StorageBackend StorageBackend

	// S3 media storage configuration (StorageBackend == s3)
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string // For S3-compatible services (MinIO, Spaces, etc.)
	S3UsePathStyle    bool   // Required for MinIO

	// Remote surface configuration
	RemotePIN     string // Optional PIN gating /remote and /mremote; empty disables the gate
	JWTSigningKey string // Signing key for PIN session cookies; required when RemotePIN is set

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("PROJECTON_ENV", "development"),
		DataDir:     getEnv("PROJECTON_DATA_DIR", defaultDataDir()),
		HTTPBind:    getEnv("PROJECTON_HTTP_BIND", "0.0.0.0"),
		HTTPPort:    getEnvInt("PROJECTON_HTTP_PORT", RemotePort),
		DBBackend:   DatabaseBackend(getEnv("PROJECTON_DB_BACKEND", string(DatabaseSQLite))),
		DBDSN:       getEnv("PROJECTON_DB_DSN", ""),
		MetricsBind: getEnv("PROJECTON_METRICS_BIND", "127.0.0.1:9000"),

		StorageBackend: StorageBackend(getEnv("PROJECTON_STORAGE_BACKEND", string(StorageFilesystem))),

		S3AccessKeyID:     getEnv("PROJECTON_S3_ACCESS_KEY_ID", os.Getenv("AWS_ACCESS_KEY_ID")),
		S3SecretAccessKey: getEnv("PROJECTON_S3_SECRET_ACCESS_KEY", os.Getenv("AWS_SECRET_ACCESS_KEY")),
		S3Region:          getEnv("PROJECTON_S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("PROJECTON_S3_BUCKET", ""),
		S3Endpoint:        getEnv("PROJECTON_S3_ENDPOINT", ""),
		S3UsePathStyle:    getEnvBool("PROJECTON_S3_USE_PATH_STYLE", false),

		RemotePIN:     getEnv("PROJECTON_REMOTE_PIN", ""),
		JWTSigningKey: getEnv("PROJECTON_JWT_SIGNING_KEY", ""),

		TracingEnabled:    getEnvBool("PROJECTON_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("PROJECTON_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("PROJECTON_TRACING_SAMPLE_RATE", 1.0),
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		if cfg.DBBackend != DatabaseSQLite {
			return nil, fmt.Errorf("PROJECTON_DB_DSN must be provided for backend %q", cfg.DBBackend)
		}
		cfg.DBDSN = filepath.Join(cfg.DataDir, "projecton.db")
	}

	if cfg.StorageBackend != StorageFilesystem && cfg.StorageBackend != StorageS3 {
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}

	if cfg.StorageBackend == StorageS3 && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("PROJECTON_S3_BUCKET must be provided when the s3 storage backend is selected")
	}

	if cfg.RemotePIN != "" && cfg.JWTSigningKey == "" {
		return nil, fmt.Errorf("PROJECTON_JWT_SIGNING_KEY must be provided when PROJECTON_REMOTE_PIN is set")
	}

	return cfg, nil
}

// BiblesDir returns the bible corpus directory.
func (c *Config) BiblesDir() string { return filepath.Join(c.DataDir, "bibles") }

// BackgroundsDir returns the background image directory.
func (c *Config) BackgroundsDir() string { return filepath.Join(c.DataDir, "backgrounds") }

// ImagesDir returns the slide image directory.
func (c *Config) ImagesDir() string { return filepath.Join(c.DataDir, "images") }

// VideosDir returns the video directory.
func (c *Config) VideosDir() string { return filepath.Join(c.DataDir, "videos") }

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./projecton-data"
	}
	return filepath.Join(home, ".projecton")
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(strings.TrimSpace(val))
		if val == "true" || val == "1" || val == "yes" {
			return true
		}
		if val == "false" || val == "0" || val == "no" {
			return false
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}

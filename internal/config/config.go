package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the settings shared by the CLI and the HTTP server.
type Config struct {
	Port             string
	PlatformInstance string
	Environment      string
	Concurrency      int
}

// MinIOConfig holds the settings needed when MinIO is used as a location
// source or report destination.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

type ErrMissingRequiredEnvVar struct {
	Name string
}

func (e *ErrMissingRequiredEnvVar) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.Name)
}

type ErrInvalidEnvVar struct {
	Name  string
	Value string
}

func (e *ErrInvalidEnvVar) Error() string {
	return fmt.Sprintf("environment variable %q has invalid value %q", e.Name, e.Value)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from environment variables, falling back to
// defaults for anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		PlatformInstance: getEnv("PLATFORM_INSTANCE", ""),
		Environment:      getEnv("ENVIRONMENT", "PROD"),
		Concurrency:      8,
	}

	if v := os.Getenv("CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, &ErrInvalidEnvVar{Name: "CONCURRENCY", Value: v}
		}
		cfg.Concurrency = n
	}

	return cfg, nil
}

// LoadMinIO reads MinIO settings from environment variables.
// Returns an error if required variables are missing.
func LoadMinIO() (*MinIOConfig, error) {
	cfg := MinIOConfig{}
	cfg.Endpoint = os.Getenv("MINIO_ENDPOINT")
	if cfg.Endpoint == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ENDPOINT"}
	}
	cfg.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	if cfg.AccessKey == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ACCESS_KEY"}
	}
	cfg.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	if cfg.SecretKey == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_SECRET_KEY"}
	}
	cfg.Bucket = os.Getenv("MINIO_BUCKET")
	if cfg.Bucket == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_BUCKET"}
	}
	cfg.Prefix = os.Getenv("MINIO_PREFIX")
	cfg.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	return &cfg, nil
}

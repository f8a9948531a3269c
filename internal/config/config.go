// Package config loads application configuration from environment variables.
package config

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration for the service.
// Everything is read once at process start; changing a value requires a restart.
type Config struct {
	Port   string
	AppEnv string

	// Object storage (S3-compatible: MinIO locally, AWS S3 in production).
	// The endpoint and region must name the bucket's actual region —
	// presigned URLs signed against the wrong regional endpoint are rejected
	// with a redirect by the storage service.
	StorageEndpoint  string
	StorageRegion    string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool

	// PresignExpiry bounds the lifetime of upload authorizations.
	PresignExpiry time.Duration
	// StorageTimeout bounds every individual call to the object store.
	StorageTimeout time.Duration

	// APIKeys maps opaque API key -> username. Immutable after Load.
	APIKeys map[string]string

	// ContentTypes maps accepted upload content types to object-path
	// extensions, e.g. "audio/mpeg" -> "mp3".
	ContentTypes map[string]string
	// DefaultContentType is used when a client does not name one.
	DefaultContentType string
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, reading from environment")
	}

	contentTypes := parsePairs(getEnv("CONTENT_TYPES", "audio/mpeg=mp3"))
	if len(contentTypes) == 0 {
		contentTypes = map[string]string{"audio/mpeg": "mp3"}
	}

	return &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageRegion:    getEnv("STORAGE_REGION", "us-east-1"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "audio-uploads"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",

		PresignExpiry:  secondsEnv("PRESIGN_EXPIRY_SECONDS", 900),
		StorageTimeout: secondsEnv("STORAGE_TIMEOUT_SECONDS", 10),

		APIKeys: parsePairs(os.Getenv("API_KEYS")),

		ContentTypes:       contentTypes,
		DefaultContentType: getEnv("DEFAULT_CONTENT_TYPE", "audio/mpeg"),
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Extensions returns the accepted object-path extensions in sorted order.
func (c *Config) Extensions() []string {
	seen := make(map[string]struct{}, len(c.ContentTypes))
	exts := make([]string, 0, len(c.ContentTypes))
	for _, ext := range c.ContentTypes {
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// parsePairs parses "a=1,b=2" into a map. Malformed entries are skipped.
func parsePairs(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			log.Warn().Str("entry", pair).Msg("skipping malformed config pair")
			continue
		}
		out[k] = v
	}
	return out
}

func secondsEnv(key string, fallback int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Second
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(n) * time.Second
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultMaxUploadBytes = 1 << 20
	defaultBatchWorkers   = 4
)

// Config holds the application configuration
// The service is stateless: no database, no user accounts. Auth is either off
// or delegated to an upstream gateway.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN string // Sentry DSN for error tracking
	AWSRegion string // Region for CloudWatch metrics (production only)

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from the upstream gateway
	AuthMode string

	// HTTP limits
	CORSAllowedOrigins []string
	MaxUploadBytes     int64

	// Conversion
	BatchWorkers int
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AuthMode:           getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MaxUploadBytes:     getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		BatchWorkers:       int(getEnvInt64("BATCH_WORKERS", defaultBatchWorkers)),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt64 falls back to defaultValue when the variable is unset, not a
// number, or not positive
func getEnvInt64(key string, defaultValue int64) int64 {
	n, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsGatewayMode returns true if running behind an auth gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction returns true for the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

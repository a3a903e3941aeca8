package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	Env      string
	HTTPPort string

	DatabaseURL string
	AutoMigrate bool

	JWTSecret       string
	TokenExpiration time.Duration
	EncryptionKey   []byte // Raw key bytes (32 for AES-256)

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string

	StorageDir     string
	MaxUploadBytes int64
	NodeID         int64

	RedisURL          string
	ExtractionStream  string
	ExtractionGroup   string
	ExtractionDLQ     string
	WorkerName        string
	WorkerMaxAttempts int
	WorkerBlock       time.Duration

	LiveIntegrationChecks  bool
	IntegrationSuccessRate float64
}

// QueueEnabled reports whether a Redis URL was configured for the extraction pipeline.
func (c *Config) QueueEnabled() bool {
	return c.RedisURL != ""
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, using environment only")
	}

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	encryptionKeyHex := getEnv("ENCRYPTION_KEY", "")
	if encryptionKeyHex == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY environment variable is not set")
	}
	encryptionKey, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decoding ENCRYPTION_KEY from hex: %w", err)
	}
	if len(encryptionKey) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be 32 bytes (64 hex characters) long, got %d bytes", len(encryptionKey))
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	tokenExpHours := getEnvInt("JWT_EXPIRATION_HOURS", 24)
	maxUploadMB := getEnvInt("MAX_UPLOAD_MB", 10)

	successRate, err := strconv.ParseFloat(getEnv("INTEGRATION_TEST_SUCCESS_RATE", "0.8"), 64)
	if err != nil || successRate < 0 || successRate > 1 {
		log.Warn().Str("value", os.Getenv("INTEGRATION_TEST_SUCCESS_RATE")).Msg("invalid INTEGRATION_TEST_SUCCESS_RATE, using 0.8")
		successRate = 0.8
	}

	hostname, _ := os.Hostname()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		DatabaseURL: dbURL,
		AutoMigrate: getEnvBool("AUTO_MIGRATE", false),

		JWTSecret:       jwtSecret,
		TokenExpiration: time.Hour * time.Duration(tokenExpHours),
		EncryptionKey:   encryptionKey,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		StorageDir:     getEnv("STORAGE_DIR", "./storage/app/private"),
		MaxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
		NodeID:         int64(getEnvInt("SNOWFLAKE_NODE_ID", 1)),

		RedisURL:          getEnv("REDIS_URL", ""),
		ExtractionStream:  getEnv("EXTRACTION_STREAM", "document_extraction"),
		ExtractionGroup:   getEnv("EXTRACTION_GROUP", "extractors"),
		ExtractionDLQ:     getEnv("EXTRACTION_DLQ_STREAM", "document_extraction_dlq"),
		WorkerName:        getEnv("WORKER_NAME", hostname),
		WorkerMaxAttempts: getEnvInt("WORKER_MAX_ATTEMPTS", 3),
		WorkerBlock:       time.Duration(getEnvInt("WORKER_BLOCK_SECONDS", 5)) * time.Second,

		LiveIntegrationChecks:  getEnvBool("INTEGRATION_LIVE_CHECKS", false),
		IntegrationSuccessRate: successRate,
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.HTTPPort).
		Str("storage_dir", cfg.StorageDir).
		Bool("queue_enabled", cfg.QueueEnabled()).
		Dur("token_expiration", cfg.TokenExpiration).
		Msg("configuration loaded")

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Int("default", fallback).Msg("invalid integer env value, using default")
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Bool("default", fallback).Msg("invalid boolean env value, using default")
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

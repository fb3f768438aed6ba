package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers understood by LoadConfig.
const (
	StorageDriverS3         = "s3"
	StorageDriverFilesystem = "filesystem"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	JWTSecret        string
	GeoIPDBPath      string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	CORSOrigins      []string

	ReplicateAPIToken     string
	ReplicateBaseURL      string
	ReplicateModelVersion string

	PinataJWT        string
	PinataBaseURL    string
	PinataGatewayURL string

	StorageDriver   string
	StoragePath     string
	S3Bucket        string
	AWSRegion       string
	S3Endpoint      string
	S3PublicBaseURL string

	ValkeyAddress  string
	ValkeyPassword string
	MintLockTTL    time.Duration

	WorkerPollInterval time.Duration
	JobLease           time.Duration
	JobMaxAttempts     int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "chrome-extension://*")),

		ReplicateAPIToken:     strings.TrimSpace(os.Getenv("REPLICATE_API_TOKEN")),
		ReplicateBaseURL:      getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		ReplicateModelVersion: getEnv("REPLICATE_MODEL_VERSION", "c221b2b8ef527988fb59bf24a8b97c4561f1c671f73bd389f866bfb27c061316"),

		PinataJWT:        strings.TrimSpace(os.Getenv("PINATA_JWT")),
		PinataBaseURL:    getEnv("PINATA_BASE_URL", "https://api.pinata.cloud"),
		PinataGatewayURL: getEnv("PINATA_GATEWAY_URL", "https://gateway.pinata.cloud/ipfs/"),

		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverS3)),
		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		S3Bucket:       getEnv("S3_BUCKET", "factchain-community"),
		AWSRegion:      getEnv("AWS_REGION", "eu-west-3"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		ValkeyAddress:  os.Getenv("VALKEY_ADDRESS"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		MintLockTTL:    time.Second * time.Duration(getEnvInt("MINT_LOCK_TTL_SECONDS", 300)),

		WorkerPollInterval: time.Second * time.Duration(getEnvInt("WORKER_POLL_SECONDS", 2)),
		JobLease:           time.Second * time.Duration(getEnvInt("JOB_LEASE_SECONDS", 900)),
		JobMaxAttempts:     getEnvInt("JOB_MAX_ATTEMPTS", 3),
	}

	cfg.S3PublicBaseURL = strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", defaultPublicBaseURL(cfg.S3Bucket, cfg.AWSRegion)), "/")

	switch cfg.StorageDriver {
	case StorageDriverS3, StorageDriverFilesystem:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// RequireJWTSecret reports an error when the API is started without a signing secret.
func (c *Config) RequireJWTSecret() error {
	if c == nil || strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func defaultPublicBaseURL(bucket, region string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

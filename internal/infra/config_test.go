package infra

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("S3_PUBLIC_BASE_URL", "")
	t.Setenv("MINT_LOCK_TTL_SECONDS", "")
	t.Setenv("JOB_LEASE_SECONDS", "")
	t.Setenv("JOB_MAX_ATTEMPTS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageDriver != StorageDriverS3 {
		t.Fatalf("StorageDriver = %q, want %q", cfg.StorageDriver, StorageDriverS3)
	}
	expected := "https://factchain-community.s3.eu-west-3.amazonaws.com"
	if cfg.S3PublicBaseURL != expected {
		t.Fatalf("S3PublicBaseURL mismatch: got %q want %q", cfg.S3PublicBaseURL, expected)
	}
	if cfg.PinataGatewayURL != "https://gateway.pinata.cloud/ipfs/" {
		t.Fatalf("PinataGatewayURL = %q", cfg.PinataGatewayURL)
	}
	if cfg.MintLockTTL.Seconds() != 300 {
		t.Fatalf("MintLockTTL = %s, want 5m", cfg.MintLockTTL)
	}
	if cfg.JobLease.Minutes() != 15 || cfg.JobMaxAttempts != 3 {
		t.Fatalf("JobLease = %s, JobMaxAttempts = %d", cfg.JobLease, cfg.JobMaxAttempts)
	}
}

func TestLoadConfigPublicBaseURLFollowsBucket(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("S3_BUCKET", "notes")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("S3_PUBLIC_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "https://notes.s3.us-east-1.amazonaws.com"
	if cfg.S3PublicBaseURL != expected {
		t.Fatalf("S3PublicBaseURL mismatch: got %q want %q", cfg.S3PublicBaseURL, expected)
	}
}

func TestLoadConfigHonorsExplicitPublicBaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.example.com/tokens/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.S3PublicBaseURL != "https://cdn.example.com/tokens" {
		t.Fatalf("S3PublicBaseURL = %q", cfg.S3PublicBaseURL)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfigRejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("STORAGE_DRIVER", "gcs")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unsupported storage driver")
	}
}

func TestRequireJWTSecret(t *testing.T) {
	if err := (&Config{}).RequireJWTSecret(); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if err := (&Config{JWTSecret: "s"}).RequireJWTSecret(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadConfigCORSOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://factchain.example, ,chrome-extension://* ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://factchain.example" || cfg.CORSOrigins[1] != "chrome-extension://*" {
		t.Fatalf("CORSOrigins = %q", cfg.CORSOrigins)
	}
}

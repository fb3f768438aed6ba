package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"notemint/internal/domain"
	"notemint/internal/infra"
	"notemint/internal/mint"
	"notemint/internal/pinning"
	"notemint/internal/providers/replicate"
)

func fsConfig(t *testing.T) *infra.Config {
	t.Helper()
	return &infra.Config{
		StorageDriver:         infra.StorageDriverFilesystem,
		StoragePath:           t.TempDir(),
		ReplicateModelVersion: "v1",
	}
}

func TestNewMintWithoutCredentials(t *testing.T) {
	logger := infra.NewLogger("test")
	m, err := NewMint(context.Background(), fsConfig(t), nil, &logger)
	if err != nil {
		t.Fatalf("NewMint: %v", err)
	}
	defer m.Close()
	if m.Store == nil {
		t.Fatal("expected object store")
	}

	_, err = m.Service.MintFromSocialNote(context.Background(), domain.SocialPostNote{URL: "https://x.test/1", Content: "hi"})
	if !errors.Is(err, mint.ErrNotConfigured) {
		t.Fatalf("social mint err = %v, want ErrNotConfigured", err)
	}
	_, err = m.Service.MintFromNote(context.Background(), domain.Note{Content: "hi"})
	if !errors.Is(err, mint.ErrNotConfigured) {
		t.Fatalf("note mint err = %v, want ErrNotConfigured", err)
	}
}

func TestNewMintValidatesBeforeConfiguration(t *testing.T) {
	logger := infra.NewLogger("test")
	m, err := NewMint(context.Background(), fsConfig(t), nil, &logger)
	if err != nil {
		t.Fatalf("NewMint: %v", err)
	}
	_, err = m.Service.MintFromNote(context.Background(), domain.Note{})
	if !errors.Is(err, domain.ErrEmptyContent) {
		t.Fatalf("err = %v, want ErrEmptyContent", err)
	}
}

func TestNewMintUnknownDriver(t *testing.T) {
	cfg := fsConfig(t)
	cfg.StorageDriver = "ftp"
	logger := infra.NewLogger("test")
	if _, err := NewMint(context.Background(), cfg, nil, &logger); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}

func TestProviderClientsKeepTheirOwnTimeouts(t *testing.T) {
	cfg := fsConfig(t)
	logger := infra.NewLogger("test")

	r := replicateOptions(cfg, "r8_test", &logger)
	if r.HTTPClient != nil {
		t.Fatal("replicate must not share the download client")
	}
	if r.RequestTimeout != replicate.DefaultRequestTimeout || r.RequestTimeout <= downloadTimeout {
		t.Fatalf("replicate timeout = %s", r.RequestTimeout)
	}

	p := pinataOptions(cfg, "jwt", &logger)
	if p.HTTPClient != nil {
		t.Fatal("pinata must not share the download client")
	}
	if p.RequestTimeout != pinning.DefaultRequestTimeout || p.RequestTimeout <= downloadTimeout {
		t.Fatalf("pinata timeout = %s", p.RequestTimeout)
	}
	if downloadTimeout != 60*time.Second {
		t.Fatalf("download timeout = %s", downloadTimeout)
	}
}

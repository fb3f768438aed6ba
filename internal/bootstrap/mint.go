// Package bootstrap wires the mint pipeline from configuration for the
// api and worker binaries.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"notemint/internal/infra"
	"notemint/internal/infra/credentials"
	"notemint/internal/mint"
	"notemint/internal/mintlock"
	"notemint/internal/pinning"
	"notemint/internal/providers/image"
	"notemint/internal/providers/replicate"
	"notemint/internal/storage"
)

const downloadTimeout = 60 * time.Second

// Mint holds the wired pipeline and the resources that must be closed.
type Mint struct {
	Service *mint.Service
	Store   storage.ObjectStore
	lock    *mintlock.Valkey
}

// Close releases the optional lock client.
func (m *Mint) Close() {
	if m != nil && m.lock != nil {
		m.lock.Close()
	}
}

// NewMint builds the mint service. Provider tokens missing from cfg are read
// from the credential store. A flow whose backend cannot be configured is
// left nil and reported through mint.ErrNotConfigured at call time.
func NewMint(ctx context.Context, cfg *infra.Config, creds *credentials.Store, logger *infra.Logger) (*Mint, error) {
	// Only image downloads share this client; the provider clients keep
	// their own longer timeouts.
	downloadClient := &http.Client{Timeout: downloadTimeout}

	replicateToken, err := creds.Resolve(ctx, credentials.ProviderReplicate, cfg.ReplicateAPIToken)
	if err != nil {
		logger.Warn().Err(err).Msg("bootstrap: failed to load replicate token from store")
	}
	pinataJWT, err := creds.Resolve(ctx, credentials.ProviderPinata, cfg.PinataJWT)
	if err != nil {
		logger.Warn().Err(err).Msg("bootstrap: failed to load pinata jwt from store")
	}

	out := &Mint{}
	var opts mint.Options
	opts.Logger = logger

	if strings.TrimSpace(replicateToken) == "" {
		logger.Warn().Msg("bootstrap: replicate token missing, minting disabled")
	} else {
		client, err := replicate.NewClient(replicateOptions(cfg, replicateToken, logger))
		if err != nil {
			return nil, fmt.Errorf("replicate client: %w", err)
		}
		synth, err := image.NewSynthesizer(image.SynthesizerOptions{
			Runner:       client,
			ModelVersion: cfg.ReplicateModelVersion,
			Logger:       logger,
		})
		if err != nil {
			return nil, fmt.Errorf("synthesizer: %w", err)
		}
		opts.Synthesizer = synth
	}

	if opts.Synthesizer != nil && strings.TrimSpace(pinataJWT) != "" {
		pinned, err := mint.NewPinnedPublisher(mint.PinnedPublisherOptions{
			Pinner:     pinning.NewClient(pinataOptions(cfg, pinataJWT, logger)),
			HTTPClient: downloadClient,
			GatewayURL: cfg.PinataGatewayURL,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("pinned publisher: %w", err)
		}
		opts.Pinned = pinned
	} else if strings.TrimSpace(pinataJWT) == "" {
		logger.Warn().Msg("bootstrap: pinata jwt missing, note minting disabled")
	}

	store, err := storage.New(ctx, *cfg)
	if err != nil {
		return nil, fmt.Errorf("object store: %w", err)
	}
	out.Store = store

	var guard mintlock.Guard = mintlock.Noop{}
	if strings.TrimSpace(cfg.ValkeyAddress) != "" {
		lock, err := mintlock.NewValkey(ctx, mintlock.Options{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			TTL:      cfg.MintLockTTL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("mint lock: %w", err)
		}
		out.lock = lock
		guard = lock
	}

	if opts.Synthesizer != nil {
		bucket, err := mint.NewBucketPublisher(mint.BucketPublisherOptions{
			Synthesizer:   opts.Synthesizer,
			Store:         store,
			HTTPClient:    downloadClient,
			PublicBaseURL: cfg.S3PublicBaseURL,
			Lock:          guard,
			Logger:        logger,
		})
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("bucket publisher: %w", err)
		}
		opts.Bucket = bucket
	}

	out.Service = mint.NewService(opts)
	return out, nil
}

func replicateOptions(cfg *infra.Config, token string, logger *infra.Logger) replicate.Options {
	return replicate.Options{
		APIToken:       token,
		BaseURL:        cfg.ReplicateBaseURL,
		RequestTimeout: replicate.DefaultRequestTimeout,
		Logger:         logger,
	}
}

func pinataOptions(cfg *infra.Config, jwt string, logger *infra.Logger) pinning.Options {
	return pinning.Options{
		JWT:            jwt,
		BaseURL:        cfg.PinataBaseURL,
		RequestTimeout: pinning.DefaultRequestTimeout,
		Logger:         logger,
	}
}

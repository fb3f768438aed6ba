package mint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"notemint/internal/domain"
	"notemint/internal/infra"
	"notemint/internal/mintlock"
	"notemint/internal/storage"
	"notemint/internal/tokenid"
)

// BucketPublisherOptions configures a BucketPublisher. Lock defaults to
// mintlock.Noop, leaving concurrent mints of one URL unguarded.
type BucketPublisherOptions struct {
	Synthesizer   Synthesizer
	Store         storage.ObjectStore
	HTTPClient    *http.Client
	PublicBaseURL string
	Lock          mintlock.Guard
	Logger        *infra.Logger
}

// BucketPublisher mints social post notes into a key-addressed bucket,
// at most once per post URL.
type BucketPublisher struct {
	synth         Synthesizer
	store         storage.ObjectStore
	httpClient    *http.Client
	publicBaseURL string
	lock          mintlock.Guard
	logger        *infra.Logger
}

func NewBucketPublisher(opts BucketPublisherOptions) (*BucketPublisher, error) {
	if opts.Synthesizer == nil {
		return nil, errors.New("mint: synthesizer is required")
	}
	if opts.Store == nil {
		return nil, errors.New("mint: object store is required")
	}
	lock := opts.Lock
	if lock == nil {
		lock = mintlock.Noop{}
	}
	return &BucketPublisher{
		synth:         opts.Synthesizer,
		store:         opts.Store,
		httpClient:    defaultHTTPClient(opts.HTTPClient),
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		lock:          lock,
		logger:        infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// ImageURL is the public location of a minted token's image.
func (b *BucketPublisher) ImageURL(id uint64) string {
	return b.publicBaseURL + "/" + tokenid.Key(id, "png")
}

// PublishOrReuse returns the token ID for note.URL, minting it first unless
// {tokenID}.png already exists. The image key is the only "already minted"
// signal; an image without metadata counts as minted.
func (b *BucketPublisher) PublishOrReuse(ctx context.Context, note domain.SocialPostNote) (uint64, error) {
	id, err := tokenid.Derive(note.URL)
	if err != nil {
		return 0, err
	}
	imageKey := tokenid.Key(id, "png")
	log := b.logger.With().Uint64("token_id", id).Logger()

	release, ok, err := b.lock.Acquire(ctx, tokenid.Key(id, "lock"))
	if err != nil {
		return 0, domain.NewStorageError(domain.ErrLockUnavailable, "acquire mint lock", err)
	}
	defer release(context.WithoutCancel(ctx))
	if !ok {
		return 0, domain.NewStorageError(domain.ErrMintInProgress, fmt.Sprintf("token %d is being minted", id), nil)
	}

	exists, err := b.store.Exists(ctx, imageKey)
	if err != nil {
		return 0, domain.NewStorageError(domain.ErrObjectStoreReadFailed, "check "+imageKey, err)
	}
	if exists {
		log.Info().Msg("mint: token already minted, reusing")
		return id, nil
	}

	imageURL, err := b.synth.Synthesize(ctx, note.Content, 0)
	if err != nil {
		return 0, err
	}
	image, err := b.download(ctx, imageURL)
	if err != nil {
		return 0, domain.NewGenerationError(domain.ErrGenerationFailed, err)
	}
	if err := b.store.Put(ctx, imageKey, image, "image/png"); err != nil {
		return 0, domain.NewStorageError(domain.ErrObjectStoreWriteFailed, "put "+imageKey, err)
	}

	metadataKey := tokenid.Key(id, "json")
	metadata, err := json.Marshal(domain.TokenMetadata{
		Name:        note.URL,
		Description: note.Content,
		Image:       b.ImageURL(id),
	})
	if err != nil {
		return 0, fmt.Errorf("mint: encode metadata: %w", err)
	}
	if err := b.store.Put(ctx, metadataKey, metadata, "application/json"); err != nil {
		return 0, domain.NewStorageError(domain.ErrObjectStoreWriteFailed, "put "+metadataKey, err)
	}

	log.Info().Int("image_bytes", len(image)).Msg("mint: social note minted")
	return id, nil
}

func (b *BucketPublisher) download(ctx context.Context, url string) ([]byte, error) {
	body, err := fetch(ctx, b.httpClient, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("download image: read body: %w", err)
	}
	return data, nil
}

package mint

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"notemint/internal/domain"
	"notemint/internal/infra"
)

// Options wires the orchestrators. Either publisher may be nil when the
// corresponding storage backend is not configured.
type Options struct {
	Synthesizer Synthesizer
	Pinned      *PinnedPublisher
	Bucket      *BucketPublisher
	NewUID      func() string
	Logger      *infra.Logger
}

// Service is the entry point for both note flavours. It keeps no state
// between calls.
type Service struct {
	synth  Synthesizer
	pinned *PinnedPublisher
	bucket *BucketPublisher
	newUID func() string
	logger *infra.Logger
}

// ErrNotConfigured is returned when a mint flow lacks its publisher.
var ErrNotConfigured = errors.New("mint: flow not configured")

func NewService(opts Options) *Service {
	newUID := opts.NewUID
	if newUID == nil {
		newUID = uuid.NewString
	}
	return &Service{
		synth:  opts.Synthesizer,
		pinned: opts.Pinned,
		bucket: opts.Bucket,
		newUID: newUID,
		logger: infra.LoggerOrDiscard(opts.Logger),
	}
}

// MintFromNote synthesizes an image for note, pins it with its metadata and
// returns the metadata CID.
func (s *Service) MintFromNote(ctx context.Context, note domain.Note) (string, error) {
	if strings.TrimSpace(note.Content) == "" {
		return "", domain.NewValidationError(domain.ErrEmptyContent, "note content is empty")
	}
	if s.synth == nil || s.pinned == nil {
		return "", ErrNotConfigured
	}
	uid := s.newUID()
	log := s.logger.With().Str("uid", uid).Str("post_url", note.PostURL).Logger()

	imageURL, err := s.synth.Synthesize(ctx, note.Content, 0)
	if err != nil {
		log.Warn().Err(err).Msg("mint: synthesis failed")
		return "", err
	}
	cid, err := s.pinned.Publish(ctx, imageURL, uid, note)
	if err != nil {
		log.Warn().Err(err).Msg("mint: publish failed")
		return "", err
	}
	return cid, nil
}

// MintFromSocialNote returns the token ID of note's post, minting its assets
// unless they already exist.
func (s *Service) MintFromSocialNote(ctx context.Context, note domain.SocialPostNote) (uint64, error) {
	if strings.TrimSpace(note.URL) == "" {
		return 0, domain.NewValidationError(domain.ErrInvalidURL, "post url is required")
	}
	if strings.TrimSpace(note.Content) == "" {
		return 0, domain.NewValidationError(domain.ErrEmptyContent, "note content is empty")
	}
	if s.bucket == nil {
		return 0, ErrNotConfigured
	}
	id, err := s.bucket.PublishOrReuse(ctx, note)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", note.URL).Msg("mint: social note failed")
		return 0, err
	}
	return id, nil
}

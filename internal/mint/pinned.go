package mint

import (
	"context"
	"errors"
	"net/http"

	"notemint/internal/domain"
	"notemint/internal/infra"
)

// PinnedPublisherOptions configures a PinnedPublisher.
type PinnedPublisherOptions struct {
	Pinner     Pinner
	HTTPClient *http.Client
	GatewayURL string
	Logger     *infra.Logger
}

// PinnedPublisher stores a generated image and its metadata on IPFS.
type PinnedPublisher struct {
	pinner     Pinner
	httpClient *http.Client
	gatewayURL string
	logger     *infra.Logger
}

func NewPinnedPublisher(opts PinnedPublisherOptions) (*PinnedPublisher, error) {
	if opts.Pinner == nil {
		return nil, errors.New("mint: pinner is required")
	}
	return &PinnedPublisher{
		pinner:     opts.Pinner,
		httpClient: defaultHTTPClient(opts.HTTPClient),
		gatewayURL: opts.GatewayURL,
		logger:     infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// Publish streams the image at imageURL to the pinning service as {uid}.png,
// then pins a metadata document pointing at it. The returned CID is the
// metadata document's, not the image's.
func (p *PinnedPublisher) Publish(ctx context.Context, imageURL, uid string, note domain.Note) (string, error) {
	body, err := fetch(ctx, p.httpClient, imageURL)
	if err != nil {
		return "", domain.NewPublishError(domain.ErrPinningFailed, domain.StageImage, err)
	}
	imageCID, err := p.pinner.PinFile(ctx, uid+".png", body)
	body.Close()
	if err != nil {
		return "", domain.NewPublishError(domain.ErrPinningFailed, domain.StageImage, err)
	}

	metadata := domain.TokenMetadata{
		Name:        note.PostURL,
		Description: note.Content,
		ExternalURL: p.gatewayURL,
		Image:       "ipfs://" + imageCID,
	}
	metadataCID, err := p.pinner.PinJSON(ctx, metadata, "note-"+uid+"-metadata.json")
	if err != nil {
		return "", domain.NewPublishError(domain.ErrMetadataPinFailed, domain.StageMetadata, err)
	}

	p.logger.Info().
		Str("uid", uid).
		Str("image_cid", imageCID).
		Str("metadata_cid", metadataCID).
		Msg("mint: note assets pinned")
	return metadataCID, nil
}

// Package mint turns notes into mintable token data: an image synthesized from
// the note text, persisted together with its metadata document.
package mint

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Synthesizer produces an ephemeral image URL for a prompt.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string, attempt int) (string, error)
}

// Pinner uploads content to a content-addressed store and returns its CID.
type Pinner interface {
	PinFile(ctx context.Context, filename string, body io.Reader) (string, error)
	PinJSON(ctx context.Context, content any, name string) (string, error)
}

// TokenURI is the on-chain URI of a pinned metadata document.
func TokenURI(cid string) string {
	return "ipfs://" + cid
}

func defaultHTTPClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 120 * time.Second}
}

// fetch opens the body of a generated image. The caller closes it.
func fetch(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("download image: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

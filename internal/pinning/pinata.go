// Package pinning uploads files and JSON documents to the Pinata IPFS pinning API.
package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"notemint/internal/infra"
)

// ErrMissingJWT indicates that the client was configured without credentials.
var ErrMissingJWT = errors.New("pinata: jwt is required")

// DefaultRequestTimeout bounds a pin call, including streaming the image in.
const DefaultRequestTimeout = 120 * time.Second

// Options configures the Pinata client.
type Options struct {
	JWT            string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client pins content through Pinata's HTTP API.
type Client struct {
	jwt        string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

type pinJSONRequest struct {
	PinataContent  any            `json:"pinataContent"`
	PinataMetadata pinataMetadata `json:"pinataMetadata"`
}

// NewClient constructs a client with defaults for anything left unset.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.pinata.cloud"
	}
	return &Client{
		jwt:        strings.TrimSpace(opts.JWT),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     infra.LoggerOrDiscard(opts.Logger),
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.jwt != ""
}

// PinFile streams body into a multipart upload named filename and returns the
// resulting content identifier. body is never buffered in full.
func (c *Client) PinFile(ctx context.Context, filename string, body io.Reader) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingJWT
	}
	if strings.TrimSpace(filename) == "" {
		return "", errors.New("pinata: filename is required")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, body); err != nil {
			pw.CloseWithError(fmt.Errorf("pinata: stream file: %w", err))
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinFileToIPFS", pr)
	if err != nil {
		pr.Close()
		return "", fmt.Errorf("pinata: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	cid, err := c.do(req)
	// unblocks the writer goroutine if the request ended before the body was drained
	pr.Close()
	if err != nil {
		return "", err
	}
	c.logger.Debug().Str("filename", filename).Str("cid", cid).Msg("pinata: file pinned")
	return cid, nil
}

// PinJSON pins content as a JSON document under the given name.
func (c *Client) PinJSON(ctx context.Context, content any, name string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingJWT
	}
	payload, err := json.Marshal(pinJSONRequest{
		PinataContent:  content,
		PinataMetadata: pinataMetadata{Name: name},
	})
	if err != nil {
		return "", fmt.Errorf("pinata: encode json: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("pinata: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	cid, err := c.do(req)
	if err != nil {
		return "", err
	}
	c.logger.Debug().Str("name", name).Str("cid", cid).Msg("pinata: json pinned")
	return cid, nil
}

func (c *Client) do(req *http.Request) (string, error) {
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("pinata: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("pinata: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var out pinResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("pinata: decode response: %w", err)
	}
	if out.IpfsHash == "" {
		return "", errors.New("pinata: response missing IpfsHash")
	}
	return out.IpfsHash, nil
}

package pinning

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPinFileStreamsMultipart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pinning/pinFileToIPFS" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer jwt-1" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "uid-1.png" {
			t.Fatalf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "png-bytes" {
			t.Fatalf("body = %q", string(data))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"IpfsHash": "Q1", "PinSize": 9})
	}))
	defer ts.Close()

	client := NewClient(Options{JWT: "jwt-1", BaseURL: ts.URL})
	cid, err := client.PinFile(context.Background(), "uid-1.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("PinFile error: %v", err)
	}
	if cid != "Q1" {
		t.Fatalf("cid = %q, want Q1", cid)
	}
}

func TestPinJSONWrapsContentAndName(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pinning/pinJSONToIPFS" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type = %q", ct)
		}
		var body struct {
			PinataContent  map[string]string `json:"pinataContent"`
			PinataMetadata struct {
				Name string `json:"name"`
			} `json:"pinataMetadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.PinataContent["image"] != "ipfs://Q1" {
			t.Fatalf("content = %v", body.PinataContent)
		}
		if body.PinataMetadata.Name != "note-uid-1-metadata.json" {
			t.Fatalf("metadata name = %q", body.PinataMetadata.Name)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"IpfsHash": "Q2"})
	}))
	defer ts.Close()

	client := NewClient(Options{JWT: "jwt-1", BaseURL: ts.URL})
	cid, err := client.PinJSON(context.Background(), map[string]string{"image": "ipfs://Q1"}, "note-uid-1-metadata.json")
	if err != nil {
		t.Fatalf("PinJSON error: %v", err)
	}
	if cid != "Q2" {
		t.Fatalf("cid = %q, want Q2", cid)
	}
}

func TestPinErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "status", status: http.StatusForbidden, body: `{"error":"forbidden"}`, wantErr: "status 403"},
		{name: "missing hash", status: http.StatusOK, body: `{}`, wantErr: "missing IpfsHash"},
		{name: "bad json", status: http.StatusOK, body: `nope`, wantErr: "decode response"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			client := NewClient(Options{JWT: "jwt-1", BaseURL: ts.URL})
			_, err := client.PinFile(context.Background(), "a.png", strings.NewReader("x"))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("PinFile error = %v, want %q", err, tc.wantErr)
			}
			_, err = client.PinJSON(context.Background(), map[string]string{}, "n")
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("PinJSON error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestPinRequiresJWT(t *testing.T) {
	client := NewClient(Options{})
	if _, err := client.PinFile(context.Background(), "a.png", strings.NewReader("x")); !errors.Is(err, ErrMissingJWT) {
		t.Fatalf("expected ErrMissingJWT, got %v", err)
	}
	if _, err := client.PinJSON(context.Background(), nil, "n"); !errors.Is(err, ErrMissingJWT) {
		t.Fatalf("expected ErrMissingJWT, got %v", err)
	}
}

func TestNewClientDefaultTimeout(t *testing.T) {
	c := NewClient(Options{JWT: "jwt"})
	if c.httpClient.Timeout != DefaultRequestTimeout {
		t.Fatalf("timeout = %s, want %s", c.httpClient.Timeout, DefaultRequestTimeout)
	}
}

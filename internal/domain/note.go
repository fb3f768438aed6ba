package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Note is an annotation attached to a post, produced by the upstream note
// collection. It must not be mutated once handed to the minting pipeline.
type Note struct {
	PostURL string `json:"postUrl"`
	Content string `json:"content"`
	Creator string `json:"creator"`
	Ratings []int  `json:"ratings,omitempty"`
}

// UnmarshalJSON accepts the extension's postUrl and the older post_url
// spelling; postUrl wins when both are set. Unknown fields are rejected.
func (n *Note) UnmarshalJSON(data []byte) error {
	type plain Note
	var aux struct {
		plain
		LegacyPostURL string `json:"post_url"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return err
	}
	*n = Note(aux.plain)
	if n.PostURL == "" {
		n.PostURL = aux.LegacyPostURL
	}
	return nil
}

// SocialPostNote is a note anchored to a third-party social media post.
type SocialPostNote struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Rating is a single rating left on a note. NoteContent is the rated note's
// text, carried along so eligible notes can be minted directly.
type Rating struct {
	PostURL     string
	Creator     string
	Value       int
	CreatedAt   time.Time
	NoteContent string
}

// TokenMetadata is the JSON document stored next to a minted image.
type TokenMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ExternalURL string `json:"external_url,omitempty"`
	Image       string `json:"image"`
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"notemint/internal/domain"
	"notemint/internal/mint"
	"notemint/internal/tokenid"
)

const maxBodyBytes = 64 << 10

type noteMintResponse struct {
	CID      string `json:"cid"`
	TokenURI string `json:"token_uri"`
}

type socialMintResponse struct {
	TokenID uint64 `json:"token_id"`
}

func (a *App) MintNote(w http.ResponseWriter, r *http.Request) {
	var note domain.Note
	if !a.decode(w, r, &note) {
		return
	}
	cid, err := a.Minter.MintFromNote(r.Context(), note)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, noteMintResponse{CID: cid, TokenURI: mint.TokenURI(cid)})
}

func (a *App) MintSocialNote(w http.ResponseWriter, r *http.Request) {
	var note domain.SocialPostNote
	if !a.decode(w, r, &note) {
		return
	}
	id, err := a.Minter.MintFromSocialNote(r.Context(), note)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, socialMintResponse{TokenID: id})
}

// TokenID derives the token identifier of a post URL without minting.
func (a *App) TokenID(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	id, err := tokenid.Derive(url)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"url":      url,
		"token_id": id,
		"key":      tokenid.Key(id, "png"),
		"id_text":  strconv.FormatUint(id, 10),
	})
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

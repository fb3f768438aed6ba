package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notemint/internal/tokenid"
	"notemint/pkg/zip"
)

// TokenBundle streams a zip holding a minted token's image and metadata.
func (a *App) TokenBundle(w http.ResponseWriter, r *http.Request) {
	id, err := tokenid.Parse(chi.URLParam(r, "token_id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	files := []struct{ key, mime string }{
		{tokenid.Key(id, "png"), "image/png"},
		{tokenid.Key(id, "json"), "application/json"},
	}
	assets := make([]zip.Asset, 0, len(files))
	for _, f := range files {
		data, err := a.Store.Get(r.Context(), f.key)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		assets = append(assets, zip.Asset{Filename: f.key, MIME: f.mime, Data: data})
	}
	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=token-%d.zip", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

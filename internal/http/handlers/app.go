package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"notemint/internal/domain"
	"notemint/internal/infra"
	"notemint/internal/middleware"
	"notemint/internal/mint"
	"notemint/internal/storage"
)

// Minter runs the synchronous mint flows.
type Minter interface {
	MintFromNote(ctx context.Context, note domain.Note) (string, error)
	MintFromSocialNote(ctx context.Context, note domain.SocialPostNote) (uint64, error)
}

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Config        *infra.Config
	Logger        infra.Logger
	Minter        Minter
	Jobs          domain.JobRepository
	Store         storage.ObjectStore
	DB            Pinger
	CountryLookup middleware.CountryLookup
	JWTSecret     string
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, map[string]errorBody{"error": {Code: errCode, Message: msg}})
}

// fail maps pipeline errors onto HTTP responses.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	event := a.Logger.Warn()
	if status >= http.StatusInternalServerError {
		event = a.Logger.Error()
	}
	event.Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("code", code).
		Msg("mint request failed")
	a.error(w, status, code, msg)
}

func statusFor(err error) (int, string) {
	if perr, ok := domain.AsError(err); ok {
		switch {
		case errors.Is(err, domain.ErrEmptyContent):
			return http.StatusUnprocessableEntity, perr.Code()
		case errors.Is(err, domain.ErrValidation):
			return http.StatusBadRequest, perr.Code()
		case errors.Is(err, domain.ErrMintInProgress):
			return http.StatusConflict, perr.Code()
		case errors.Is(err, domain.ErrGeneration), errors.Is(err, domain.ErrPublish):
			return http.StatusBadGateway, perr.Code()
		case errors.Is(err, domain.ErrStorage):
			return http.StatusServiceUnavailable, perr.Code()
		}
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, mint.ErrNotConfigured):
		return http.StatusServiceUnavailable, "not_configured"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"notemint/internal/domain"
	"notemint/internal/middleware"
)

var errBadJob = errors.New("kind must be note or social_note with a well-formed note")

type enqueueRequest struct {
	Kind string          `json:"kind"`
	Note json.RawMessage `json:"note"`
}

type jobResponse struct {
	JobID  string           `json:"job_id"`
	Status domain.JobStatus `json:"status"`
}

// EnqueueMint validates a note and queues it for the worker.
func (a *App) EnqueueMint(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if !a.decode(w, r, &req) {
		return
	}
	kind, payload, err := normalizeJobPayload(req)
	if errors.Is(err, errBadJob) {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	job := &domain.MintJob{
		Kind:        kind,
		Payload:     payload,
		RequestedBy: middleware.CallerFromContext(r.Context()),
		Country:     middleware.CountryFromContext(r.Context()),
	}
	id, err := a.Jobs.Enqueue(r.Context(), job)
	if err != nil {
		a.Logger.Error().Err(err).Msg("enqueue mint job")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return
	}
	a.json(w, http.StatusAccepted, jobResponse{JobID: id, Status: domain.JobStatusQueued})
}

// MintJobStatus returns a job to the caller that queued it.
func (a *App) MintJobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := a.Jobs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", id).Msg("load mint job")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	if job.RequestedBy != "" && job.RequestedBy != middleware.CallerFromContext(r.Context()) {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	a.json(w, http.StatusOK, job)
}

// normalizeJobPayload checks the note up front so invalid jobs are rejected
// at enqueue time instead of failing in the worker.
func normalizeJobPayload(req enqueueRequest) (domain.JobKind, json.RawMessage, error) {
	var (
		kind domain.JobKind
		v    any
	)
	switch strings.ToLower(strings.TrimSpace(req.Kind)) {
	case "note":
		var note domain.Note
		if err := json.Unmarshal(req.Note, &note); err != nil {
			return "", nil, errBadJob
		}
		if strings.TrimSpace(note.Content) == "" {
			return "", nil, domain.NewValidationError(domain.ErrEmptyContent, "note content is empty")
		}
		kind, v = domain.JobKindNote, note
	case "social_note":
		var note domain.SocialPostNote
		if err := json.Unmarshal(req.Note, &note); err != nil {
			return "", nil, errBadJob
		}
		if strings.TrimSpace(note.URL) == "" {
			return "", nil, domain.NewValidationError(domain.ErrInvalidURL, "post url is required")
		}
		if strings.TrimSpace(note.Content) == "" {
			return "", nil, domain.NewValidationError(domain.ErrEmptyContent, "note content is empty")
		}
		kind, v = domain.JobKindSocialNote, note
	default:
		return "", nil, errBadJob
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	return kind, payload, nil
}

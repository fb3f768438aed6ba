// Package worker drains the mint job queue.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"notemint/internal/domain"
	"notemint/internal/infra"
	"notemint/internal/mint"
)

const defaultPollInterval = 2 * time.Second

// Minter runs the mint flows for a claimed job.
type Minter interface {
	MintFromNote(ctx context.Context, note domain.Note) (string, error)
	MintFromSocialNote(ctx context.Context, note domain.SocialPostNote) (uint64, error)
}

type Options struct {
	Jobs         domain.JobRepository
	Minter       Minter
	PollInterval time.Duration
	Logger       *infra.Logger
}

// Worker claims queued jobs one at a time and records their outcome.
type Worker struct {
	jobs   domain.JobRepository
	minter Minter
	poll   time.Duration
	logger *infra.Logger
}

func New(opts Options) (*Worker, error) {
	if opts.Jobs == nil {
		return nil, errors.New("worker: job repository is required")
	}
	if opts.Minter == nil {
		return nil, errors.New("worker: minter is required")
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	return &Worker{
		jobs:   opts.Jobs,
		minter: opts.Minter,
		poll:   poll,
		logger: infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// Run polls until ctx is cancelled. It returns ctx.Err().
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Dur("poll", w.poll).Msg("worker: started")
	for {
		processed, err := w.RunOnce(ctx)
		if err != nil && ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("worker: failed to claim job")
		}
		if processed && err == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes at most one job. It reports whether a job was
// claimed; job failures are recorded on the job, not returned.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.jobs.Claim(ctx)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	log := w.logger.With().Str("job_id", job.ID).Str("kind", string(job.Kind)).Logger()
	log.Info().Msg("worker: picked job")

	// Outcomes are persisted even when the worker is shutting down.
	persistCtx := context.WithoutCancel(ctx)

	result, err := w.process(ctx, job)
	if err != nil {
		code, msg := failure(err)
		log.Warn().Err(err).Str("code", code).Msg("worker: job failed")
		if ferr := w.jobs.Fail(persistCtx, job.ID, code, msg); ferr != nil {
			log.Error().Err(ferr).Msg("worker: record failure")
		}
		return true, nil
	}
	if cerr := w.jobs.Complete(persistCtx, job.ID, result); cerr != nil {
		log.Error().Err(cerr).Msg("worker: record result")
		return true, nil
	}
	log.Info().Msg("worker: job succeeded")
	return true, nil
}

func (w *Worker) process(ctx context.Context, job *domain.MintJob) (domain.MintResult, error) {
	switch job.Kind {
	case domain.JobKindNote:
		var note domain.Note
		if err := json.Unmarshal(job.Payload, &note); err != nil {
			return domain.MintResult{}, fmt.Errorf("decode note payload: %w", err)
		}
		cid, err := w.minter.MintFromNote(ctx, note)
		if err != nil {
			return domain.MintResult{}, err
		}
		return domain.MintResult{CID: cid, TokenURI: mint.TokenURI(cid)}, nil
	case domain.JobKindSocialNote:
		var note domain.SocialPostNote
		if err := json.Unmarshal(job.Payload, &note); err != nil {
			return domain.MintResult{}, fmt.Errorf("decode social note payload: %w", err)
		}
		id, err := w.minter.MintFromSocialNote(ctx, note)
		if err != nil {
			return domain.MintResult{}, err
		}
		return domain.MintResult{TokenID: id}, nil
	default:
		return domain.MintResult{}, fmt.Errorf("unsupported job kind %q", job.Kind)
	}
}

func failure(err error) (string, string) {
	if perr, ok := domain.AsError(err); ok {
		return perr.Code(), err.Error()
	}
	if errors.Is(err, mint.ErrNotConfigured) {
		return "not_configured", err.Error()
	}
	return "internal", err.Error()
}

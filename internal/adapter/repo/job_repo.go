package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"notemint/internal/domain"
	"notemint/internal/infra"
	"notemint/internal/sqlinline"
)

// Defaults for reclaiming jobs whose worker stopped mid-run. The lease must
// exceed the longest mint: four synthesis attempts plus both pin calls.
const (
	DefaultJobLease       = 15 * time.Minute
	DefaultJobMaxAttempts = 3
)

// JobRepositoryPG implements domain.JobRepository on the mint_jobs table.
type JobRepositoryPG struct {
	sql         infra.SQLExecutor
	lease       time.Duration
	maxAttempts int
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql, lease: DefaultJobLease, maxAttempts: DefaultJobMaxAttempts}
}

// WithLease sets how long a RUNNING job may go without an update before it is
// claimed again, and how many claims a job gets. Non-positive values keep the
// defaults.
func (r *JobRepositoryPG) WithLease(lease time.Duration, maxAttempts int) *JobRepositoryPG {
	if lease > 0 {
		r.lease = lease
	}
	if maxAttempts > 0 {
		r.maxAttempts = maxAttempts
	}
	return r
}

// Enqueue stores job as QUEUED and returns its identifier, generating one if
// job.ID is empty.
func (r *JobRepositoryPG) Enqueue(ctx context.Context, job *domain.MintJob) (string, error) {
	if job == nil {
		return "", errors.New("repo: job is required")
	}
	switch job.Kind {
	case domain.JobKindNote, domain.JobKindSocialNote:
	default:
		return "", fmt.Errorf("repo: unknown job kind %q", job.Kind)
	}
	if strings.TrimSpace(job.ID) == "" {
		job.ID = uuid.NewString()
	}
	var id string
	err := r.sql.QueryRow(ctx, sqlinline.QInsertMintJob,
		job.ID,
		string(job.Kind),
		[]byte(job.Payload),
		job.RequestedBy,
		job.Country,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("repo: enqueue mint job: %w", err)
	}
	job.Status = domain.JobStatusQueued
	return id, nil
}

// Claim moves the oldest claimable job to RUNNING: a queued job, or a RUNNING
// job whose lease expired with attempts left. Jobs that used up their attempts
// are failed with code lease_expired first. It returns nil, nil when nothing
// is claimable.
func (r *JobRepositoryPG) Claim(ctx context.Context) (*domain.MintJob, error) {
	leaseSecs := r.lease.Seconds()
	if _, err := r.sql.Exec(ctx, sqlinline.QExpireMintJobs, leaseSecs, r.maxAttempts); err != nil {
		return nil, fmt.Errorf("repo: expire mint jobs: %w", err)
	}
	var (
		job          domain.MintJob
		kind, status string
		payload      []byte
	)
	err := r.sql.QueryRow(ctx, sqlinline.QClaimMintJob, leaseSecs, r.maxAttempts).Scan(
		&job.ID,
		&kind,
		&status,
		&payload,
		&job.RequestedBy,
		&job.Country,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("repo: claim mint job: %w", err)
	}
	job.Kind = domain.JobKind(kind)
	job.Status = domain.JobStatus(status)
	job.Payload = payload
	return &job, nil
}

func (r *JobRepositoryPG) Complete(ctx context.Context, id string, result domain.MintResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("repo: encode result: %w", err)
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QCompleteMintJob, id, raw); err != nil {
		return fmt.Errorf("repo: complete mint job: %w", err)
	}
	return nil
}

func (r *JobRepositoryPG) Fail(ctx context.Context, id, code, message string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QFailMintJob, id, code, message); err != nil {
		return fmt.Errorf("repo: fail mint job: %w", err)
	}
	return nil
}

// Get fetches a job by its identifier.
func (r *JobRepositoryPG) Get(ctx context.Context, id string) (*domain.MintJob, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	var (
		job                  domain.MintJob
		kind, status         string
		payload, resultBytes []byte
	)
	err := r.sql.QueryRow(ctx, sqlinline.QSelectMintJob, id).Scan(
		&job.ID,
		&kind,
		&status,
		&payload,
		&resultBytes,
		&job.ErrorCode,
		&job.Error,
		&job.RequestedBy,
		&job.Country,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("repo: get mint job: %w", err)
	}
	job.Kind = domain.JobKind(kind)
	job.Status = domain.JobStatus(status)
	job.Payload = payload
	if len(resultBytes) > 0 && string(resultBytes) != "null" {
		job.Result = resultBytes
	}
	return &job, nil
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)

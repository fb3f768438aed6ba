package domain

import (
	"context"
	"encoding/json"
	"time"
)

// JobKind selects which orchestrator a queued mint job runs.
type JobKind string

const (
	JobKindNote       JobKind = "NOTE"
	JobKindSocialNote JobKind = "SOCIAL_NOTE"
)

// JobStatus enumerates mint job lifecycle states.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
)

// MintJob is an asynchronous mint request processed by the worker.
type MintJob struct {
	ID          string          `json:"id"`
	Kind        JobKind         `json:"kind"`
	Status      JobStatus       `json:"status"`
	Payload     json.RawMessage `json:"payload"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   string          `json:"error_code,omitempty"`
	Error       string          `json:"error,omitempty"`
	RequestedBy string          `json:"requested_by,omitempty"`
	Country     string          `json:"country,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MintResult is the terminal value of a mint job.
type MintResult struct {
	CID      string `json:"cid,omitempty"`
	TokenURI string `json:"token_uri,omitempty"`
	TokenID  uint64 `json:"token_id,omitempty"`
}

// JobRepository persists mint jobs.
type JobRepository interface {
	Enqueue(ctx context.Context, job *MintJob) (string, error)
	Claim(ctx context.Context) (*MintJob, error)
	Complete(ctx context.Context, id string, result MintResult) error
	Fail(ctx context.Context, id, code, message string) error
	Get(ctx context.Context, id string) (*MintJob, error)
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error classes. Every *Error belongs to exactly one class.
var (
	ErrValidation = errors.New("validation error")
	ErrGeneration = errors.New("generation error")
	ErrPublish    = errors.New("publish error")
	ErrStorage    = errors.New("storage error")
)

// Error kinds, refining a class.
var (
	ErrEmptyContent           = errors.New("empty content")
	ErrInvalidURL             = errors.New("invalid url")
	ErrNSFWExhausted          = errors.New("nsfw retries exhausted")
	ErrGenerationFailed       = errors.New("generation failed")
	ErrPinningFailed          = errors.New("pinning failed")
	ErrMetadataPinFailed      = errors.New("metadata pin failed")
	ErrObjectStoreReadFailed  = errors.New("object store read failed")
	ErrObjectStoreWriteFailed = errors.New("object store write failed")
	ErrMintInProgress         = errors.New("mint in progress")
	ErrLockUnavailable        = errors.New("mint lock unavailable")
)

// Publish stages.
const (
	StageImage    = "image"
	StageMetadata = "metadata"
)

// Error is the typed failure surfaced by every stage of the minting pipeline.
// errors.Is matches both its class and its kind.
type Error struct {
	Class error
	Kind  error
	Stage string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == e.Class || target == e.Kind
}

// Code returns a stable snake_case identifier for the error kind.
func (e *Error) Code() string {
	switch e.Kind {
	case ErrEmptyContent:
		return "empty_content"
	case ErrInvalidURL:
		return "invalid_url"
	case ErrNSFWExhausted:
		return "nsfw_exhausted"
	case ErrGenerationFailed:
		return "generation_failed"
	case ErrPinningFailed:
		return "pinning_failed"
	case ErrMetadataPinFailed:
		return "metadata_pin_failed"
	case ErrObjectStoreReadFailed:
		return "object_store_read_failed"
	case ErrObjectStoreWriteFailed:
		return "object_store_write_failed"
	case ErrMintInProgress:
		return "mint_in_progress"
	case ErrLockUnavailable:
		return "mint_lock_unavailable"
	default:
		return "internal"
	}
}

func NewValidationError(kind error, msg string) *Error {
	return &Error{Class: ErrValidation, Kind: kind, Msg: msg}
}

func NewGenerationError(kind error, err error) *Error {
	return &Error{Class: ErrGeneration, Kind: kind, Msg: "generate image", Err: err}
}

// NewPublishError records which publish stage failed; the stage is part of the message.
func NewPublishError(kind error, stage string, err error) *Error {
	return &Error{Class: ErrPublish, Kind: kind, Stage: stage, Msg: "publish " + stage, Err: err}
}

func NewStorageError(kind error, msg string, err error) *Error {
	return &Error{Class: ErrStorage, Kind: kind, Msg: msg, Err: err}
}

// AsError extracts the pipeline error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

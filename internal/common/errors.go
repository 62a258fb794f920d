// Package common defines shared constants and sentinel errors used across
// the layers of attachd. Callers should use errors.Is to match the sentinel
// values and errors.As for the typed errors.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Lifecycle errors.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)

// AttachmentError reports an unrecoverable attachment-processing failure.
// It is surfaced to the caller unchanged and never retried at this layer.
type AttachmentError struct {
	Op  string
	Err error
}

func (e *AttachmentError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("attachment: %s", e.Op)
	}
	return fmt.Sprintf("attachment: %s: %v", e.Op, e.Err)
}

func (e *AttachmentError) Unwrap() error { return e.Err }

// ThumbnailError reports a failure while decoding, resizing or encoding an
// image variant. Like AttachmentError it is not retried.
type ThumbnailError struct {
	Name string
	Err  error
}

func (e *ThumbnailError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("thumbnail: %v", e.Err)
	}
	return fmt.Sprintf("thumbnail %q: %v", e.Name, e.Err)
}

func (e *ThumbnailError) Unwrap() error { return e.Err }

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("already exists")
	ErrInvalidPath     = errors.New("invalid path")
	ErrNoActivePoll    = errors.New("no active poll")
	ErrInvalidQuestion = errors.New("invalid question")
	ErrInvalidAnswer   = errors.New("invalid answer")
	ErrPollNotActive   = errors.New("poll is not active")
)

// ValidationError reports malformed caller input. It is raised before any
// storage mutation and its message is safe to show to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError is a shorthand for building a *ValidationError.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps an I/O or decoding failure with the context needed to
// trace it back to an owner and poll.
type StorageError struct {
	Op     string
	Owner  string
	PollID string
	Err    error
}

func (e *StorageError) Error() string {
	msg := "storage " + e.Op
	if e.Owner != "" {
		msg += " owner=" + e.Owner
	}
	if e.PollID != "" {
		msg += " poll=" + e.PollID
	}
	return msg + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

package domain

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when a record ID is already taken, which
	// happens when two analyses are archived within the same second.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrInvalidInput is returned when caller-supplied input is rejected.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientHistory is returned when a trend needs more records.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrSinkNotConfigured is returned when an export runs without a sink.
	ErrSinkNotConfigured = errors.New("report sink not configured")
)

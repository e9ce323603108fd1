// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrEmptyTaskID is returned when a task has no identifier.
	ErrEmptyTaskID = errors.New("task ID cannot be empty")

	// ErrInvalidTaskName is returned when a task name is not part of the sequence.
	ErrInvalidTaskName = errors.New("invalid task name")

	// ErrEmptyTaskDescription is returned when a task has no prompt.
	ErrEmptyTaskDescription = errors.New("task description cannot be empty")

	// ErrEmptyTaskAnswer is returned when a task has no canonical answer.
	ErrEmptyTaskAnswer = errors.New("task answer cannot be empty")

	// ErrMissingExpiry is returned when a task has no expiry timestamp.
	ErrMissingExpiry = errors.New("task expiry cannot be zero")

	// ErrInvalidParameters is returned when task parameters cannot be
	// encoded or decoded.
	ErrInvalidParameters = errors.New("invalid task parameters")
)

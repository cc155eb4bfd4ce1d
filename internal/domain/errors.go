package domain

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTerminalJob is returned when mutating a COMPLETED or FAILED job.
	ErrTerminalJob = errors.New("job is in a terminal state")

	// ErrInvalidTransition is returned for status changes outside the job transition graph.
	ErrInvalidTransition = errors.New("invalid job status transition")
)

package repository

import "errors"

var (
	// ErrTaskNotFound is returned when a task id has never been issued or the
	// store has no entry for it.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskExists is returned when Create is called with an id that is
	// already live. Ids are random, so hitting this indicates a caller bug.
	ErrTaskExists = errors.New("task already exists")

	// ErrMissingCredential marks a configuration failure: an external API key
	// required by a stage is not set. It is raised before any network call.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrCaptureTimeout marks a bounded wait that expired during the
	// screenshot stage.
	ErrCaptureTimeout = errors.New("page load timed out")
)

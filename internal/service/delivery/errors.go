package delivery

import "errors"

// Service-level errors. The API layer maps these onto HTTP statuses.
var (
	// ErrNoContentAvailable means nothing is due and no new content could
	// be produced for the user right now.
	ErrNoContentAvailable = errors.New("no content available")

	// ErrInvalidAction means the reported action is not one of the
	// recognized actions.
	ErrInvalidAction = errors.New("invalid reported action")

	// ErrNoSubjects means the user has no subjects configured, so new
	// content cannot be generated for them.
	ErrNoSubjects = errors.New("user has no subjects configured")
)

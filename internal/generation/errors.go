package generation

import "errors"

// Common errors returned by the generation package and its pipelines.
var (
	// ErrGenerationFailed is returned when candidate generation fails for
	// any general reason after all pipelines have been tried.
	ErrGenerationFailed = errors.New("failed to generate candidate terms")

	// ErrInvalidResponse is returned when a pipeline response cannot be
	// parsed or is malformed.
	ErrInvalidResponse = errors.New("invalid response from generation pipeline")

	// ErrContentBlocked is returned when the model blocks the content due
	// to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry.
	ErrTransientFailure = errors.New("transient error during term generation")

	// ErrInvalidConfig is returned when a pipeline configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generation configuration")
)

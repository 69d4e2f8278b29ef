package api

import (
	"errors"
	"net/http"

	"github.com/wordflow/wordflow-api/internal/api/shared"
	"github.com/wordflow/wordflow-api/internal/service/auth"
	"github.com/wordflow/wordflow-api/internal/service/delivery"
	"github.com/wordflow/wordflow-api/internal/service/quota"
	"github.com/wordflow/wordflow-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error types
// or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Quota enforcement
	case errors.Is(err, quota.ErrQuotaExceeded):
		return http.StatusTooManyRequests

	// Not found errors. An empty pipeline result is a 404 on the delivery
	// resource, not a server failure.
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTermNotFound),
		errors.Is(err, store.ErrDeliveryNotFound),
		errors.Is(err, store.ErrLearningItemNotFound),
		errors.Is(err, store.ErrSubjectNotFound),
		errors.Is(err, delivery.ErrNoContentAvailable):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrUpdateFailed):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, delivery.ErrInvalidAction),
		errors.Is(err, delivery.ErrNoSubjects):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Refresh token expired, please log in again"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, quota.ErrQuotaExceeded):
		return "Generation quota exceeded"

	case errors.Is(err, delivery.ErrNoContentAvailable):
		return "No content available right now"

	case errors.Is(err, delivery.ErrNoSubjects):
		return "No subjects configured"

	case errors.Is(err, delivery.ErrInvalidAction):
		return "Unrecognized action"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrDeliveryNotFound):
		return "Delivery not found"

	case errors.Is(err, store.ErrTermNotFound):
		return "Term not found"

	case errors.Is(err, store.ErrLearningItemNotFound):
		return "Learning item not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrUpdateFailed):
		return "The item changed while processing the report, please retry"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// RespondWithMappedError is the one-stop error responder for handlers: it
// maps the error to a status code and a safe message, then writes the
// response and logs the details.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	// 429 responses carry a Retry-After hint when the quota error knows
	// its reset time.
	var exceeded *quota.ExceededError
	if errors.As(err, &exceeded) && !exceeded.NextReset.IsZero() {
		w.Header().Set("Retry-After", exceeded.NextReset.UTC().Format(http.TimeFormat))
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}

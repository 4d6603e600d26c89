package api

import (
	"errors"
	"net/http"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/scheduler"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/service/review_session"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Client-correctable session errors
	case errors.Is(err, review_session.ErrInvalidSession),
		errors.Is(err, store.ErrSessionNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, review_session.ErrInvalidGrade):
		return http.StatusBadRequest

	// Infrastructure trouble upstream of this service
	case errors.Is(err, scheduler.ErrSchedulerUnavailable),
		errors.Is(err, scheduler.ErrSchedulerError):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, review_session.ErrInvalidSession),
		errors.Is(err, store.ErrSessionNotFound):
		return "Invalid session"

	case errors.Is(err, review_session.ErrInvalidGrade):
		return "Invalid grade"

	case errors.Is(err, scheduler.ErrSchedulerUnavailable),
		errors.Is(err, scheduler.ErrSchedulerError):
		return "Scheduler unavailable"

	default:
		return "An unexpected error occurred"
	}
}

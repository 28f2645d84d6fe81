package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-recommender/internal/pipeline"
	"github.com/jonathan/assessment-recommender/internal/recommend"
)

// ErrUnauthorized indicates a missing or invalid admin credential.
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "invalid or missing credentials"
}

// ErrSessionNotFound indicates the requested session does not exist.
type ErrSessionNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var retrievalErr *recommend.RetrievalError
	if errors.As(err, &retrievalErr) {
		return http.StatusServiceUnavailable
	}
	var queryErr *pipeline.QueryError
	if errors.As(err, &queryErr) {
		return http.StatusBadRequest
	}

	switch err.(type) {
	case *ErrUnauthorized:
		return http.StatusUnauthorized
	case *ErrSessionNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/trade-connect/internal/assistant"
	"github.com/jonathan/trade-connect/internal/auth"
	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/form"
	"github.com/jonathan/trade-connect/internal/match"
	"github.com/jonathan/trade-connect/internal/server/middleware"
	"github.com/jonathan/trade-connect/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrForbidden indicates an action the caller's role may not perform.
type ErrForbidden struct {
	Action string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("not allowed to %s", e.Action)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		exists     *auth.ErrEmailAlreadyExists
		creds      *auth.ErrInvalidCredentials
		badToken   *auth.ErrInvalidToken
		expired    *auth.ErrSessionExpired
		noUser     *auth.ErrUserNotFound
		formErr    *form.ValidationError
		criteria   *match.CriteriaError
		invalid    *ErrValidation
		forbidden  *ErrForbidden
		fieldsErrs validator.ValidationErrors
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, form.ErrSubmitInProgress):
		return http.StatusConflict
	case errors.As(err, &formErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &exists), errors.Is(err, db.ErrDuplicate):
		return http.StatusConflict
	case errors.As(err, &creds), errors.As(err, &badToken), errors.As(err, &expired),
		errors.Is(err, middleware.ErrNoPrincipal):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &noUser), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &criteria), errors.As(err, &fieldsErrs),
		errors.Is(err, assistant.ErrEmptyMessage), errors.Is(err, assistant.ErrMessageTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err onto a response. Form validation failures carry the
// per-field messages; server faults are logged and reported generically.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var formErr *form.ValidationError
	if errors.As(err, &formErr) {
		s.jsonResponse(w, http.StatusUnprocessableEntity, types.FormErrorResponse{Errors: formErr.Errors})
		return
	}

	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}

	var submitErr *form.SubmitError
	if errors.As(err, &submitErr) {
		err = submitErr.Err
	}
	s.errorResponse(w, status, err.Error())
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/todoapp/todo-api/internal/service"
	"github.com/todoapp/todo-api/internal/validation"
)

const (
	codeValidation       = "VALIDATION"
	codeConflict         = "CONFLICT"
	codeUnauthorized     = "UNAUTHORIZED"
	codeForbidden        = "FORBIDDEN"
	codeNotFound         = "NOT_FOUND"
	codeCapacityExceeded = "CAPACITY_EXCEEDED"
	codeTagInUse         = "TAG_IN_USE"
	codeInternal         = "INTERNAL"
)

var badRequestErrors = []error{
	service.ErrInvalidEmail,
	service.ErrWeakPassword,
	service.ErrTitleRequired,
	service.ErrInvalidStatus,
	service.ErrInvalidPriority,
	service.ErrInvalidDueDate,
	service.ErrTagNameRequired,
}

// writeError maps a service error to its status and code. Anything it does
// not recognise is logged and reported as "failed to <action>".
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "validation failed",
			Code:    codeValidation,
			Details: verr.Fields,
		})
		return
	}

	var inUse *service.TagInUseError
	if errors.As(err, &inUse) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: service.ErrTagInUse.Error(),
			Code:  codeTagInUse,
			Count: inUse.Count,
		})
		return
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			writeJSON(w, http.StatusBadRequest, errorResponse(codeValidation, err.Error()))
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrTodoLimitReached):
		writeJSON(w, http.StatusBadRequest, errorResponse(codeCapacityExceeded, err.Error()))
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrTagExists):
		writeJSON(w, http.StatusConflict, errorResponse(codeConflict, err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse(codeUnauthorized, err.Error()))
	case errors.Is(err, service.ErrUserNotFound):
		// the session outlived its user row
		writeJSON(w, http.StatusUnauthorized, errorResponse(codeUnauthorized, "authentication required"))
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse(codeForbidden, err.Error()))
	case errors.Is(err, service.ErrTodoNotFound),
		errors.Is(err, service.ErrTagNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(codeNotFound, err.Error()))
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"action", action,
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse(codeInternal, "failed to "+action))
	}
}

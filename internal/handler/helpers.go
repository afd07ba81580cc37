package handler

import (
	"errors"
	"net/http"

	"stash/internal/domain"
	"stash/internal/httputil"
)

// handleError converts domain errors to HTTP responses. This is the only
// place core error kinds become status codes; the core itself never
// decides user-facing representation.
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidParent):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOwnerMismatch):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		// absent and foreign entities arrive here as the same error, so
		// the response cannot distinguish them either
		httputil.RespondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrProtected):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stash/internal/domain"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation",
			err:        fmt.Errorf("%w: bad name", domain.ErrValidation),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid parent",
			err:        fmt.Errorf("cycle: %w", domain.ErrInvalidParent),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "owner mismatch",
			err:        domain.ErrOwnerMismatch,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not found",
			err:        domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "protected root",
			err:        fmt.Errorf("root folder: %w", domain.ErrProtected),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unauthorized",
			err:        domain.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "conflict",
			err:        &domain.ConflictError{Message: "duplicate"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unclassified",
			err:        errors.New("database exploded"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("content type = %q, want application/problem+json", ct)
			}
		})
	}
}

func TestHandleErrorDoesNotLeakInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, errors.New("pq: connection refused at 10.0.0.5"))

	if got := rec.Body.String(); strings.Contains(got, "10.0.0.5") || strings.Contains(got, "pq:") {
		t.Errorf("response leaked internal error detail: %s", got)
	}
}

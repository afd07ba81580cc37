package handler

import (
	"log/slog"
	"net/http"
	"time"

	"stash/internal/blob"
	"stash/internal/domain/services"
	"stash/internal/httputil"
)

// downloadURLExpiry bounds how long a presigned download link stays valid.
const downloadURLExpiry = 15 * time.Minute

// FileHandler handles file HTTP requests
type FileHandler struct {
	drive  services.DriveService
	blobs  blob.Store
	logger *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(drive services.DriveService, blobs blob.Store, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		drive:  drive,
		blobs:  blobs,
		logger: logger,
	}
}

// CreateFile creates a file record, optionally attached to a folder
// POST /api/files
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	principal := httputil.GetPrincipal(r)

	var req services.CreateFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, err := h.drive.CreateFile(r.Context(), principal, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// GetFile retrieves a file by public id
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	principal := httputil.GetPrincipal(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file id is required")
		return
	}

	file, err := h.drive.ResolveFile(r.Context(), principal, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// DeleteFile deletes a file record and best-effort removes its payload
// DELETE /api/files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	principal := httputil.GetPrincipal(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file id is required")
		return
	}

	file, err := h.drive.DeleteFile(r.Context(), principal, id)
	if err != nil {
		handleError(w, err)
		return
	}

	// The record is gone either way; an orphaned payload is recoverable
	// garbage, a dangling record is not.
	if h.blobs != nil && file.ContentRef != nil {
		if err := h.blobs.Delete(r.Context(), *file.ContentRef); err != nil {
			h.logger.Warn("failed to delete file payload",
				"file_id", file.ID,
				"error", err,
			)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListUnfiledFiles lists the caller's files attached to no folder
// GET /api/files/unfiled
func (h *FileHandler) ListUnfiledFiles(w http.ResponseWriter, r *http.Request) {
	principal := httputil.GetPrincipal(r)

	files, err := h.drive.ListUnfiledFiles(r.Context(), principal)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, files)
}

// DownloadFile returns a time-limited URL for the file's payload
// GET /api/files/{id}/download
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	principal := httputil.GetPrincipal(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file id is required")
		return
	}

	file, err := h.drive.ResolveFile(r.Context(), principal, id)
	if err != nil {
		handleError(w, err)
		return
	}

	if file.ContentRef == nil {
		httputil.RespondError(w, http.StatusNotFound, "file has no content")
		return
	}

	if h.blobs == nil {
		httputil.RespondError(w, http.StatusNotImplemented, "blob storage is not configured")
		return
	}

	url, err := h.blobs.PresignedGetURL(r.Context(), *file.ContentRef, downloadURLExpiry)
	if err != nil {
		h.logger.Error("failed to presign download URL",
			"file_id", file.ID,
			"error", err,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"url":        url,
		"expires_in": int(downloadURLExpiry.Seconds()),
	})
}

package handler

import (
	"log/slog"
	"net/http"

	"stash/internal/domain/services"
	"stash/internal/httputil"
)

// TreeHandler serves folder tree views
type TreeHandler struct {
	tree   services.TreeService
	logger *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(tree services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		tree:   tree,
		logger: logger,
	}
}

// GetTree returns a folder with one level of subfolder summaries and its
// files; "default" resolves to the caller's root.
// GET /api/folders/{id}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	principal := httputil.GetPrincipal(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder id is required")
		return
	}

	node, err := h.tree.FolderTree(r.Context(), principal, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

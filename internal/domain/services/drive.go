package services

import (
	"context"

	"stash/internal/domain/models"
	"stash/internal/httputil"
)

// DefaultFolderToken is the identifier literal that resolves to the
// calling principal's own root folder.
const DefaultFolderToken = "default"

// DriveService is the access-scoped gateway to a principal's folders and
// files. Every operation takes the authenticated principal and restricts
// all reads and writes to entities that principal owns - no crafted
// identifier can observe or mutate another user's entities, and the
// failure for foreign entities is the same NotFound as for absent ones.
type DriveService interface {
	// ResolveFolder resolves an identifier token to an owned folder.
	// The literal "default" resolves to the principal's root.
	ResolveFolder(ctx context.Context, principal, idToken string) (*models.Folder, error)

	// ResolveFile resolves an identifier token to an owned file.
	ResolveFile(ctx context.Context, principal, idToken string) (*models.File, error)

	// CreateFolder creates a folder for the principal. The parent, if
	// given, must resolve under the principal; the owner is always the
	// principal regardless of request content.
	CreateFolder(ctx context.Context, principal string, req *CreateFolderRequest) (*models.Folder, error)

	// CreateFile creates a file for the principal, optionally attached
	// to one of the principal's folders.
	CreateFile(ctx context.Context, principal string, req *CreateFileRequest) (*models.File, error)

	// UpdateFolder renames and/or moves one of the principal's folders.
	UpdateFolder(ctx context.Context, principal, idToken string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes one of the principal's folders with the full
	// cascade/detach semantics. Root folders are protected.
	DeleteFolder(ctx context.Context, principal, idToken string) error

	// DeleteFile deletes one of the principal's files and returns the
	// deleted record so callers can dispose of its content reference.
	DeleteFile(ctx context.Context, principal, idToken string) (*models.File, error)

	// ListFolders lists every folder the principal owns, created_at
	// ascending.
	ListFolders(ctx context.Context, principal string) ([]models.Folder, error)

	// ListUnfiledFiles lists the principal's files that are attached to
	// no folder.
	ListUnfiledFiles(ctx context.Context, principal string) ([]models.File, error)
}

// TreeService serializes an owned folder into its tree representation.
type TreeService interface {
	// FolderTree resolves the identifier under the principal and returns
	// the folder with one level of subfolder summaries and its files.
	FolderTree(ctx context.Context, principal, idToken string) (*models.TreeNode, error)
}

// CreateFolderRequest represents a folder creation request. There is no
// owner field on purpose: the owner is always the authenticated principal.
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // public id or "default"; nil = under root
}

// CreateFileRequest represents a file creation request.
type CreateFileRequest struct {
	Name       string  `json:"name"`
	FolderID   *string `json:"folder_id,omitempty"` // public id or "default"; nil = unfiled
	ContentRef *string `json:"content_ref,omitempty"`
}

// UpdateFolderRequest represents a folder rename/move request.
// ParentID is tri-state: absent = keep, null = move under the root,
// value = move under that folder.
type UpdateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

package repositories

import (
	"context"

	"github.com/google/uuid"

	"stash/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
//
// Read operations that take an ownerID scope the query to that owner:
// an entity owned by someone else is reported as domain.ErrNotFound,
// identical to a genuinely absent one.
type FolderRepository interface {
	// Create inserts a new folder and fills in Key, ID and CreatedAt.
	// Returns domain.ErrInvalidParent if the referenced parent belongs
	// to a different owner.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByPublicID retrieves a folder by public id, scoped to the owner.
	GetByPublicID(ctx context.Context, publicID uuid.UUID, ownerID string) (*models.Folder, error)

	// GetRoot retrieves the owner's single root folder.
	GetRoot(ctx context.Context, ownerID string) (*models.Folder, error)

	// CreateRoot creates the owner's root folder. Safe under concurrent
	// duplicate calls: if a root already exists the existing one is
	// returned with no error.
	CreateRoot(ctx context.Context, ownerID string) (*models.Folder, error)

	// Update persists name/parent changes. Other fields are immutable.
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes the folder, every descendant folder, and detaches
	// (does not delete) files directly inside any removed folder.
	// Deleting an absent key is a no-op success. Deleting a root folder
	// fails with domain.ErrProtected.
	Delete(ctx context.Context, key int64) error

	// ListChildren lists immediate child folders ordered by created_at
	// ascending, ties broken by internal key ascending.
	ListChildren(ctx context.Context, parentKey int64) ([]models.Folder, error)

	// ListByOwner lists every folder the owner has, created_at ascending.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)
}

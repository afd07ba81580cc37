package repositories

import (
	"context"

	"github.com/google/uuid"

	"stash/internal/domain/models"
)

// FileRepository defines data access operations for files.
type FileRepository interface {
	// Create inserts a new file and fills in Key, ID and CreatedAt.
	// Returns domain.ErrOwnerMismatch if the referenced folder belongs
	// to a different owner than file.OwnerID.
	Create(ctx context.Context, file *models.File) error

	// GetByPublicID retrieves a file by public id, scoped to the owner.
	GetByPublicID(ctx context.Context, publicID uuid.UUID, ownerID string) (*models.File, error)

	// Delete removes the file record. Deleting an absent key is a no-op
	// success.
	Delete(ctx context.Context, key int64) error

	// ListByFolder lists the files directly inside a folder ordered by
	// created_at ascending, ties broken by internal key ascending.
	ListByFolder(ctx context.Context, folderKey int64) ([]models.File, error)

	// ListUnfiled lists the owner's files with no folder, same ordering.
	ListUnfiled(ctx context.Context, ownerID string) ([]models.File, error)
}

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stash/internal/domain"
	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface.
//
// Relational integrity lives in the schema: folders.parent_id cascades
// deletes to descendants and files.folder_id nullifies on folder delete,
// so a single DELETE inside a transaction gives the whole cascade/detach
// atomically. Single-root-per-owner is a partial unique index on
// (owner_id) WHERE parent_id IS NULL.
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// folderColumns selects a folder joined with its parent's public id.
const folderColumns = `
	f.id, f.public_id, f.name, f.parent_id, p.public_id, f.owner_id, f.created_at
`

func scanFolder(row pgx.Row, folder *models.Folder) error {
	return row.Scan(
		&folder.Key,
		&folder.ID,
		&folder.Name,
		&folder.ParentKey,
		&folder.ParentID,
		&folder.OwnerID,
		&folder.CreatedAt,
	)
}

// Create inserts a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	q := GetExecutor(ctx, r.pool)

	// Owner propagation is enforced at write time, not left to the
	// foreign key: a parent owned by someone else is an invalid parent.
	if folder.ParentKey != nil {
		var parentOwner string
		var parentPublicID uuid.UUID
		err := q.QueryRow(ctx,
			`SELECT owner_id, public_id FROM folders WHERE id = $1`,
			*folder.ParentKey,
		).Scan(&parentOwner, &parentPublicID)
		if err != nil {
			if IsPgNoRowsError(err) {
				return fmt.Errorf("parent folder: %w", domain.ErrInvalidParent)
			}
			return fmt.Errorf("check parent folder: %w", err)
		}
		if parentOwner != folder.OwnerID {
			return fmt.Errorf("parent folder owned by another user: %w", domain.ErrInvalidParent)
		}
		folder.ParentID = &parentPublicID
	}

	folder.ID = uuid.New()

	err := q.QueryRow(ctx, `
		INSERT INTO folders (public_id, name, parent_id, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, folder.ID, folder.Name, folder.ParentKey, folder.OwnerID).Scan(&folder.Key, &folder.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("folder %q: %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByPublicID retrieves a folder by public id, scoped to the owner.
// Foreign and absent entities produce the same ErrNotFound.
func (r *PostgresFolderRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID, ownerID string) (*models.Folder, error) {
	q := GetExecutor(ctx, r.pool)

	var folder models.Folder
	err := scanFolder(q.QueryRow(ctx, `
		SELECT `+folderColumns+`
		FROM folders f
		LEFT JOIN folders p ON p.id = f.parent_id
		WHERE f.public_id = $1 AND f.owner_id = $2
	`, publicID, ownerID), &folder)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", publicID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// GetRoot retrieves the owner's single root folder
func (r *PostgresFolderRepository) GetRoot(ctx context.Context, ownerID string) (*models.Folder, error) {
	q := GetExecutor(ctx, r.pool)

	var folder models.Folder
	err := scanFolder(q.QueryRow(ctx, `
		SELECT `+folderColumns+`
		FROM folders f
		LEFT JOIN folders p ON p.id = f.parent_id
		WHERE f.owner_id = $1 AND f.parent_id IS NULL
	`, ownerID), &folder)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("root folder for owner: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get root folder: %w", err)
	}

	return &folder, nil
}

// CreateRoot creates the owner's root folder. Concurrent duplicate calls
// race on the partial unique index; the loser returns the winner's root
// with no error.
func (r *PostgresFolderRepository) CreateRoot(ctx context.Context, ownerID string) (*models.Folder, error) {
	q := GetExecutor(ctx, r.pool)

	folder := &models.Folder{
		ID:      uuid.New(),
		Name:    models.RootFolderName,
		OwnerID: ownerID,
	}

	err := q.QueryRow(ctx, `
		INSERT INTO folders (public_id, name, parent_id, owner_id)
		VALUES ($1, $2, NULL, $3)
		RETURNING id, created_at
	`, folder.ID, folder.Name, folder.OwnerID).Scan(&folder.Key, &folder.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			r.logger.Debug("root folder already exists", "owner_id", ownerID)
			return r.GetRoot(ctx, ownerID)
		}
		return nil, fmt.Errorf("create root folder: %w", err)
	}

	return folder, nil
}

// Update persists name/parent changes for a folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	q := GetExecutor(ctx, r.pool)

	result, err := q.Exec(ctx, `
		UPDATE folders
		SET name = $1, parent_id = $2
		WHERE id = $3
	`, folder.Name, folder.ParentKey, folder.Key)

	if err != nil {
		if IsPgDuplicateError(err) {
			// parent_id set to NULL would collide with the owner's root
			return fmt.Errorf("folder %q: %w", folder.Name, domain.ErrInvalidParent)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a folder and cascades per the schema: descendant folders
// go with it, files directly inside any removed folder are detached
// (folder_id set NULL), all in the surrounding transaction. Absent keys
// are a no-op success; root folders are protected.
func (r *PostgresFolderRepository) Delete(ctx context.Context, key int64) error {
	q := GetExecutor(ctx, r.pool)

	var parentKey *int64
	err := q.QueryRow(ctx,
		`SELECT parent_id FROM folders WHERE id = $1 FOR UPDATE`,
		key,
	).Scan(&parentKey)
	if err != nil {
		if IsPgNoRowsError(err) {
			// already gone; duplicate deletes are documented no-ops
			return nil
		}
		return fmt.Errorf("lock folder for delete: %w", err)
	}

	if parentKey == nil {
		return fmt.Errorf("root folder: %w", domain.ErrProtected)
	}

	if _, err := q.Exec(ctx, `DELETE FROM folders WHERE id = $1`, key); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	return nil
}

// ListChildren lists immediate child folders, created_at ascending with
// internal key as the deterministic tiebreak.
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentKey int64) ([]models.Folder, error) {
	q := GetExecutor(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT `+folderColumns+`
		FROM folders f
		LEFT JOIN folders p ON p.id = f.parent_id
		WHERE f.parent_id = $1
		ORDER BY f.created_at ASC, f.id ASC
	`, parentKey)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	return collectFolders(rows)
}

// ListByOwner lists every folder the owner has, created_at ascending
func (r *PostgresFolderRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	q := GetExecutor(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT `+folderColumns+`
		FROM folders f
		LEFT JOIN folders p ON p.id = f.parent_id
		WHERE f.owner_id = $1
		ORDER BY f.created_at ASC, f.id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list folders by owner: %w", err)
	}
	defer rows.Close()

	return collectFolders(rows)
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := scanFolder(rows, &folder); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

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

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

const fileColumns = `
	fi.id, fi.public_id, fi.name, fi.content_ref, fi.folder_id, fo.public_id, fi.owner_id, fi.created_at
`

func scanFile(row pgx.Row, file *models.File) error {
	return row.Scan(
		&file.Key,
		&file.ID,
		&file.Name,
		&file.ContentRef,
		&file.FolderKey,
		&file.FolderID,
		&file.OwnerID,
		&file.CreatedAt,
	)
}

// Create inserts a new file. The folder/file owner equality invariant is
// checked here at write time rather than trusted to foreign-key typing.
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	q := GetExecutor(ctx, r.pool)

	if file.FolderKey != nil {
		var folderOwner string
		var folderPublicID uuid.UUID
		err := q.QueryRow(ctx,
			`SELECT owner_id, public_id FROM folders WHERE id = $1`,
			*file.FolderKey,
		).Scan(&folderOwner, &folderPublicID)
		if err != nil {
			if IsPgNoRowsError(err) {
				return fmt.Errorf("folder for file: %w", domain.ErrOwnerMismatch)
			}
			return fmt.Errorf("check folder for file: %w", err)
		}
		if folderOwner != file.OwnerID {
			return fmt.Errorf("folder owned by another user: %w", domain.ErrOwnerMismatch)
		}
		file.FolderID = &folderPublicID
	}

	file.ID = uuid.New()

	err := q.QueryRow(ctx, `
		INSERT INTO files (public_id, name, content_ref, folder_id, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, file.ID, file.Name, file.ContentRef, file.FolderKey, file.OwnerID).Scan(&file.Key, &file.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("file %q: %w", file.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByPublicID retrieves a file by public id, scoped to the owner
func (r *PostgresFileRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID, ownerID string) (*models.File, error) {
	q := GetExecutor(ctx, r.pool)

	var file models.File
	err := scanFile(q.QueryRow(ctx, `
		SELECT `+fileColumns+`
		FROM files fi
		LEFT JOIN folders fo ON fo.id = fi.folder_id
		WHERE fi.public_id = $1 AND fi.owner_id = $2
	`, publicID, ownerID), &file)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", publicID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// Delete removes a file record. Absent keys are a no-op success.
func (r *PostgresFileRepository) Delete(ctx context.Context, key int64) error {
	q := GetExecutor(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM files WHERE id = $1`, key); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	return nil
}

// ListByFolder lists files directly inside a folder, created_at ascending
// with internal key as the deterministic tiebreak.
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderKey int64) ([]models.File, error) {
	q := GetExecutor(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT `+fileColumns+`
		FROM files fi
		LEFT JOIN folders fo ON fo.id = fi.folder_id
		WHERE fi.folder_id = $1
		ORDER BY fi.created_at ASC, fi.id ASC
	`, folderKey)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

// ListUnfiled lists the owner's files with no folder
func (r *PostgresFileRepository) ListUnfiled(ctx context.Context, ownerID string) ([]models.File, error) {
	q := GetExecutor(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT `+fileColumns+`
		FROM files fi
		LEFT JOIN folders fo ON fo.id = fi.folder_id
		WHERE fi.owner_id = $1 AND fi.folder_id IS NULL
		ORDER BY fi.created_at ASC, fi.id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list unfiled files: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

func collectFiles(rows pgx.Rows) ([]models.File, error) {
	var files []models.File
	for rows.Next() {
		var file models.File
		if err := scanFile(rows, &file); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

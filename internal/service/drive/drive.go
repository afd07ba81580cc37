// Package drive implements the access-scoped gateway to a user's storage
// tree. Ownership is enforced in exactly one place - here - so a new
// operation cannot forget it: every lookup is scoped to the principal and
// every write forces the principal as owner.
package drive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"stash/internal/domain"
	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
	"stash/internal/domain/services"
)

type driveService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewDriveService creates a new drive service
func NewDriveService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DriveService {
	return &driveService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// ResolveFolder resolves an identifier token to one of the principal's
// folders. "default" is the principal's root; anything else must be a
// well-formed public id owned by the principal. Foreign and absent ids
// fail identically with ErrNotFound.
func (s *driveService) ResolveFolder(ctx context.Context, principal, idToken string) (*models.Folder, error) {
	if idToken == services.DefaultFolderToken {
		return s.folderRepo.GetRoot(ctx, principal)
	}

	publicID, err := uuid.Parse(idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed folder id %q", domain.ErrValidation, idToken)
	}

	return s.folderRepo.GetByPublicID(ctx, publicID, principal)
}

// ResolveFile resolves an identifier token to one of the principal's files.
func (s *driveService) ResolveFile(ctx context.Context, principal, idToken string) (*models.File, error) {
	publicID, err := uuid.Parse(idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed file id %q", domain.ErrValidation, idToken)
	}

	return s.fileRepo.GetByPublicID(ctx, publicID, principal)
}

// CreateFolder creates a folder for the principal. A missing parent means
// "under the root": the root is the only folder without a parent, by
// invariant, so every user-created folder hangs off the tree somewhere.
func (s *driveService) CreateFolder(ctx context.Context, principal string, req *services.CreateFolderRequest) (*models.Folder, error) {
	// Trim before validating so a whitespace-only name cannot pass
	// Required and land in storage as the empty string.
	req.Name = strings.TrimSpace(req.Name)
	if err := validateCreateFolderRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	parentToken := services.DefaultFolderToken
	if req.ParentID != nil && *req.ParentID != "" {
		parentToken = *req.ParentID
	}

	parent, err := s.ResolveFolder(ctx, principal, parentToken)
	if err != nil {
		return nil, err
	}

	// Owner comes from the authenticated principal, never from input.
	folder := &models.Folder{
		Name:      req.Name,
		ParentKey: &parent.Key,
		OwnerID:   principal,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"folder_id", folder.ID,
		"name", folder.Name,
		"parent_id", parent.ID,
		"owner_id", principal,
	)

	return folder, nil
}

// CreateFile creates a file for the principal. A missing folder id leaves
// the file unfiled.
func (s *driveService) CreateFile(ctx context.Context, principal string, req *services.CreateFileRequest) (*models.File, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateCreateFileRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var folderKey *int64
	if req.FolderID != nil && *req.FolderID != "" {
		folder, err := s.ResolveFolder(ctx, principal, *req.FolderID)
		if err != nil {
			return nil, err
		}
		folderKey = &folder.Key
	}

	file := &models.File{
		Name:       req.Name,
		ContentRef: req.ContentRef,
		FolderKey:  folderKey,
		OwnerID:    principal,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file created",
		"file_id", file.ID,
		"name", file.Name,
		"owner_id", principal,
	)

	return file, nil
}

// UpdateFolder renames and/or moves one of the principal's folders. The
// root is immutable: it anchors the single-root invariant.
func (s *driveService) UpdateFolder(ctx context.Context, principal, idToken string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := validateUpdateFolderRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.ResolveFolder(ctx, principal, idToken)
	if err != nil {
		return nil, err
	}
	if folder.IsRoot() {
		return nil, fmt.Errorf("root folder cannot be renamed or moved: %w", domain.ErrProtected)
	}

	if req.Name != nil {
		folder.Name = *req.Name
	}

	if req.ParentID.Present {
		parentToken := services.DefaultFolderToken
		if req.ParentID.Value != nil {
			parentToken = *req.ParentID.Value
		}

		parent, err := s.ResolveFolder(ctx, principal, parentToken)
		if err != nil {
			return nil, err
		}

		if err := s.checkNoCycle(ctx, principal, folder, parent); err != nil {
			return nil, err
		}

		folder.ParentKey = &parent.Key
		folder.ParentID = &parent.ID
	}

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"folder_id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// checkNoCycle ensures the proposed parent is not the folder itself or
// any of its descendants. The walk climbs the parent chain from the
// candidate; it terminates because chains end at the root.
func (s *driveService) checkNoCycle(ctx context.Context, principal string, folder, newParent *models.Folder) error {
	current := newParent
	for {
		if current.Key == folder.Key {
			return fmt.Errorf("folder cannot be moved under itself or a descendant: %w", domain.ErrInvalidParent)
		}
		if current.ParentID == nil {
			return nil
		}

		next, err := s.folderRepo.GetByPublicID(ctx, *current.ParentID, principal)
		if err != nil {
			return err
		}
		current = next
	}
}

// DeleteFolder deletes one of the principal's folders. The delete and its
// cascade run in one transaction so a partial cascade is never observable.
func (s *driveService) DeleteFolder(ctx context.Context, principal, idToken string) error {
	folder, err := s.ResolveFolder(ctx, principal, idToken)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.folderRepo.Delete(txCtx, folder.Key)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"folder_id", folder.ID,
		"name", folder.Name,
		"owner_id", principal,
	)

	return nil
}

// DeleteFile deletes one of the principal's files and returns the
// deleted record; its content reference still points at a payload the
// caller may want to dispose of.
func (s *driveService) DeleteFile(ctx context.Context, principal, idToken string) (*models.File, error) {
	file, err := s.ResolveFile(ctx, principal, idToken)
	if err != nil {
		return nil, err
	}

	if err := s.fileRepo.Delete(ctx, file.Key); err != nil {
		return nil, err
	}

	s.logger.Info("file deleted",
		"file_id", file.ID,
		"name", file.Name,
		"owner_id", principal,
	)

	return file, nil
}

// ListFolders lists every folder the principal owns
func (s *driveService) ListFolders(ctx context.Context, principal string) ([]models.Folder, error) {
	return s.folderRepo.ListByOwner(ctx, principal)
}

// ListUnfiledFiles lists the principal's files that no tree walk reaches
func (s *driveService) ListUnfiledFiles(ctx context.Context, principal string) ([]models.File, error) {
	return s.fileRepo.ListUnfiled(ctx, principal)
}

package drive

import (
	"context"
	"log/slog"

	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
	"stash/internal/domain/services"
	"stash/internal/filetypes"
)

// treeService implements the TreeService interface
type treeService struct {
	drive      services.DriveService
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	types      *filetypes.Registry
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	drive services.DriveService,
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	types *filetypes.Registry,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		drive:      drive,
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		types:      types,
		logger:     logger,
	}
}

// FolderTree resolves the folder under the principal and serializes it
// with one level of children.
func (s *treeService) FolderTree(ctx context.Context, principal, idToken string) (*models.TreeNode, error) {
	folder, err := s.drive.ResolveFolder(ctx, principal, idToken)
	if err != nil {
		return nil, err
	}

	children, err := s.folderRepo.ListChildren(ctx, folder.Key)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByFolder(ctx, folder.Key)
	if err != nil {
		return nil, err
	}

	node := BuildTree(folder, children, files, s.types.ContentType)

	s.logger.Debug("folder tree serialized",
		"folder_id", folder.ID,
		"subfolders", len(node.Subfolders),
		"files", len(node.Files),
	)

	return node, nil
}

// BuildTree converts an already-loaded, access-checked folder plus its
// direct children and files into a TreeNode. Pure: no I/O, no errors -
// any inconsistency must have been caught upstream.
//
// Subfolders stay summaries rather than nested nodes. One level is the
// depth bound, applied uniformly: it keeps responses small on wide trees
// and makes unbounded recursion through deep trees impossible.
func BuildTree(folder *models.Folder, children []models.Folder, files []models.File, contentType func(string) string) *models.TreeNode {
	node := &models.TreeNode{
		ID:         folder.ID,
		Name:       folder.Name,
		ParentID:   folder.ParentID,
		CreatedAt:  folder.CreatedAt,
		Subfolders: make([]models.SubfolderSummary, 0, len(children)),
		Files:      make([]models.FileNode, 0, len(files)),
	}

	for _, child := range children {
		node.Subfolders = append(node.Subfolders, models.SubfolderSummary{
			ID:   child.ID,
			Name: child.Name,
		})
	}

	for _, file := range files {
		node.Files = append(node.Files, models.FileNode{
			ID:          file.ID,
			Name:        file.Name,
			ContentRef:  file.ContentRef,
			ContentType: contentType(file.Name),
			CreatedAt:   file.CreatedAt,
		})
	}

	return node
}

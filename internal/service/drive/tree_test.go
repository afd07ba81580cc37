package drive

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"stash/internal/domain"
	"stash/internal/domain/models"
	"stash/internal/domain/services"
	"stash/internal/filetypes"
)

func TestBuildTree(t *testing.T) {
	parentID := uuid.New()
	folder := &models.Folder{
		ID:        uuid.New(),
		Name:      "projects",
		ParentID:  &parentID,
		CreatedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	children := []models.Folder{
		{ID: uuid.New(), Name: "alpha"},
		{ID: uuid.New(), Name: "beta"},
	}
	ref := "objects/abc123"
	files := []models.File{
		{ID: uuid.New(), Name: "readme.md", ContentRef: &ref},
		{ID: uuid.New(), Name: "noext"},
	}

	node := BuildTree(folder, children, files, func(name string) string {
		if name == "readme.md" {
			return "text/markdown"
		}
		return "application/octet-stream"
	})

	if node.ID != folder.ID || node.Name != "projects" {
		t.Errorf("node identity = %s/%q, want %s/projects", node.ID, node.Name, folder.ID)
	}
	if node.ParentID == nil || *node.ParentID != parentID {
		t.Errorf("parent = %v, want %s", node.ParentID, parentID)
	}

	if len(node.Subfolders) != 2 {
		t.Fatalf("subfolders = %d, want 2", len(node.Subfolders))
	}
	for i, child := range children {
		if node.Subfolders[i].ID != child.ID || node.Subfolders[i].Name != child.Name {
			t.Errorf("subfolders[%d] = %+v, want summary of %q", i, node.Subfolders[i], child.Name)
		}
	}

	if len(node.Files) != 2 {
		t.Fatalf("files = %d, want 2", len(node.Files))
	}
	if node.Files[0].ContentType != "text/markdown" {
		t.Errorf("content type = %q, want text/markdown", node.Files[0].ContentType)
	}
	if node.Files[0].ContentRef == nil || *node.Files[0].ContentRef != ref {
		t.Errorf("content ref = %v, want %q", node.Files[0].ContentRef, ref)
	}
	if node.Files[1].ContentType != "application/octet-stream" {
		t.Errorf("fallback content type = %q", node.Files[1].ContentType)
	}
}

func TestBuildTreeEmptyFolder(t *testing.T) {
	folder := &models.Folder{ID: uuid.New(), Name: "root"}

	node := BuildTree(folder, nil, nil, func(string) string { return "" })

	// empty collections serialize as [], not null
	if node.Subfolders == nil || len(node.Subfolders) != 0 {
		t.Errorf("subfolders = %v, want empty non-nil slice", node.Subfolders)
	}
	if node.Files == nil || len(node.Files) != 0 {
		t.Errorf("files = %v, want empty non-nil slice", node.Files)
	}
}

func TestFolderTree(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.mustRoot("alice")
	bobRoot := env.mustRoot("bob")

	types, err := filetypes.NewRegistry()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	tree := NewTreeService(env.drive, env.folderRepo, env.fileRepo, types, slog.New(slog.DiscardHandler))

	docs, err := env.drive.CreateFolder(ctx, "alice", &services.CreateFolderRequest{Name: "docs"})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := env.drive.CreateFolder(ctx, "alice", &services.CreateFolderRequest{
		Name:     "nested",
		ParentID: strPtr(docs.ID.String()),
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := env.drive.CreateFile(ctx, "alice", &services.CreateFileRequest{
		Name:     "spec.txt",
		FolderID: strPtr(docs.ID.String()),
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Run("default token serializes the root", func(t *testing.T) {
		node, err := tree.FolderTree(ctx, "alice", services.DefaultFolderToken)
		if err != nil {
			t.Fatalf("FolderTree() unexpected error: %v", err)
		}
		if node.Name != models.RootFolderName {
			t.Errorf("name = %q, want %q", node.Name, models.RootFolderName)
		}
		if len(node.Subfolders) != 1 || node.Subfolders[0].ID != docs.ID {
			t.Errorf("subfolders = %v, want [docs]", node.Subfolders)
		}
	})

	t.Run("one level of expansion only", func(t *testing.T) {
		node, err := tree.FolderTree(ctx, "alice", docs.ID.String())
		if err != nil {
			t.Fatalf("FolderTree() unexpected error: %v", err)
		}
		if len(node.Subfolders) != 1 || node.Subfolders[0].Name != "nested" {
			t.Fatalf("subfolders = %v, want [nested]", node.Subfolders)
		}
		if len(node.Files) != 1 || node.Files[0].Name != "spec.txt" {
			t.Fatalf("files = %v, want [spec.txt]", node.Files)
		}
		if node.Files[0].ContentType != "text/plain" {
			t.Errorf("content type = %q, want text/plain", node.Files[0].ContentType)
		}
	})

	t.Run("foreign folder reads as absent", func(t *testing.T) {
		_, err := tree.FolderTree(ctx, "alice", bobRoot.ID.String())
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("FolderTree() error = %v, want %v", err, domain.ErrNotFound)
		}
	})
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// TreeNode is the client-facing representation of one folder: its public
// attributes, its immediate subfolders as summaries, and its own files
// fully serialized.
//
// Expansion depth is fixed at one level. Subfolders are id+name summaries
// rather than nested TreeNodes so response size stays bounded regardless
// of how deep the tree goes; clients descend by requesting a child's tree.
type TreeNode struct {
	ID         uuid.UUID          `json:"id"`
	Name       string             `json:"name"`
	ParentID   *uuid.UUID         `json:"parent_id"`
	CreatedAt  time.Time          `json:"created_at"`
	Subfolders []SubfolderSummary `json:"subfolders"`
	Files      []FileNode         `json:"files"`
}

// SubfolderSummary identifies an immediate child folder without expanding it.
type SubfolderSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// FileNode is a file as it appears inside a TreeNode.
type FileNode struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentRef  *string   `json:"content_ref"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

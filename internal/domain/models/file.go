package models

import (
	"time"

	"github.com/google/uuid"
)

// File is a named entry attached to at most one folder.
//
// ContentRef is an opaque reference into the binary storage collaborator;
// the core only stores and forwards it. A nil ContentRef is a placeholder
// record with no payload yet. A nil FolderKey means the file is unfiled:
// the owner retains it but no tree walk reaches it.
type File struct {
	Key        int64      `json:"-" db:"id"`
	ID         uuid.UUID  `json:"id" db:"public_id"`
	Name       string     `json:"name" db:"name"`
	ContentRef *string    `json:"content_ref" db:"content_ref"`
	FolderKey  *int64     `json:"-" db:"folder_id"`
	FolderID   *uuid.UUID `json:"folder_id"` // public id of the folder, joined on read
	OwnerID    string     `json:"-" db:"owner_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// RootFolderName is the name every provisioned root folder carries.
const RootFolderName = "root"

// Folder is a node in a user's storage tree.
//
// Folders carry two identifiers: Key is the storage-assigned bigint
// primary key used for joins and parent references, and never crosses
// the API boundary; ID is the public opaque UUID used in all external
// references. The split is an anti-enumeration measure, not an
// implementation detail.
type Folder struct {
	Key       int64      `json:"-" db:"id"`
	ID        uuid.UUID  `json:"id" db:"public_id"`
	Name      string     `json:"name" db:"name"`
	ParentKey *int64     `json:"-" db:"parent_id"` // NULL = root
	ParentID  *uuid.UUID `json:"parent_id"`        // public id of the parent, joined on read
	OwnerID   string     `json:"-" db:"owner_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// IsRoot reports whether the folder is its owner's root.
func (f *Folder) IsRoot() bool {
	return f.ParentKey == nil
}

package domain

import "errors"

// Sentinel errors for the storage core - match with errors.Is().
// Handlers alone decide the user-facing representation; the core never
// logs-and-swallows or retries on these.
var (
	// ErrNotFound covers both a genuinely absent entity and an entity
	// owned by another user. The two cases are deliberately
	// indistinguishable so the existence of foreign entities never leaks.
	ErrNotFound = errors.New("not found")

	// ErrInvalidParent indicates the supplied parent folder belongs to a
	// different owner or the move would introduce a cycle.
	ErrInvalidParent = errors.New("invalid parent folder")

	// ErrOwnerMismatch indicates the folder supplied for a file belongs
	// to a different owner than the file's owner.
	ErrOwnerMismatch = errors.New("folder owner mismatch")

	// ErrProtected indicates an attempt to delete a root folder.
	ErrProtected = errors.New("protected entity")

	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("already exists")
)

// ConflictError represents a resource conflict with details about the
// existing resource.
type ConflictError struct {
	Message      string
	ResourceType string // "folder" or "file"
	ResourceID   string // public id of the existing resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

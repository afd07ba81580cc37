package services

import (
	"context"

	"stash/internal/domain/models"
)

// RootProvisioner guarantees exactly one root folder per user. It reacts
// to user-created events from the identity provider; delivery is
// at-least-once, so every entry point must be duplicate-safe.
type RootProvisioner interface {
	// EnsureRootFolder creates the user's root folder if it does not
	// exist yet and returns it. Losing a creation race is success: the
	// winner's root is returned.
	EnsureRootFolder(ctx context.Context, userID string) (*models.Folder, error)

	// HandleUserCreated consumes one user-created event. An error means
	// the event must not be acknowledged upstream.
	HandleUserCreated(ctx context.Context, evt models.UserCreatedEvent) error
}

// Package provision reacts to identity-provider events: every created
// user gets exactly one root folder, no matter how many times the
// creation event is delivered.
package provision

import (
	"context"
	"log/slog"

	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
	"stash/internal/domain/services"
)

type provisioner struct {
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewProvisioner creates a root provisioner.
func NewProvisioner(
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.RootProvisioner {
	return &provisioner{
		folderRepo: folderRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// EnsureRootFolder creates the user's root folder if absent. Idempotency
// is carried by the storage-level uniqueness constraint, not event
// de-duplication: a loser of a concurrent race gets the winner's root
// back with no error.
func (p *provisioner) EnsureRootFolder(ctx context.Context, userID string) (*models.Folder, error) {
	var root *models.Folder
	err := p.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		root, err = p.folderRepo.CreateRoot(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("root folder provisioned",
		"owner_id", userID,
		"folder_id", root.ID,
	)

	return root, nil
}

// HandleUserCreated is the event-bus entry point. A returned error keeps
// the triggering webhook unacknowledged so the identity provider
// redelivers; EnsureRootFolder makes the redelivery safe.
func (p *provisioner) HandleUserCreated(ctx context.Context, evt models.UserCreatedEvent) error {
	if _, err := p.EnsureRootFolder(ctx, evt.UserID); err != nil {
		p.logger.Error("root provisioning failed",
			"owner_id", evt.UserID,
			"error", err,
		)
		return err
	}
	return nil
}

package jobs

import (
	"context"

	"propshare-backend/internal/logger"
)

// PurgeExpiredInvitations removes pending invitations whose claim window has
// passed. Claimed and revoked rows stay for the audit trail.
func (jr *JobRunner) PurgeExpiredInvitations() {
	jr.runWithRecovery("PurgeExpiredInvitations", func() {
		ctx := context.Background()

		deleted, err := jr.repos.Invitations.DeleteExpired(ctx)
		if err != nil {
			logger.Error("Failed to purge expired invitations", "error", err)
			return
		}

		logger.Info("Purged expired invitations", "count", deleted)
	})
}

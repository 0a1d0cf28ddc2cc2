package postgres

import (
	"context"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/repository"
)

type invitationRepository struct {
	q Querier
}

func NewInvitationRepository(q Querier) repository.InvitationRepository {
	return &invitationRepository{q: q}
}

const invitationColumns = `id, property_id, email, token, share_bps, voting_power, role, blackout_manager, expense_approver, status, expires_at, created_on`

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `INSERT INTO invitations (property_id, email, token, share_bps, voting_power, role, blackout_manager, expense_approver, status, expires_at, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	err := r.q.QueryRowContext(ctx, query,
		inv.PropertyID, inv.Email, inv.Token, inv.ShareBps, inv.VotingPower, inv.Role,
		inv.BlackoutManager, inv.ExpenseApprover, inv.Status, inv.ExpiresAt, now,
	).Scan(&inv.ID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	inv.CreatedOn = formatTimestamp(now)
	return nil
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`
	inv := &domain.Invitation{}
	var createdOn time.Time
	err := r.q.QueryRowContext(ctx, query, token).Scan(
		&inv.ID, &inv.PropertyID, &inv.Email, &inv.Token, &inv.ShareBps, &inv.VotingPower,
		&inv.Role, &inv.BlackoutManager, &inv.ExpenseApprover, &inv.Status, &inv.ExpiresAt, &createdOn,
	)
	if err != nil {
		return nil, wrapNotFound(err, "invitation")
	}
	inv.CreatedOn = formatTimestamp(createdOn)
	return inv, nil
}

func (r *invitationRepository) Update(ctx context.Context, inv *domain.Invitation) error {
	query := `UPDATE invitations SET status=$1 WHERE id=$2`
	if _, err := r.q.ExecContext(ctx, query, inv.Status, inv.ID); err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

func (r *invitationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM invitations WHERE status = $1 AND expires_at < $2`, domain.InvitationStatusPending, time.Now())
	if err != nil {
		return 0, domain.NewInternalError(err)
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

package postgres

import (
	"context"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/repository"
)

type ownershipRepository struct {
	q Querier
}

func NewOwnershipRepository(q Querier) repository.OwnershipRepository {
	return &ownershipRepository{q: q}
}

const ownershipColumns = `id, property_id, user_id, share_bps, voting_power, role, blackout_manager, expense_approver, created_on`

func (r *ownershipRepository) Create(ctx context.Context, o *domain.Ownership) error {
	query := `INSERT INTO ownerships (property_id, user_id, share_bps, voting_power, role, blackout_manager, expense_approver, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	err := r.q.QueryRowContext(ctx, query, o.PropertyID, o.UserID, o.ShareBps, o.VotingPower, o.Role, o.BlackoutManager, o.ExpenseApprover, now).Scan(&o.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("user already holds an ownership in this property")
		}
		return domain.NewInternalError(err)
	}
	o.CreatedOn = formatTimestamp(now)
	return nil
}

func (r *ownershipRepository) GetByID(ctx context.Context, id int32) (*domain.Ownership, error) {
	query := `SELECT ` + ownershipColumns + ` FROM ownerships WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *ownershipRepository) GetByPropertyAndUser(ctx context.Context, propertyID, userID int32) (*domain.Ownership, error) {
	query := `SELECT ` + ownershipColumns + ` FROM ownerships WHERE property_id = $1 AND user_id = $2`
	return r.scanOne(r.q.QueryRowContext(ctx, query, propertyID, userID))
}

// ListByProperty orders by id ascending; expense allocation assigns the
// rounding remainder to the last ownership in this order.
func (r *ownershipRepository) ListByProperty(ctx context.Context, propertyID int32) ([]domain.Ownership, error) {
	query := `SELECT ` + ownershipColumns + ` FROM ownerships WHERE property_id = $1 ORDER BY id ASC`
	rows, err := r.q.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	defer rows.Close()

	var ownerships []domain.Ownership
	for rows.Next() {
		var o domain.Ownership
		var createdOn time.Time
		if err := rows.Scan(&o.ID, &o.PropertyID, &o.UserID, &o.ShareBps, &o.VotingPower, &o.Role, &o.BlackoutManager, &o.ExpenseApprover, &createdOn); err != nil {
			return nil, domain.NewInternalError(err)
		}
		o.CreatedOn = formatTimestamp(createdOn)
		ownerships = append(ownerships, o)
	}
	return ownerships, rows.Err()
}

func (r *ownershipRepository) Update(ctx context.Context, o *domain.Ownership) error {
	query := `UPDATE ownerships SET share_bps=$1, voting_power=$2, role=$3, blackout_manager=$4, expense_approver=$5 WHERE id=$6`
	if _, err := r.q.ExecContext(ctx, query, o.ShareBps, o.VotingPower, o.Role, o.BlackoutManager, o.ExpenseApprover, o.ID); err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

func (r *ownershipRepository) scanOne(row interface{ Scan(...any) error }) (*domain.Ownership, error) {
	o := &domain.Ownership{}
	var createdOn time.Time
	err := row.Scan(&o.ID, &o.PropertyID, &o.UserID, &o.ShareBps, &o.VotingPower, &o.Role, &o.BlackoutManager, &o.ExpenseApprover, &createdOn)
	if err != nil {
		return nil, wrapNotFound(err, "ownership")
	}
	o.CreatedOn = formatTimestamp(createdOn)
	return o, nil
}

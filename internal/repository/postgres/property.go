package postgres

import (
	"context"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/repository"
)

type propertyRepository struct {
	q Querier
}

func NewPropertyRepository(q Querier) repository.PropertyRepository {
	return &propertyRepository{q: q}
}

const propertyColumns = `id, name, address, nightly_rate_cents, cleaning_fee_cents, min_nights, approval_policy, created_on, updated_on`

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `INSERT INTO properties (name, address, nightly_rate_cents, cleaning_fee_cents, min_nights, approval_policy, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	err := r.q.QueryRowContext(ctx, query, p.Name, p.Address, p.NightlyRateCents, p.CleaningFeeCents, p.MinNights, p.ApprovalPolicy, now, now).Scan(&p.ID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	p.CreatedOn = formatTimestamp(now)
	p.UpdatedOn = formatTimestamp(now)
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *propertyRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property) error {
	query := `UPDATE properties SET name=$1, address=$2, nightly_rate_cents=$3, cleaning_fee_cents=$4, min_nights=$5, approval_policy=$6, updated_on=$7 WHERE id=$8`
	if _, err := r.q.ExecContext(ctx, query, p.Name, p.Address, p.NightlyRateCents, p.CleaningFeeCents, p.MinNights, p.ApprovalPolicy, time.Now(), p.ID); err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

func (r *propertyRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Property, error) {
	query := `SELECT p.id, p.name, p.address, p.nightly_rate_cents, p.cleaning_fee_cents, p.min_nights, p.approval_policy, p.created_on, p.updated_on
	          FROM properties p
	          JOIN ownerships o ON o.property_id = p.id
	          WHERE o.user_id = $1
	          ORDER BY p.id`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		var createdOn, updatedOn time.Time
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.NightlyRateCents, &p.CleaningFeeCents, &p.MinNights, &p.ApprovalPolicy, &createdOn, &updatedOn); err != nil {
			return nil, domain.NewInternalError(err)
		}
		p.CreatedOn = formatTimestamp(createdOn)
		p.UpdatedOn = formatTimestamp(updatedOn)
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (r *propertyRepository) scanOne(row interface{ Scan(...any) error }) (*domain.Property, error) {
	p := &domain.Property{}
	var createdOn, updatedOn time.Time
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.NightlyRateCents, &p.CleaningFeeCents, &p.MinNights, &p.ApprovalPolicy, &createdOn, &updatedOn)
	if err != nil {
		return nil, wrapNotFound(err, "property")
	}
	p.CreatedOn = formatTimestamp(createdOn)
	p.UpdatedOn = formatTimestamp(updatedOn)
	return p, nil
}

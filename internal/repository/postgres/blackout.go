package postgres

import (
	"context"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/repository"
)

type blackoutRepository struct {
	q Querier
}

func NewBlackoutRepository(q Querier) repository.BlackoutRepository {
	return &blackoutRepository{q: q}
}

const blackoutColumns = `id, property_id, start_date, end_date, reason, created_by, created_on`

func (r *blackoutRepository) Create(ctx context.Context, b *domain.Blackout) error {
	query := `INSERT INTO blackouts (property_id, start_date, end_date, reason, created_by, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	err := r.q.QueryRowContext(ctx, query, b.PropertyID, b.StartDate, b.EndDate, b.Reason, b.CreatedBy, now).Scan(&b.ID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	b.CreatedOn = formatTimestamp(now)
	return nil
}

func (r *blackoutRepository) GetByID(ctx context.Context, id int32) (*domain.Blackout, error) {
	query := `SELECT ` + blackoutColumns + ` FROM blackouts WHERE id = $1`
	b := &domain.Blackout{}
	var startDate, endDate, createdOn time.Time
	err := r.q.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.PropertyID, &startDate, &endDate, &b.Reason, &b.CreatedBy, &createdOn)
	if err != nil {
		return nil, wrapNotFound(err, "blackout")
	}
	b.StartDate = formatDate(startDate)
	b.EndDate = formatDate(endDate)
	b.CreatedOn = formatTimestamp(createdOn)
	return b, nil
}

func (r *blackoutRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM blackouts WHERE id = $1`, id)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.NewNotFoundError("blackout")
	}
	return nil
}

func (r *blackoutRepository) ListByProperty(ctx context.Context, propertyID int32) ([]domain.Blackout, error) {
	query := `SELECT ` + blackoutColumns + ` FROM blackouts WHERE property_id = $1 ORDER BY start_date`
	return r.list(ctx, query, propertyID)
}

func (r *blackoutRepository) ListOverlapping(ctx context.Context, propertyID int32, startDate, endDate string) ([]domain.Blackout, error) {
	query := `SELECT ` + blackoutColumns + ` FROM blackouts
	          WHERE property_id = $1 AND start_date < $2 AND end_date > $3
	          ORDER BY start_date`
	return r.list(ctx, query, propertyID, endDate, startDate)
}

func (r *blackoutRepository) list(ctx context.Context, query string, args ...any) ([]domain.Blackout, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	defer rows.Close()

	var blackouts []domain.Blackout
	for rows.Next() {
		var b domain.Blackout
		var startDate, endDate, createdOn time.Time
		if err := rows.Scan(&b.ID, &b.PropertyID, &startDate, &endDate, &b.Reason, &b.CreatedBy, &createdOn); err != nil {
			return nil, domain.NewInternalError(err)
		}
		b.StartDate = formatDate(startDate)
		b.EndDate = formatDate(endDate)
		b.CreatedOn = formatTimestamp(createdOn)
		blackouts = append(blackouts, b)
	}
	return blackouts, rows.Err()
}

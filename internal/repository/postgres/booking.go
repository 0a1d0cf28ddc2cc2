package postgres

import (
	"context"
	"fmt"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/repository"
)

type bookingRepository struct {
	q Querier
}

func NewBookingRepository(q Querier) repository.BookingRepository {
	return &bookingRepository{q: q}
}

const bookingColumns = `id, property_id, requested_by, start_date, end_date, status, total_amount_cents, decision_summary, request_notes, guest_name, guest_email, guest_phone, created_on, updated_on`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (property_id, requested_by, start_date, end_date, status, total_amount_cents, decision_summary, request_notes, guest_name, guest_email, guest_phone, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	err := r.q.QueryRowContext(ctx, query,
		b.PropertyID, b.RequestedBy, b.StartDate, b.EndDate, b.Status, b.TotalAmountCents,
		b.DecisionSummary, b.RequestNotes, b.GuestName, b.GuestEmail, b.GuestPhone, now, now,
	).Scan(&b.ID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	b.CreatedOn = formatTimestamp(now)
	b.UpdatedOn = formatTimestamp(now)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *bookingRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *bookingRepository) UpdateDecision(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, decision_summary=$2, updated_on=$3 WHERE id=$4`
	if _, err := r.q.ExecContext(ctx, query, b.Status, b.DecisionSummary, time.Now(), b.ID); err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

func (r *bookingRepository) ListByProperty(ctx context.Context, propertyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE property_id = $1`

	args := []any{propertyID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, domain.NewInternalError(err)
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	bookings, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

func (r *bookingRepository) ListOverlapping(ctx context.Context, propertyID int32, startDate, endDate string) ([]domain.Booking, error) {
	// Half-open ranges: touching boundaries are not a conflict. Cancelled
	// bookings release their dates.
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE property_id = $1 AND status != $2 AND start_date < $3 AND end_date > $4
	          ORDER BY start_date`
	return r.list(ctx, query, propertyID, domain.BookingStatusCancelled, endDate, startDate)
}

func (r *bookingRepository) UpsertVote(ctx context.Context, v *domain.BookingVote) error {
	// The unique constraint on (booking_id, ownership_id) is what makes
	// concurrent re-votes safe: the race collapses into an update.
	query := `INSERT INTO booking_votes (booking_id, ownership_id, choice, rationale, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          ON CONFLICT (booking_id, ownership_id)
	          DO UPDATE SET choice = EXCLUDED.choice, rationale = EXCLUDED.rationale, updated_at = EXCLUDED.updated_at
	          RETURNING id, created_at`
	now := time.Now()
	err := r.q.QueryRowContext(ctx, query, v.BookingID, v.OwnershipID, v.Choice, v.Rationale, now).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return domain.NewInternalError(err)
	}
	v.UpdatedAt = now
	return nil
}

func (r *bookingRepository) ListVotes(ctx context.Context, bookingID int32) ([]domain.BookingVote, error) {
	query := `SELECT id, booking_id, ownership_id, choice, rationale, created_at, updated_at
	          FROM booking_votes WHERE booking_id = $1 ORDER BY ownership_id`
	rows, err := r.q.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	defer rows.Close()

	var votes []domain.BookingVote
	for rows.Next() {
		var v domain.BookingVote
		if err := rows.Scan(&v.ID, &v.BookingID, &v.OwnershipID, &v.Choice, &v.Rationale, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, domain.NewInternalError(err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) scanOne(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b, err := scanBooking(row)
	if err != nil {
		return nil, wrapNotFound(err, "booking")
	}
	return b, nil
}

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	var startDate, endDate, createdOn, updatedOn time.Time
	err := row.Scan(&b.ID, &b.PropertyID, &b.RequestedBy, &startDate, &endDate, &b.Status, &b.TotalAmountCents,
		&b.DecisionSummary, &b.RequestNotes, &b.GuestName, &b.GuestEmail, &b.GuestPhone, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}
	b.StartDate = formatDate(startDate)
	b.EndDate = formatDate(endDate)
	b.CreatedOn = formatTimestamp(createdOn)
	b.UpdatedOn = formatTimestamp(updatedOn)
	return b, nil
}

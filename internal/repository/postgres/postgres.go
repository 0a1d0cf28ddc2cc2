package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/logger"
	"propshare-backend/internal/repository"

	"github.com/lib/pq"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// every repository works both against the pool and inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	dateLayout = "2006-01-02"

	// txMaxAttempts bounds retries of serialization failures before the
	// conflict is surfaced to the caller.
	txMaxAttempts = 3
)

type Store struct {
	db *sql.DB
	repository.Repos
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		Repos: newRepos(db),
	}
}

func newRepos(q Querier) repository.Repos {
	return repository.Repos{
		Users:         NewUserRepository(q),
		Properties:    NewPropertyRepository(q),
		Ownerships:    NewOwnershipRepository(q),
		Bookings:      NewBookingRepository(q),
		Blackouts:     NewBlackoutRepository(q),
		Expenses:      NewExpenseRepository(q),
		Notifications: NewNotificationRepository(q),
		Invitations:   NewInvitationRepository(q),
	}
}

// WithinTx runs fn in a serializable transaction, retrying a bounded number
// of times when postgres aborts it with a serialization or deadlock error.
// Anything else rolls back and propagates unchanged.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repos) error) error {
	var err error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		logger.Warn("Retrying serialization failure", "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(repository.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return domain.NewInternalError(err)
	}

	if err := fn(newRepos(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

// SQLSTATE 40001 = serialization_failure, 40P01 = deadlock_detected.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// wrapNotFound converts sql.ErrNoRows into the domain not-found error so
// services never see driver-level sentinels.
func wrapNotFound(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(resource)
	}
	return domain.NewInternalError(err)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

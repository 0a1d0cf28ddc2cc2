package postgres

import (
	"context"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/repository"
)

type userRepository struct {
	q Querier
}

func NewUserRepository(q Querier) repository.UserRepository {
	return &userRepository{q: q}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, phone_number, password_hash, name, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	err := r.q.QueryRowContext(ctx, query, u.Email, u.PhoneNumber, u.PasswordHash, u.Name, now, now).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("a user with this email already exists")
		}
		return domain.NewInternalError(err)
	}
	u.CreatedOn = formatTimestamp(now)
	u.UpdatedOn = formatTimestamp(now)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT id, email, phone_number, password_hash, name, created_on, updated_on FROM users WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, phone_number, password_hash, name, created_on, updated_on FROM users WHERE email = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, phone_number=$2, password_hash=$3, name=$4, updated_on=$5 WHERE id=$6`
	if _, err := r.q.ExecContext(ctx, query, u.Email, u.PhoneNumber, u.PasswordHash, u.Name, time.Now(), u.ID); err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) scanOne(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var createdOn, updatedOn time.Time
	err := row.Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Name, &createdOn, &updatedOn)
	if err != nil {
		return nil, wrapNotFound(err, "user")
	}
	u.CreatedOn = formatTimestamp(createdOn)
	u.UpdatedOn = formatTimestamp(updatedOn)
	return u, nil
}

package repository

import (
	"context"

	"propshare-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id int32) (*domain.Property, error)
	// GetByIDForUpdate locks the property row for the remainder of the
	// transaction, serializing concurrent booking creation on it.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Property, error)
	Update(ctx context.Context, property *domain.Property) error
	ListByUser(ctx context.Context, userID int32) ([]domain.Property, error)
}

type OwnershipRepository interface {
	Create(ctx context.Context, ownership *domain.Ownership) error
	GetByID(ctx context.Context, id int32) (*domain.Ownership, error)
	GetByPropertyAndUser(ctx context.Context, propertyID, userID int32) (*domain.Ownership, error)
	// ListByProperty returns ownerships ordered by id ascending. Allocation
	// math depends on this order staying stable.
	ListByProperty(ctx context.Context, propertyID int32) ([]domain.Ownership, error)
	Update(ctx context.Context, ownership *domain.Ownership) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Booking, error)
	UpdateDecision(ctx context.Context, booking *domain.Booking) error
	ListByProperty(ctx context.Context, propertyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	// ListOverlapping returns non-cancelled bookings whose half-open range
	// intersects [startDate, endDate).
	ListOverlapping(ctx context.Context, propertyID int32, startDate, endDate string) ([]domain.Booking, error)

	UpsertVote(ctx context.Context, vote *domain.BookingVote) error
	ListVotes(ctx context.Context, bookingID int32) ([]domain.BookingVote, error)
}

type BlackoutRepository interface {
	Create(ctx context.Context, blackout *domain.Blackout) error
	GetByID(ctx context.Context, id int32) (*domain.Blackout, error)
	Delete(ctx context.Context, id int32) error
	ListByProperty(ctx context.Context, propertyID int32) ([]domain.Blackout, error)
	ListOverlapping(ctx context.Context, propertyID int32, startDate, endDate string) ([]domain.Blackout, error)
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, id int32) (*domain.Expense, error)
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Expense, error)
	UpdateDecision(ctx context.Context, expense *domain.Expense) error
	ListByProperty(ctx context.Context, propertyID int32, status string, page, pageSize int32) ([]domain.Expense, int32, error)

	CreateAllocation(ctx context.Context, allocation *domain.ExpenseAllocation) error
	ListAllocations(ctx context.Context, expenseID int32) ([]domain.ExpenseAllocation, error)

	UpsertApproval(ctx context.Context, approval *domain.ExpenseApproval) error
	ListApprovals(ctx context.Context, expenseID int32) ([]domain.ExpenseApproval, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type InvitationRepository interface {
	Create(ctx context.Context, invite *domain.Invitation) error
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	Update(ctx context.Context, invite *domain.Invitation) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// Repos bundles every repository bound to one querier, either the shared
// pool or a single transaction.
type Repos struct {
	Users         UserRepository
	Properties    PropertyRepository
	Ownerships    OwnershipRepository
	Bookings      BookingRepository
	Blackouts     BlackoutRepository
	Expenses      ExpenseRepository
	Notifications NotificationRepository
	Invitations   InvitationRepository
}

// TxRunner executes fn inside a single serializable transaction. Every
// read-modify-write sequence in the services (availability check + insert,
// vote upsert + tally + status update) goes through this so no partial
// state survives a failure.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(Repos) error) error
}

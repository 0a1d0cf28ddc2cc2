package unit

import (
	"context"

	"github.com/stretchr/testify/mock"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/repository"
)

// fakeTxRunner runs the transactional closure directly against the mock
// repositories, with no real transaction underneath.
type fakeTxRunner struct {
	repos repository.Repos
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(repository.Repos) error) error {
	return fn(f.repos)
}

// mockRepoSet keeps the individual mocks reachable for expectations while
// exposing them as a repository bundle.
type mockRepoSet struct {
	Users         *MockUserRepo
	Properties    *MockPropertyRepo
	Ownerships    *MockOwnershipRepo
	Bookings      *MockBookingRepo
	Blackouts     *MockBlackoutRepo
	Expenses      *MockExpenseRepo
	Notifications *MockNotificationRepo
	Invitations   *MockInvitationRepo
}

func newMockRepoSet() *mockRepoSet {
	return &mockRepoSet{
		Users:         new(MockUserRepo),
		Properties:    new(MockPropertyRepo),
		Ownerships:    new(MockOwnershipRepo),
		Bookings:      new(MockBookingRepo),
		Blackouts:     new(MockBlackoutRepo),
		Expenses:      new(MockExpenseRepo),
		Notifications: new(MockNotificationRepo),
		Invitations:   new(MockInvitationRepo),
	}
}

func (s *mockRepoSet) bundle() repository.Repos {
	return repository.Repos{
		Users:         s.Users,
		Properties:    s.Properties,
		Ownerships:    s.Ownerships,
		Bookings:      s.Bookings,
		Blackouts:     s.Blackouts,
		Expenses:      s.Expenses,
		Notifications: s.Notifications,
		Invitations:   s.Invitations,
	}
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockPropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) Create(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}
func (m *MockPropertyRepo) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) Update(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}
func (m *MockPropertyRepo) ListByUser(ctx context.Context, userID int32) ([]domain.Property, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Property), args.Error(1)
}

// MockOwnershipRepo
type MockOwnershipRepo struct {
	mock.Mock
}

func (m *MockOwnershipRepo) Create(ctx context.Context, ownership *domain.Ownership) error {
	args := m.Called(ctx, ownership)
	return args.Error(0)
}
func (m *MockOwnershipRepo) GetByID(ctx context.Context, id int32) (*domain.Ownership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ownership), args.Error(1)
}
func (m *MockOwnershipRepo) GetByPropertyAndUser(ctx context.Context, propertyID, userID int32) (*domain.Ownership, error) {
	args := m.Called(ctx, propertyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ownership), args.Error(1)
}
func (m *MockOwnershipRepo) ListByProperty(ctx context.Context, propertyID int32) ([]domain.Ownership, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]domain.Ownership), args.Error(1)
}
func (m *MockOwnershipRepo) Update(ctx context.Context, ownership *domain.Ownership) error {
	args := m.Called(ctx, ownership)
	return args.Error(0)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateDecision(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByProperty(ctx context.Context, propertyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, propertyID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListOverlapping(ctx context.Context, propertyID int32, startDate, endDate string) ([]domain.Booking, error) {
	args := m.Called(ctx, propertyID, startDate, endDate)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpsertVote(ctx context.Context, vote *domain.BookingVote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}
func (m *MockBookingRepo) ListVotes(ctx context.Context, bookingID int32) ([]domain.BookingVote, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.BookingVote), args.Error(1)
}

// MockBlackoutRepo
type MockBlackoutRepo struct {
	mock.Mock
}

func (m *MockBlackoutRepo) Create(ctx context.Context, blackout *domain.Blackout) error {
	args := m.Called(ctx, blackout)
	return args.Error(0)
}
func (m *MockBlackoutRepo) GetByID(ctx context.Context, id int32) (*domain.Blackout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Blackout), args.Error(1)
}
func (m *MockBlackoutRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBlackoutRepo) ListByProperty(ctx context.Context, propertyID int32) ([]domain.Blackout, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]domain.Blackout), args.Error(1)
}
func (m *MockBlackoutRepo) ListOverlapping(ctx context.Context, propertyID int32, startDate, endDate string) ([]domain.Blackout, error) {
	args := m.Called(ctx, propertyID, startDate, endDate)
	return args.Get(0).([]domain.Blackout), args.Error(1)
}

// MockExpenseRepo
type MockExpenseRepo struct {
	mock.Mock
}

func (m *MockExpenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}
func (m *MockExpenseRepo) GetByID(ctx context.Context, id int32) (*domain.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseRepo) UpdateDecision(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}
func (m *MockExpenseRepo) ListByProperty(ctx context.Context, propertyID int32, status string, page, pageSize int32) ([]domain.Expense, int32, error) {
	args := m.Called(ctx, propertyID, status, page, pageSize)
	return args.Get(0).([]domain.Expense), args.Get(1).(int32), args.Error(2)
}
func (m *MockExpenseRepo) CreateAllocation(ctx context.Context, allocation *domain.ExpenseAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}
func (m *MockExpenseRepo) ListAllocations(ctx context.Context, expenseID int32) ([]domain.ExpenseAllocation, error) {
	args := m.Called(ctx, expenseID)
	return args.Get(0).([]domain.ExpenseAllocation), args.Error(1)
}
func (m *MockExpenseRepo) UpsertApproval(ctx context.Context, approval *domain.ExpenseApproval) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}
func (m *MockExpenseRepo) ListApprovals(ctx context.Context, expenseID int32) ([]domain.ExpenseApproval, error) {
	args := m.Called(ctx, expenseID)
	return args.Get(0).([]domain.ExpenseApproval), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockInvitationRepo
type MockInvitationRepo struct {
	mock.Mock
}

func (m *MockInvitationRepo) Create(ctx context.Context, invite *domain.Invitation) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}
func (m *MockInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}
func (m *MockInvitationRepo) Update(ctx context.Context, invite *domain.Invitation) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}
func (m *MockInvitationRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInvitation(ctx context.Context, email, propertyName, token string) error {
	args := m.Called(ctx, email, propertyName, token)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingRequestNotification(ctx context.Context, email, requesterName, propertyName, startDate, endDate string) error {
	args := m.Called(ctx, email, requesterName, propertyName, startDate, endDate)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingDecisionNotification(ctx context.Context, email, propertyName, decisionSummary string) error {
	args := m.Called(ctx, email, propertyName, decisionSummary)
	return args.Error(0)
}
func (m *MockEmailService) SendExpenseSubmittedNotification(ctx context.Context, email, submitterName, propertyName, vendorName string, amountCents int32) error {
	args := m.Called(ctx, email, submitterName, propertyName, vendorName, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendExpenseDecisionNotification(ctx context.Context, email, propertyName, vendorName, decisionSummary string) error {
	args := m.Called(ctx, email, propertyName, vendorName, decisionSummary)
	return args.Error(0)
}
func (m *MockEmailService) SendPendingApprovalReminder(ctx context.Context, email, propertyName, itemDescription string) error {
	args := m.Called(ctx, email, propertyName, itemDescription)
	return args.Error(0)
}

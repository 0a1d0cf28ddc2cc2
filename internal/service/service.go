package service

import (
	"context"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/utils"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type PropertyService interface {
	CreateProperty(ctx context.Context, userID int32, property *domain.Property) (*domain.Property, *domain.Ownership, error)
	GetProperty(ctx context.Context, userID, propertyID int32) (*domain.Property, []domain.Ownership, error)
	ListMyProperties(ctx context.Context, userID int32) ([]domain.Property, error)

	InviteOwner(ctx context.Context, userID, propertyID int32, invite *domain.Invitation) (*domain.Invitation, string, error) // returns invitation + raw token
	ClaimInvitation(ctx context.Context, userID int32, token string) (*domain.Ownership, error)

	CreateBlackout(ctx context.Context, userID, propertyID int32, startDate, endDate, reason string) (*domain.Blackout, error)
	DeleteBlackout(ctx context.Context, userID, blackoutID int32) error
}

// AvailabilityReport is the day-level calendar plus the items that make days
// unavailable, for a reporting window.
type AvailabilityReport struct {
	PropertyID int32             `json:"property_id"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	Days       []DayAvailability `json:"days"`
	Bookings   []domain.Booking  `json:"bookings"`
	Blackouts  []domain.Blackout `json:"blackouts"`
}

type DayAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

type AvailabilityService interface {
	CheckAvailability(ctx context.Context, userID, propertyID int32, from, to string) (*AvailabilityReport, error)
}

// BookingDetail is a booking with its full vote list and tally breakdown.
type BookingDetail struct {
	Booking *domain.Booking      `json:"booking"`
	Votes   []domain.BookingVote `json:"votes"`
	Tally   utils.TallyResult    `json:"tally"`
}

type CreateBookingRequest struct {
	StartDate    string
	EndDate      string
	RequestNotes string
	GuestName    string
	GuestEmail   string
	GuestPhone   string
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID, propertyID int32, req CreateBookingRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int32) (*BookingDetail, error)
	ListBookings(ctx context.Context, userID, propertyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	CastVote(ctx context.Context, userID, bookingID, ownershipID int32, choice domain.VoteChoice, rationale string) (*BookingDetail, error)
	CancelBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error)
}

// ExpenseDetail is an expense with its approvals, immutable allocations and
// tally breakdown.
type ExpenseDetail struct {
	Expense     *domain.Expense            `json:"expense"`
	Approvals   []domain.ExpenseApproval   `json:"approvals"`
	Allocations []domain.ExpenseAllocation `json:"allocations"`
	Tally       utils.TallyResult          `json:"tally"`
}

type CreateExpenseRequest struct {
	AmountCents int32
	VendorName  string
	Category    string
	ReceiptURL  string
	Notes       string
}

type ExpenseService interface {
	CreateExpense(ctx context.Context, userID, propertyID int32, req CreateExpenseRequest) (*ExpenseDetail, error)
	GetExpense(ctx context.Context, userID, expenseID int32) (*ExpenseDetail, error)
	ListExpenses(ctx context.Context, userID, propertyID int32, status string, page, pageSize int32) ([]domain.Expense, int32, error)
	CastApproval(ctx context.Context, userID, expenseID, ownershipID int32, choice domain.VoteChoice, rationale string) (*ExpenseDetail, error)
	MarkReimbursed(ctx context.Context, userID, expenseID int32) (*domain.Expense, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendInvitation(ctx context.Context, email, propertyName, token string) error

	SendBookingRequestNotification(ctx context.Context, email, requesterName, propertyName, startDate, endDate string) error
	SendBookingDecisionNotification(ctx context.Context, email, propertyName, decisionSummary string) error

	SendExpenseSubmittedNotification(ctx context.Context, email, submitterName, propertyName, vendorName string, amountCents int32) error
	SendExpenseDecisionNotification(ctx context.Context, email, propertyName, vendorName, decisionSummary string) error

	SendPendingApprovalReminder(ctx context.Context, email, propertyName, itemDescription string) error
}

package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusApproved  BookingStatus = "APPROVED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// IsTerminal reports whether no further status transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return s != BookingStatusPending
}

type VoteChoice string

const (
	VoteChoiceApprove VoteChoice = "APPROVE"
	VoteChoiceReject  VoteChoice = "REJECT"
)

// Booking is a stay request over a half-open date range [start_date,
// end_date). TotalAmountCents is snapshotted at creation from the property's
// rates; later rate changes never reprice an existing booking.
type Booking struct {
	ID               int32         `json:"id"`
	PropertyID       int32         `json:"property_id"`
	RequestedBy      int32         `json:"requested_by"` // ownership id
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date"`
	Status           BookingStatus `json:"status"`
	TotalAmountCents int32         `json:"total_amount_cents"`
	DecisionSummary  string        `json:"decision_summary"`
	RequestNotes     string        `json:"request_notes"`
	GuestName        string        `json:"guest_name"`
	GuestEmail       string        `json:"guest_email"`
	GuestPhone       string        `json:"guest_phone"`
	CreatedOn        string        `json:"created_on"`
	UpdatedOn        string        `json:"updated_on"`
}

// BookingVote is one ownership's vote on a booking. At most one row exists
// per (booking_id, ownership_id); re-voting overwrites choice and rationale.
type BookingVote struct {
	ID          int32      `json:"id"`
	BookingID   int32      `json:"booking_id"`
	OwnershipID int32      `json:"ownership_id"`
	Choice      VoteChoice `json:"choice"`
	Rationale   string     `json:"rationale"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

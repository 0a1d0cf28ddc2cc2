package domain

import "time"

type ExpenseStatus string

const (
	ExpenseStatusPending    ExpenseStatus = "PENDING"
	ExpenseStatusApproved   ExpenseStatus = "APPROVED"
	ExpenseStatusRejected   ExpenseStatus = "REJECTED"
	ExpenseStatusReimbursed ExpenseStatus = "REIMBURSED"
)

// Expense is a cost incurred on behalf of the property, subject to the same
// weighted-majority approval as bookings. REIMBURSED is reached only through
// an explicit administrative transition on an approved expense; the tally
// never produces it.
type Expense struct {
	ID              int32         `json:"id"`
	PropertyID      int32         `json:"property_id"`
	SubmittedBy     int32         `json:"submitted_by"` // ownership id
	AmountCents     int32         `json:"amount_cents"`
	VendorName      string        `json:"vendor_name"`
	Category        string        `json:"category"`
	ReceiptURL      string        `json:"receipt_url"`
	Status          ExpenseStatus `json:"status"`
	DecisionSummary string        `json:"decision_summary"`
	Notes           string        `json:"notes"`
	CreatedOn       string        `json:"created_on"`
	UpdatedOn       string        `json:"updated_on"`
}

// ExpenseApproval mirrors BookingVote, one row per (expense_id,
// ownership_id). Only ownerships with the expense-approver capability may
// hold one.
type ExpenseApproval struct {
	ID          int32      `json:"id"`
	ExpenseID   int32      `json:"expense_id"`
	OwnershipID int32      `json:"ownership_id"`
	Choice      VoteChoice `json:"choice"`
	Rationale   string     `json:"rationale"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ExpenseAllocation is one ownership's share of an expense, computed once at
// creation by splitting amount_cents over share_bps. Allocations always sum
// exactly to the expense amount and are never recomputed.
type ExpenseAllocation struct {
	ID          int32 `json:"id"`
	ExpenseID   int32 `json:"expense_id"`
	OwnershipID int32 `json:"ownership_id"`
	ShareBps    int32 `json:"share_bps"`
	AmountCents int32 `json:"amount_cents"`
}

package domain

import "time"

type InvitationStatus string

const (
	InvitationStatusPending InvitationStatus = "PENDING"
	InvitationStatusClaimed InvitationStatus = "CLAIMED"
	InvitationStatusExpired InvitationStatus = "EXPIRED"
	InvitationStatusRevoked InvitationStatus = "REVOKED"
)

// Invitation offers co-ownership of a property. Claiming is idempotent per
// (property, user): a second claim returns the existing ownership instead of
// creating a duplicate stake.
type Invitation struct {
	ID              int32            `json:"id"`
	PropertyID      int32            `json:"property_id"`
	Email           string           `json:"email"`
	Token           string           `json:"-"`
	ShareBps        int32            `json:"share_bps"`
	VotingPower     int32            `json:"voting_power"`
	Role            OwnershipRole    `json:"role"`
	BlackoutManager bool             `json:"blackout_manager"`
	ExpenseApprover bool             `json:"expense_approver"`
	Status          InvitationStatus `json:"status"`
	ExpiresAt       time.Time        `json:"expires_at"`
	CreatedOn       string           `json:"created_on"`
}

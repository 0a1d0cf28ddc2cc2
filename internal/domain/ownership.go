package domain

type OwnershipRole string

const (
	OwnershipRolePrimary   OwnershipRole = "PRIMARY"
	OwnershipRoleOwner     OwnershipRole = "OWNER"
	OwnershipRoleCaretaker OwnershipRole = "CARETAKER"
)

// Ownership is one owner's stake in a property. ShareBps is in basis points
// (10000 = 100%) and is assumed to sum to 10000 across a property's
// ownerships. VotingPower is owner-assigned and independent of share.
type Ownership struct {
	ID              int32         `json:"id"`
	PropertyID      int32         `json:"property_id"`
	UserID          int32         `json:"user_id"`
	ShareBps        int32         `json:"share_bps"`
	VotingPower     int32         `json:"voting_power"`
	Role            OwnershipRole `json:"role"`
	BlackoutManager bool          `json:"blackout_manager"`
	ExpenseApprover bool          `json:"expense_approver"`
	CreatedOn       string        `json:"created_on"`
}

// CanManageBlackouts reports whether this ownership may create or delete
// blackout windows. The primary owner always can.
func (o *Ownership) CanManageBlackouts() bool {
	return o.BlackoutManager || o.Role == OwnershipRolePrimary
}

// CanApproveExpenses reports whether this ownership may vote on expenses.
func (o *Ownership) CanApproveExpenses() bool {
	return o.ExpenseApprover || o.Role == OwnershipRolePrimary
}

package domain

type ApprovalPolicy string

const (
	// ApprovalPolicyMajority requires a strict majority of the total voting
	// power across all ownerships, not just the votes cast.
	ApprovalPolicyMajority ApprovalPolicy = "MAJORITY"
)

type Property struct {
	ID               int32          `json:"id"`
	Name             string         `json:"name"`
	Address          string         `json:"address"`
	NightlyRateCents int32          `json:"nightly_rate_cents"`
	CleaningFeeCents int32          `json:"cleaning_fee_cents"`
	MinNights        int32          `json:"min_nights"`
	ApprovalPolicy   ApprovalPolicy `json:"approval_policy"`
	CreatedOn        string         `json:"created_on"`
	UpdatedOn        string         `json:"updated_on"`
}

// Blackout is an owner-declared unavailable window, independent of bookings.
// Dates are half-open [start_date, end_date) like booking ranges.
type Blackout struct {
	ID         int32  `json:"id"`
	PropertyID int32  `json:"property_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
	CreatedBy  int32  `json:"created_by"` // ownership id
	CreatedOn  string `json:"created_on"`
}

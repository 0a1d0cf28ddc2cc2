package utils

import (
	"fmt"

	"propshare-backend/internal/domain"
)

// TallyOutcome is the decision produced by recomputing a vote set.
type TallyOutcome string

const (
	TallyOutcomePending  TallyOutcome = "PENDING"
	TallyOutcomeApproved TallyOutcome = "APPROVED"
	TallyOutcomeRejected TallyOutcome = "REJECTED"
)

// WeightedVote is one ownership's vote with its voting power attached.
type WeightedVote struct {
	OwnershipID int32
	Power       int32
	Choice      domain.VoteChoice
}

// TallyResult is the full breakdown of a recomputation, kept for audit
// trails and API responses.
type TallyResult struct {
	ApprovalsPower  int32        `json:"approvals_power"`
	RejectionsPower int32        `json:"rejections_power"`
	TotalPower      int32        `json:"total_power"`
	Threshold       int32        `json:"threshold"`
	Outcome         TallyOutcome `json:"outcome"`
	Summary         string       `json:"summary,omitempty"`
}

// MajorityThreshold is the strict majority of the total voting power across
// all ownerships: floor(total/2) + 1. Abstentions count against reaching it.
// With a misconfigured total of 0 the threshold is 1 and can never be met,
// leaving the item pending forever; that behavior is deliberate and must not
// be special-cased away.
func MajorityThreshold(totalVotingPower int32) int32 {
	return totalVotingPower/2 + 1
}

// Tally recomputes the decision from the complete vote set. It is pure,
// deterministic, and order-independent: running it twice over the same votes
// yields the same result, which makes concurrent recomputations
// self-correcting as long as each reads the full committed vote set.
func Tally(votes []WeightedVote, totalVotingPower int32) TallyResult {
	threshold := MajorityThreshold(totalVotingPower)

	var approvals, rejections int32
	for _, v := range votes {
		switch v.Choice {
		case domain.VoteChoiceApprove:
			approvals += v.Power
		case domain.VoteChoiceReject:
			rejections += v.Power
		}
	}

	result := TallyResult{
		ApprovalsPower:  approvals,
		RejectionsPower: rejections,
		TotalPower:      totalVotingPower,
		Threshold:       threshold,
		Outcome:         TallyOutcomePending,
	}

	switch {
	case approvals >= threshold:
		result.Outcome = TallyOutcomeApproved
		result.Summary = fmt.Sprintf("Approved with %d/%d voting power", approvals, totalVotingPower)
	case rejections >= threshold:
		result.Outcome = TallyOutcomeRejected
		result.Summary = fmt.Sprintf("Rejected with %d/%d voting power", rejections, totalVotingPower)
	}

	return result
}

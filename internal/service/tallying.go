package service

import (
	"propshare-backend/internal/domain"
	"propshare-backend/internal/utils"
)

// votingPowerByOwnership indexes voting power per ownership and sums the
// total across ALL ownerships of the property, voters or not. Abstaining
// power is what makes the majority threshold strict.
func votingPowerByOwnership(ownerships []domain.Ownership) (map[int32]int32, int32) {
	power := make(map[int32]int32, len(ownerships))
	var total int32
	for _, o := range ownerships {
		power[o.ID] = o.VotingPower
		total += o.VotingPower
	}
	return power, total
}

func weightBookingVotes(votes []domain.BookingVote, power map[int32]int32) []utils.WeightedVote {
	weighted := make([]utils.WeightedVote, 0, len(votes))
	for _, v := range votes {
		weighted = append(weighted, utils.WeightedVote{
			OwnershipID: v.OwnershipID,
			Power:       power[v.OwnershipID],
			Choice:      v.Choice,
		})
	}
	return weighted
}

func weightExpenseApprovals(approvals []domain.ExpenseApproval, power map[int32]int32) []utils.WeightedVote {
	weighted := make([]utils.WeightedVote, 0, len(approvals))
	for _, a := range approvals {
		weighted = append(weighted, utils.WeightedVote{
			OwnershipID: a.OwnershipID,
			Power:       power[a.OwnershipID],
			Choice:      a.Choice,
		})
	}
	return weighted
}

func validVoteChoice(choice domain.VoteChoice) bool {
	return choice == domain.VoteChoiceApprove || choice == domain.VoteChoiceReject
}

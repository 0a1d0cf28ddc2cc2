package service

import (
	"context"
	"fmt"
	"strings"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/logger"
	"propshare-backend/internal/repository"
	"propshare-backend/internal/utils"
)

type expenseService struct {
	tx       repository.TxRunner
	repos    repository.Repos
	emailSvc EmailService
}

func NewExpenseService(tx repository.TxRunner, repos repository.Repos, emailSvc EmailService) ExpenseService {
	return &expenseService{
		tx:       tx,
		repos:    repos,
		emailSvc: emailSvc,
	}
}

func (s *expenseService) CreateExpense(ctx context.Context, userID, propertyID int32, req CreateExpenseRequest) (*ExpenseDetail, error) {
	logger.EnterMethod("expenseService.CreateExpense", "userID", userID, "propertyID", propertyID, "amountCents", req.AmountCents)

	if req.AmountCents <= 0 {
		return nil, domain.NewValidationError("amount_cents", "must be a positive amount")
	}
	if strings.TrimSpace(req.VendorName) == "" {
		return nil, domain.NewValidationError("vendor_name", "is required")
	}

	var (
		property  *domain.Property
		submitter *domain.Ownership
		detail    *ExpenseDetail
	)
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		property, err = r.Properties.GetByID(ctx, propertyID)
		if err != nil {
			return err
		}
		submitter, err = r.Ownerships.GetByPropertyAndUser(ctx, propertyID, userID)
		if err != nil {
			if domain.KindOf(err) == domain.ErrorKindNotFound {
				return domain.NewAuthorizationError("not an owner of this property")
			}
			return err
		}

		expense := &domain.Expense{
			PropertyID:  propertyID,
			SubmittedBy: submitter.ID,
			AmountCents: req.AmountCents,
			VendorName:  strings.TrimSpace(req.VendorName),
			Category:    req.Category,
			ReceiptURL:  req.ReceiptURL,
			Status:      domain.ExpenseStatusPending,
			Notes:       req.Notes,
		}
		if err := r.Expenses.Create(ctx, expense); err != nil {
			return err
		}

		// Allocations are frozen at submission time. A later ownership
		// change never rewrites who owes what for an existing expense.
		ownerships, err := r.Ownerships.ListByProperty(ctx, propertyID)
		if err != nil {
			return err
		}
		shares := make([]int32, len(ownerships))
		for i, o := range ownerships {
			shares[i] = o.ShareBps
		}
		amounts := utils.SplitAmount(expense.AmountCents, shares)
		allocations := make([]domain.ExpenseAllocation, len(ownerships))
		for i, o := range ownerships {
			allocations[i] = domain.ExpenseAllocation{
				ExpenseID:   expense.ID,
				OwnershipID: o.ID,
				ShareBps:    o.ShareBps,
				AmountCents: amounts[i],
			}
			if err := r.Expenses.CreateAllocation(ctx, &allocations[i]); err != nil {
				return err
			}
		}

		_, totalPower := votingPowerByOwnership(ownerships)
		detail = &ExpenseDetail{
			Expense:     expense,
			Approvals:   nil,
			Allocations: allocations,
			Tally:       utils.Tally(nil, totalPower),
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("expenseService.CreateExpense", err, "propertyID", propertyID)
		return nil, err
	}

	s.notifyExpenseSubmitted(ctx, property, submitter, detail.Expense)

	logger.ExitMethod("expenseService.CreateExpense", "expenseID", detail.Expense.ID)
	return detail, nil
}

func (s *expenseService) GetExpense(ctx context.Context, userID, expenseID int32) (*ExpenseDetail, error) {
	expense, err := s.repos.Expenses.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMembership(ctx, expense.PropertyID, userID); err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, s.repos, expense)
}

func (s *expenseService) ListExpenses(ctx context.Context, userID, propertyID int32, status string, page, pageSize int32) ([]domain.Expense, int32, error) {
	if _, err := s.requireMembership(ctx, propertyID, userID); err != nil {
		return nil, 0, err
	}
	return s.repos.Expenses.ListByProperty(ctx, propertyID, status, page, pageSize)
}

func (s *expenseService) CastApproval(ctx context.Context, userID, expenseID, ownershipID int32, choice domain.VoteChoice, rationale string) (*ExpenseDetail, error) {
	logger.EnterMethod("expenseService.CastApproval", "userID", userID, "expenseID", expenseID, "choice", choice)

	if !validVoteChoice(choice) {
		return nil, domain.NewValidationError("choice", "must be APPROVE or REJECT")
	}

	var (
		detail     *ExpenseDetail
		property   *domain.Property
		decidedNow bool
	)
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		expense, err := r.Expenses.GetByIDForUpdate(ctx, expenseID)
		if err != nil {
			return err
		}
		ownership, err := r.Ownerships.GetByID(ctx, ownershipID)
		if err != nil {
			return err
		}
		if ownership.UserID != userID {
			return domain.NewAuthorizationError("approvals must be cast with your own ownership")
		}
		if ownership.PropertyID != expense.PropertyID {
			return domain.NewAuthorizationError("not an owner of this property")
		}
		if !ownership.CanApproveExpenses() {
			return domain.NewAuthorizationError("ownership lacks the expense approver capability")
		}
		if expense.Status != domain.ExpenseStatusPending {
			return domain.NewConflictError("expense is no longer open for approval")
		}

		approval := &domain.ExpenseApproval{
			ExpenseID:   expenseID,
			OwnershipID: ownershipID,
			Choice:      choice,
			Rationale:   rationale,
		}
		if err := r.Expenses.UpsertApproval(ctx, approval); err != nil {
			return err
		}

		approvals, err := r.Expenses.ListApprovals(ctx, expenseID)
		if err != nil {
			return err
		}
		ownerships, err := r.Ownerships.ListByProperty(ctx, expense.PropertyID)
		if err != nil {
			return err
		}
		power, totalPower := votingPowerByOwnership(ownerships)
		tally := utils.Tally(weightExpenseApprovals(approvals, power), totalPower)

		if tally.Outcome != utils.TallyOutcomePending {
			expense.Status = domain.ExpenseStatus(tally.Outcome)
			expense.DecisionSummary = tally.Summary
			if err := r.Expenses.UpdateDecision(ctx, expense); err != nil {
				return err
			}
			decidedNow = true
		}

		property, err = r.Properties.GetByID(ctx, expense.PropertyID)
		if err != nil {
			return err
		}
		allocations, err := r.Expenses.ListAllocations(ctx, expenseID)
		if err != nil {
			return err
		}
		detail = &ExpenseDetail{
			Expense:     expense,
			Approvals:   approvals,
			Allocations: allocations,
			Tally:       tally,
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("expenseService.CastApproval", err, "expenseID", expenseID)
		return nil, err
	}

	if decidedNow {
		s.notifyExpenseDecided(ctx, property, detail.Expense)
	}

	logger.ExitMethod("expenseService.CastApproval", "expenseID", expenseID, "outcome", detail.Tally.Outcome)
	return detail, nil
}

func (s *expenseService) MarkReimbursed(ctx context.Context, userID, expenseID int32) (*domain.Expense, error) {
	logger.EnterMethod("expenseService.MarkReimbursed", "userID", userID, "expenseID", expenseID)

	var expense *domain.Expense
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		expense, err = r.Expenses.GetByIDForUpdate(ctx, expenseID)
		if err != nil {
			return err
		}
		actor, err := r.Ownerships.GetByPropertyAndUser(ctx, expense.PropertyID, userID)
		if err != nil {
			if domain.KindOf(err) == domain.ErrorKindNotFound {
				return domain.NewAuthorizationError("not an owner of this property")
			}
			return err
		}
		if actor.Role != domain.OwnershipRolePrimary {
			return domain.NewAuthorizationError("only the primary owner may mark expenses reimbursed")
		}
		if expense.Status != domain.ExpenseStatusApproved {
			return domain.NewConflictError("only approved expenses can be marked reimbursed")
		}
		expense.Status = domain.ExpenseStatusReimbursed
		return r.Expenses.UpdateDecision(ctx, expense)
	})
	if err != nil {
		logger.ExitMethodWithError("expenseService.MarkReimbursed", err, "expenseID", expenseID)
		return nil, err
	}

	logger.ExitMethod("expenseService.MarkReimbursed", "expenseID", expenseID)
	return expense, nil
}

func (s *expenseService) requireMembership(ctx context.Context, propertyID, userID int32) (*domain.Ownership, error) {
	ownership, err := s.repos.Ownerships.GetByPropertyAndUser(ctx, propertyID, userID)
	if err != nil {
		if domain.KindOf(err) == domain.ErrorKindNotFound {
			return nil, domain.NewAuthorizationError("not an owner of this property")
		}
		return nil, err
	}
	return ownership, nil
}

func (s *expenseService) assembleDetail(ctx context.Context, r repository.Repos, expense *domain.Expense) (*ExpenseDetail, error) {
	approvals, err := r.Expenses.ListApprovals(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	allocations, err := r.Expenses.ListAllocations(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	ownerships, err := r.Ownerships.ListByProperty(ctx, expense.PropertyID)
	if err != nil {
		return nil, err
	}
	power, totalPower := votingPowerByOwnership(ownerships)
	return &ExpenseDetail{
		Expense:     expense,
		Approvals:   approvals,
		Allocations: allocations,
		Tally:       utils.Tally(weightExpenseApprovals(approvals, power), totalPower),
	}, nil
}

func (s *expenseService) notifyExpenseSubmitted(ctx context.Context, property *domain.Property, submitter *domain.Ownership, expense *domain.Expense) {
	submitterUser, err := s.repos.Users.GetByID(ctx, submitter.UserID)
	if err != nil {
		logger.Warn("Skipping expense submission notifications", "expenseID", expense.ID, "error", err)
		return
	}
	ownerships, err := s.repos.Ownerships.ListByProperty(ctx, property.ID)
	if err != nil {
		logger.Warn("Skipping expense submission notifications", "expenseID", expense.ID, "error", err)
		return
	}

	for _, o := range ownerships {
		if o.ID == submitter.ID {
			continue
		}
		owner, err := s.repos.Users.GetByID(ctx, o.UserID)
		if err != nil {
			continue
		}
		_ = s.emailSvc.SendExpenseSubmittedNotification(ctx, owner.Email, submitterUser.Name, property.Name, expense.VendorName, expense.AmountCents)

		note := &domain.Notification{
			UserID:     owner.ID,
			PropertyID: property.ID,
			Title:      "New Expense Submitted",
			Message:    fmt.Sprintf("%s submitted %s from %s at %s", submitterUser.Name, utils.FormatCents(int64(expense.AmountCents)), expense.VendorName, property.Name),
			Attributes: map[string]string{
				"type":       "EXPENSE_SUBMITTED",
				"expense_id": fmt.Sprintf("%d", expense.ID),
			},
		}
		_ = s.repos.Notifications.Create(ctx, note)
	}
}

func (s *expenseService) notifyExpenseDecided(ctx context.Context, property *domain.Property, expense *domain.Expense) {
	ownerships, err := s.repos.Ownerships.ListByProperty(ctx, property.ID)
	if err != nil {
		logger.Warn("Skipping expense decision notifications", "expenseID", expense.ID, "error", err)
		return
	}

	for _, o := range ownerships {
		owner, err := s.repos.Users.GetByID(ctx, o.UserID)
		if err != nil {
			continue
		}
		_ = s.emailSvc.SendExpenseDecisionNotification(ctx, owner.Email, property.Name, expense.VendorName, expense.DecisionSummary)

		note := &domain.Notification{
			UserID:     owner.ID,
			PropertyID: property.ID,
			Title:      "Expense Decided",
			Message:    fmt.Sprintf("Expense from %s at %s: %s", expense.VendorName, property.Name, expense.DecisionSummary),
			Attributes: map[string]string{
				"type":       "EXPENSE_DECIDED",
				"expense_id": fmt.Sprintf("%d", expense.ID),
				"status":     string(expense.Status),
			},
		}
		_ = s.repos.Notifications.Create(ctx, note)
	}
}

package unit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/service"
)

func expenseFixtures() (*domain.Property, []domain.Ownership) {
	property := &domain.Property{ID: 1, Name: "Lake House"}
	ownerships := []domain.Ownership{
		{ID: 11, PropertyID: 1, UserID: 1, ShareBps: 3333, VotingPower: 2, Role: domain.OwnershipRolePrimary},
		{ID: 12, PropertyID: 1, UserID: 2, ShareBps: 3333, VotingPower: 1, Role: domain.OwnershipRoleOwner, ExpenseApprover: true},
		{ID: 13, PropertyID: 1, UserID: 3, ShareBps: 3334, VotingPower: 1, Role: domain.OwnershipRoleOwner},
	}
	return property, ownerships
}

func TestExpenseService_CreateExpense(t *testing.T) {
	ctx := context.Background()
	property, ownerships := expenseFixtures()

	t.Run("Allocations split by share and sum exactly", func(t *testing.T) {
		repos := newMockRepoSet()
		emailSvc := new(MockEmailService)
		svc := service.NewExpenseService(&fakeTxRunner{repos: repos.bundle()}, repos.bundle(), emailSvc)

		repos.Properties.On("GetByID", ctx, int32(1)).Return(property, nil)
		repos.Ownerships.On("GetByPropertyAndUser", ctx, int32(1), int32(2)).Return(&ownerships[1], nil)
		repos.Expenses.On("Create", ctx, mock.AnythingOfType("*domain.Expense")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Expense).ID = 7
		}).Return(nil)
		repos.Ownerships.On("ListByProperty", ctx, int32(1)).Return(ownerships, nil)
		repos.Expenses.On("CreateAllocation", ctx, mock.AnythingOfType("*domain.ExpenseAllocation")).Return(nil)

		// Post-commit fan-out
		repos.Users.On("GetByID", ctx, mock.AnythingOfType("int32")).Return(&domain.User{Email: "owner@test.com", Name: "Owner"}, nil)
		emailSvc.On("SendExpenseSubmittedNotification", ctx, mock.Anything, mock.Anything, "Lake House", "Roof Co", int32(10000)).Return(nil)
		repos.Notifications.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		detail, err := svc.CreateExpense(ctx, 2, 1, service.CreateExpenseRequest{
			AmountCents: 10000,
			VendorName:  "Roof Co",
			Category:    "repair",
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.ExpenseStatusPending, detail.Expense.Status)
		assert.Len(t, detail.Allocations, 3)

		// 3333 and 3333 bps round to 3333 cents each, the last share takes
		// the remainder so the total is exact
		assert.Equal(t, int32(3333), detail.Allocations[0].AmountCents)
		assert.Equal(t, int32(3333), detail.Allocations[1].AmountCents)
		assert.Equal(t, int32(3334), detail.Allocations[2].AmountCents)

		var sum int32
		for _, a := range detail.Allocations {
			sum += a.AmountCents
		}
		assert.Equal(t, int32(10000), sum)
	})

	t.Run("Amount must be positive", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := service.NewExpenseService(&fakeTxRunner{repos: repos.bundle()}, repos.bundle(), new(MockEmailService))

		detail, err := svc.CreateExpense(ctx, 2, 1, service.CreateExpenseRequest{AmountCents: 0, VendorName: "Roof Co"})
		assert.Error(t, err)
		assert.Nil(t, detail)
		assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
	})

	t.Run("Vendor is required", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := service.NewExpenseService(&fakeTxRunner{repos: repos.bundle()}, repos.bundle(), new(MockEmailService))

		detail, err := svc.CreateExpense(ctx, 2, 1, service.CreateExpenseRequest{AmountCents: 5000, VendorName: "  "})
		assert.Error(t, err)
		assert.Nil(t, detail)
		assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
	})
}

func TestExpenseService_CastApproval(t *testing.T) {
	ctx := context.Background()
	property, ownerships := expenseFixtures()

	pendingExpense := func() *domain.Expense {
		return &domain.Expense{
			ID:          7,
			PropertyID:  1,
			SubmittedBy: 12,
			AmountCents: 10000,
			VendorName:  "Roof Co",
			Status:      domain.ExpenseStatusPending,
		}
	}

	t.Run("Approver without capability is rejected", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := service.NewExpenseService(&fakeTxRunner{repos: repos.bundle()}, repos.bundle(), new(MockEmailService))

		repos.Expenses.On("GetByIDForUpdate", ctx, int32(7)).Return(pendingExpense(), nil)
		repos.Ownerships.On("GetByID", ctx, int32(13)).Return(&ownerships[2], nil)

		detail, err := svc.CastApproval(ctx, 3, 7, 13, domain.VoteChoiceApprove, "")
		assert.Error(t, err)
		assert.Nil(t, detail)
		assert.Equal(t, domain.ErrorKindAuthorization, domain.KindOf(err))
	})

	t.Run("Primary and approver reach majority", func(t *testing.T) {
		repos := newMockRepoSet()
		emailSvc := new(MockEmailService)
		svc := service.NewExpenseService(&fakeTxRunner{repos: repos.bundle()}, repos.bundle(), emailSvc)

		expense := pendingExpense()
		repos.Expenses.On("GetByIDForUpdate", ctx, int32(7)).Return(expense, nil)
		repos.Ownerships.On("GetByID", ctx, int32(12)).Return(&ownerships[1], nil)
		repos.Expenses.On("UpsertApproval", ctx, mock.AnythingOfType("*domain.ExpenseApproval")).Return(nil)
		repos.Expenses.On("ListApprovals", ctx, int32(7)).Return([]domain.ExpenseApproval{
			{ExpenseID: 7, OwnershipID: 11, Choice: domain.VoteChoiceApprove},
			{ExpenseID: 7, OwnershipID: 12, Choice: domain.VoteChoiceApprove},
		}, nil)
		repos.Ownerships.On("ListByProperty", ctx, int32(1)).Return(ownerships, nil)
		repos.Expenses.On("UpdateDecision", ctx, mock.AnythingOfType("*domain.Expense")).Return(nil)
		repos.Properties.On("GetByID", ctx, int32(1)).Return(property, nil)
		repos.Expenses.On("ListAllocations", ctx, int32(7)).Return([]domain.ExpenseAllocation{}, nil)

		repos.Users.On("GetByID", ctx, mock.AnythingOfType("int32")).Return(&domain.User{Email: "owner@test.com"}, nil)
		emailSvc.On("SendExpenseDecisionNotification", ctx, mock.Anything, "Lake House", "Roof Co", "Approved with 3/4 voting power").Return(nil)
		repos.Notifications.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		detail, err := svc.CastApproval(ctx, 2, 7, 12, domain.VoteChoiceApprove, "fair price")
		assert.NoError(t, err)
		assert.Equal(t, domain.ExpenseStatusApproved, detail.Expense.Status)
		assert.Equal(t, "Approved with 3/4 voting power", detail.Expense.DecisionSummary)
	})

	t.Run("Revote replaces instead of duplicating", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := service.NewExpenseService(&fakeTxRunner{repos: repos.bundle()}, repos.bundle(), new(MockEmailService))

		expense := pendingExpense()
		repos.Expenses.On("GetByIDForUpdate", ctx, int32(7)).Return(expense, nil)
		repos.Ownerships.On("GetByID", ctx, int32(12)).Return(&ownerships[1], nil)
		repos.Expenses.On("UpsertApproval", ctx, mock.AnythingOfType("*domain.ExpenseApproval")).Return(nil)
		// The switched vote is the only row for this ownership
		repos.Expenses.On("ListApprovals", ctx, int32(7)).Return([]domain.ExpenseApproval{
			{ExpenseID: 7, OwnershipID: 12, Choice: domain.VoteChoiceReject},
		}, nil)
		repos.Ownerships.On("ListByProperty", ctx, int32(1)).Return(ownerships, nil)
		repos.Properties.On("GetByID", ctx, int32(1)).Return(property, nil)
		repos.Expenses.On("ListAllocations", ctx, int32(7)).Return([]domain.ExpenseAllocation{}, nil)

		detail, err := svc.CastApproval(ctx, 2, 7, 12, domain.VoteChoiceReject, "changed my mind")
		assert.NoError(t, err)
		assert.Equal(t, domain.ExpenseStatusPending, detail.Expense.Status)
		assert.Equal(t, int32(1), detail.Tally.RejectionsPower)
		assert.Equal(t, int32(0), detail.Tally.ApprovalsPower)
	})
}

func TestExpenseService_MarkReimbursed(t *testing.T) {
	ctx := context.Background()
	_, ownerships := expenseFixtures()

	t.Run("Primary marks approved expense reimbursed", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := service.NewExpenseService(&fakeTxRunner{repos: repos.bundle()}, repos.bundle(), new(MockEmailService))

		expense := &domain.Expense{ID: 7, PropertyID: 1, Status: domain.ExpenseStatusApproved}
		repos.Expenses.On("GetByIDForUpdate", ctx, int32(7)).Return(expense, nil)
		repos.Ownerships.On("GetByPropertyAndUser", ctx, int32(1), int32(1)).Return(&ownerships[0], nil)
		repos.Expenses.On("UpdateDecision", ctx, mock.AnythingOfType("*domain.Expense")).Return(nil)

		res, err := svc.MarkReimbursed(ctx, 1, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.ExpenseStatusReimbursed, res.Status)
	})

	t.Run("Non-primary cannot reimburse", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := service.NewExpenseService(&fakeTxRunner{repos: repos.bundle()}, repos.bundle(), new(MockEmailService))

		expense := &domain.Expense{ID: 7, PropertyID: 1, Status: domain.ExpenseStatusApproved}
		repos.Expenses.On("GetByIDForUpdate", ctx, int32(7)).Return(expense, nil)
		repos.Ownerships.On("GetByPropertyAndUser", ctx, int32(1), int32(2)).Return(&ownerships[1], nil)

		res, err := svc.MarkReimbursed(ctx, 2, 7)
		assert.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, domain.ErrorKindAuthorization, domain.KindOf(err))
	})

	t.Run("Pending expense cannot be reimbursed", func(t *testing.T) {
		repos := newMockRepoSet()
		svc := service.NewExpenseService(&fakeTxRunner{repos: repos.bundle()}, repos.bundle(), new(MockEmailService))

		expense := &domain.Expense{ID: 7, PropertyID: 1, Status: domain.ExpenseStatusPending}
		repos.Expenses.On("GetByIDForUpdate", ctx, int32(7)).Return(expense, nil)
		repos.Ownerships.On("GetByPropertyAndUser", ctx, int32(1), int32(1)).Return(&ownerships[0], nil)

		res, err := svc.MarkReimbursed(ctx, 1, 7)
		assert.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, domain.ErrorKindConflict, domain.KindOf(err))
	})
}

package repos

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/repository/postgres"
)

func TestExpenseRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewExpenseRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		expense := &domain.Expense{
			PropertyID:  1,
			SubmittedBy: 12,
			AmountCents: 10000,
			VendorName:  "Roof Co",
			Category:    "repair",
			Status:      domain.ExpenseStatusPending,
		}

		mock.ExpectQuery("INSERT INTO expenses").
			WithArgs(expense.PropertyID, expense.SubmittedBy, expense.AmountCents, expense.VendorName, expense.Category,
				"", expense.Status, "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		err := repo.Create(ctx, expense)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), expense.ID)
	})
}

func TestExpenseRepository_CreateAllocation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewExpenseRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		allocation := &domain.ExpenseAllocation{
			ExpenseID:   7,
			OwnershipID: 11,
			ShareBps:    3333,
			AmountCents: 3333,
		}

		mock.ExpectQuery("INSERT INTO expense_allocations").
			WithArgs(allocation.ExpenseID, allocation.OwnershipID, allocation.ShareBps, allocation.AmountCents).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := repo.CreateAllocation(ctx, allocation)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), allocation.ID)
	})
}

func TestExpenseRepository_UpsertApproval(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewExpenseRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		approval := &domain.ExpenseApproval{
			ExpenseID:   7,
			OwnershipID: 12,
			Choice:      domain.VoteChoiceApprove,
		}

		mock.ExpectQuery("INSERT INTO expense_approvals").
			WithArgs(approval.ExpenseID, approval.OwnershipID, approval.Choice, approval.Rationale, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(2, time.Now()))

		err := repo.UpsertApproval(ctx, approval)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), approval.ID)
	})
}

func TestExpenseRepository_ListApprovals(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewExpenseRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "expense_id", "ownership_id", "choice", "rationale", "created_at", "updated_at"}).
			AddRow(1, 7, 11, "APPROVE", "", time.Now(), time.Now()).
			AddRow(2, 7, 12, "REJECT", "too pricey", time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM expense_approvals WHERE expense_id = \\$1").
			WithArgs(int32(7)).
			WillReturnRows(rows)

		approvals, err := repo.ListApprovals(ctx, 7)
		assert.NoError(t, err)
		assert.Len(t, approvals, 2)
		assert.Equal(t, domain.VoteChoiceReject, approvals[1].Choice)
	})
}

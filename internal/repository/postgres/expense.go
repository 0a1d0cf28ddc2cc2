package postgres

import (
	"context"
	"fmt"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/repository"
)

type expenseRepository struct {
	q Querier
}

func NewExpenseRepository(q Querier) repository.ExpenseRepository {
	return &expenseRepository{q: q}
}

const expenseColumns = `id, property_id, submitted_by, amount_cents, vendor_name, category, receipt_url, status, decision_summary, notes, created_on, updated_on`

func (r *expenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	query := `INSERT INTO expenses (property_id, submitted_by, amount_cents, vendor_name, category, receipt_url, status, decision_summary, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	err := r.q.QueryRowContext(ctx, query,
		e.PropertyID, e.SubmittedBy, e.AmountCents, e.VendorName, e.Category, e.ReceiptURL,
		e.Status, e.DecisionSummary, e.Notes, now, now,
	).Scan(&e.ID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	e.CreatedOn = formatTimestamp(now)
	e.UpdatedOn = formatTimestamp(now)
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id int32) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *expenseRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *expenseRepository) UpdateDecision(ctx context.Context, e *domain.Expense) error {
	query := `UPDATE expenses SET status=$1, decision_summary=$2, updated_on=$3 WHERE id=$4`
	if _, err := r.q.ExecContext(ctx, query, e.Status, e.DecisionSummary, time.Now(), e.ID); err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

func (r *expenseRepository) ListByProperty(ctx context.Context, propertyID int32, status string, page, pageSize int32) ([]domain.Expense, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE property_id = $1`

	args := []any{propertyID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, domain.NewInternalError(err)
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, domain.NewInternalError(err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, count, rows.Err()
}

func (r *expenseRepository) CreateAllocation(ctx context.Context, a *domain.ExpenseAllocation) error {
	query := `INSERT INTO expense_allocations (expense_id, ownership_id, share_bps, amount_cents)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.q.QueryRowContext(ctx, query, a.ExpenseID, a.OwnershipID, a.ShareBps, a.AmountCents).Scan(&a.ID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

func (r *expenseRepository) ListAllocations(ctx context.Context, expenseID int32) ([]domain.ExpenseAllocation, error) {
	query := `SELECT id, expense_id, ownership_id, share_bps, amount_cents
	          FROM expense_allocations WHERE expense_id = $1 ORDER BY ownership_id`
	rows, err := r.q.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	defer rows.Close()

	var allocations []domain.ExpenseAllocation
	for rows.Next() {
		var a domain.ExpenseAllocation
		if err := rows.Scan(&a.ID, &a.ExpenseID, &a.OwnershipID, &a.ShareBps, &a.AmountCents); err != nil {
			return nil, domain.NewInternalError(err)
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

func (r *expenseRepository) UpsertApproval(ctx context.Context, a *domain.ExpenseApproval) error {
	query := `INSERT INTO expense_approvals (expense_id, ownership_id, choice, rationale, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          ON CONFLICT (expense_id, ownership_id)
	          DO UPDATE SET choice = EXCLUDED.choice, rationale = EXCLUDED.rationale, updated_at = EXCLUDED.updated_at
	          RETURNING id, created_at`
	now := time.Now()
	err := r.q.QueryRowContext(ctx, query, a.ExpenseID, a.OwnershipID, a.Choice, a.Rationale, now).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return domain.NewInternalError(err)
	}
	a.UpdatedAt = now
	return nil
}

func (r *expenseRepository) ListApprovals(ctx context.Context, expenseID int32) ([]domain.ExpenseApproval, error) {
	query := `SELECT id, expense_id, ownership_id, choice, rationale, created_at, updated_at
	          FROM expense_approvals WHERE expense_id = $1 ORDER BY ownership_id`
	rows, err := r.q.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	defer rows.Close()

	var approvals []domain.ExpenseApproval
	for rows.Next() {
		var a domain.ExpenseApproval
		if err := rows.Scan(&a.ID, &a.ExpenseID, &a.OwnershipID, &a.Choice, &a.Rationale, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, domain.NewInternalError(err)
		}
		approvals = append(approvals, a)
	}
	return approvals, rows.Err()
}

func (r *expenseRepository) scanOne(row interface{ Scan(...any) error }) (*domain.Expense, error) {
	e, err := scanExpense(row)
	if err != nil {
		return nil, wrapNotFound(err, "expense")
	}
	return e, nil
}

func scanExpense(row interface{ Scan(...any) error }) (*domain.Expense, error) {
	e := &domain.Expense{}
	var createdOn, updatedOn time.Time
	err := row.Scan(&e.ID, &e.PropertyID, &e.SubmittedBy, &e.AmountCents, &e.VendorName, &e.Category,
		&e.ReceiptURL, &e.Status, &e.DecisionSummary, &e.Notes, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}
	e.CreatedOn = formatTimestamp(createdOn)
	e.UpdatedOn = formatTimestamp(updatedOn)
	return e, nil
}

package jobs

import (
	"context"

	"propshare-backend/internal/logger"
)

// reminderAgeDays is how long an item must sit pending before owners who
// have not voted get nudged.
const reminderAgeDays = 2

// SendPendingApprovalReminders emails every owner who has not yet voted on
// a booking or expense that has been pending for a while.
func (jr *JobRunner) SendPendingApprovalReminders() {
	jr.runWithRecovery("SendPendingApprovalReminders", func() {
		ctx := context.Background()
		jr.remindPendingBookings(ctx)
		jr.remindPendingExpenses(ctx)
	})
}

func (jr *JobRunner) remindPendingBookings(ctx context.Context) {
	// Owners with an ownership on the property but no vote row for the
	// booking are the ones still holding up the tally.
	query := `
		SELECT u.email, p.name, b.start_date, b.end_date
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		JOIN ownerships o ON o.property_id = b.property_id
		JOIN users u ON u.id = o.user_id
		LEFT JOIN booking_votes v ON v.booking_id = b.id AND v.ownership_id = o.id
		WHERE b.status = 'PENDING'
		  AND b.created_on < NOW() - make_interval(days => $1)
		  AND v.id IS NULL
	`

	rows, err := jr.db.QueryContext(ctx, query, reminderAgeDays)
	if err != nil {
		logger.Error("Failed to query pending booking reminders", "error", err)
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var email, propertyName, startDate, endDate string
		if err := rows.Scan(&email, &propertyName, &startDate, &endDate); err != nil {
			logger.Error("Failed to scan pending booking reminder", "error", err)
			continue
		}
		item := "booking request for " + startDate + " to " + endDate
		if err := jr.email.SendPendingApprovalReminder(ctx, email, propertyName, item); err != nil {
			logger.Error("Failed to send booking reminder", "email", email, "error", err)
			continue
		}
		count++
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error iterating pending booking reminders", "error", err)
		return
	}

	logger.Info("Sent pending booking reminders", "count", count)
}

func (jr *JobRunner) remindPendingExpenses(ctx context.Context) {
	query := `
		SELECT u.email, p.name, e.vendor_name
		FROM expenses e
		JOIN properties p ON p.id = e.property_id
		JOIN ownerships o ON o.property_id = e.property_id
		JOIN users u ON u.id = o.user_id
		LEFT JOIN expense_approvals a ON a.expense_id = e.id AND a.ownership_id = o.id
		WHERE e.status = 'PENDING'
		  AND e.created_on < NOW() - make_interval(days => $1)
		  AND a.id IS NULL
		  AND (o.expense_approver OR o.role = 'PRIMARY')
	`

	rows, err := jr.db.QueryContext(ctx, query, reminderAgeDays)
	if err != nil {
		logger.Error("Failed to query pending expense reminders", "error", err)
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var email, propertyName, vendorName string
		if err := rows.Scan(&email, &propertyName, &vendorName); err != nil {
			logger.Error("Failed to scan pending expense reminder", "error", err)
			continue
		}
		item := "expense from " + vendorName
		if err := jr.email.SendPendingApprovalReminder(ctx, email, propertyName, item); err != nil {
			logger.Error("Failed to send expense reminder", "email", email, "error", err)
			continue
		}
		count++
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error iterating pending expense reminders", "error", err)
		return
	}

	logger.Info("Sent pending expense reminders", "count", count)
}

package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/logger"
	"propshare-backend/internal/utils"
)

type sendgridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	baseURL   string
}

func NewEmailService(apiKey, fromEmail, fromName, baseURL string) EmailService {
	return &sendgridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
	}
}

func (s *sendgridEmailService) send(to, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return domain.NewInternalError(fmt.Errorf("failed to send email: %w", err))
	}
	if response.StatusCode >= 400 {
		return domain.NewInternalError(fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body))
	}

	logger.Debug("Email sent", "to", to, "subject", subject)
	return nil
}

func (s *sendgridEmailService) SendInvitation(ctx context.Context, email, propertyName, token string) error {
	subject := fmt.Sprintf("You've been invited to co-own %s", propertyName)
	link := fmt.Sprintf("%s/invitations/claim?token=%s", s.baseURL, token)
	plainText := fmt.Sprintf("You have been invited to become a co-owner of %s. Claim your share: %s", propertyName, link)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Co-ownership Invitation</h2>
				<p>You have been invited to become a co-owner of <strong>%s</strong>.</p>
				<p><a href="%s">Claim your share</a></p>
			</body>
		</html>
	`, propertyName, link)
	return s.send(email, subject, plainText, htmlContent)
}

func (s *sendgridEmailService) SendBookingRequestNotification(ctx context.Context, email, requesterName, propertyName, startDate, endDate string) error {
	subject := fmt.Sprintf("New Booking Request: %s", propertyName)
	plainText := fmt.Sprintf("%s requested %s to %s at %s. Your vote decides the outcome.", requesterName, startDate, endDate, propertyName)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>New Booking Request</h2>
				<p><strong>%s</strong> has requested <strong>%s</strong> to <strong>%s</strong> at <strong>%s</strong>.</p>
				<p><a href="%s/bookings">Cast your vote</a></p>
			</body>
		</html>
	`, requesterName, startDate, endDate, propertyName, s.baseURL)
	return s.send(email, subject, plainText, htmlContent)
}

func (s *sendgridEmailService) SendBookingDecisionNotification(ctx context.Context, email, propertyName, decisionSummary string) error {
	subject := fmt.Sprintf("Booking Decided: %s", propertyName)
	plainText := fmt.Sprintf("A booking at %s has been decided. %s", propertyName, decisionSummary)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Booking Decided</h2>
				<p>A booking at <strong>%s</strong> has been decided.</p>
				<p>%s</p>
			</body>
		</html>
	`, propertyName, decisionSummary)
	return s.send(email, subject, plainText, htmlContent)
}

func (s *sendgridEmailService) SendExpenseSubmittedNotification(ctx context.Context, email, submitterName, propertyName, vendorName string, amountCents int32) error {
	amount := utils.FormatCents(int64(amountCents))
	subject := fmt.Sprintf("New Expense: %s", propertyName)
	plainText := fmt.Sprintf("%s submitted an expense of %s from %s at %s.", submitterName, amount, vendorName, propertyName)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>New Expense Submitted</h2>
				<p><strong>%s</strong> submitted an expense of <strong>%s</strong> from <strong>%s</strong> at <strong>%s</strong>.</p>
				<p><a href="%s/expenses">Review and approve</a></p>
			</body>
		</html>
	`, submitterName, amount, vendorName, propertyName, s.baseURL)
	return s.send(email, subject, plainText, htmlContent)
}

func (s *sendgridEmailService) SendExpenseDecisionNotification(ctx context.Context, email, propertyName, vendorName, decisionSummary string) error {
	subject := fmt.Sprintf("Expense Decided: %s", propertyName)
	plainText := fmt.Sprintf("The expense from %s at %s has been decided. %s", vendorName, propertyName, decisionSummary)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Expense Decided</h2>
				<p>The expense from <strong>%s</strong> at <strong>%s</strong> has been decided.</p>
				<p>%s</p>
			</body>
		</html>
	`, vendorName, propertyName, decisionSummary)
	return s.send(email, subject, plainText, htmlContent)
}

func (s *sendgridEmailService) SendPendingApprovalReminder(ctx context.Context, email, propertyName, itemDescription string) error {
	subject := fmt.Sprintf("Reminder: pending approvals at %s", propertyName)
	plainText := fmt.Sprintf("Still waiting on your vote at %s: %s", propertyName, itemDescription)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Pending Approval Reminder</h2>
				<p>Still waiting on your vote at <strong>%s</strong>:</p>
				<p>%s</p>
			</body>
		</html>
	`, propertyName, itemDescription)
	return s.send(email, subject, plainText, htmlContent)
}

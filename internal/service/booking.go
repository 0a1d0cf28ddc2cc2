package service

import (
	"context"
	"fmt"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/logger"
	"propshare-backend/internal/repository"
	"propshare-backend/internal/utils"
)

type bookingService struct {
	tx       repository.TxRunner
	repos    repository.Repos
	emailSvc EmailService
}

func NewBookingService(tx repository.TxRunner, repos repository.Repos, emailSvc EmailService) BookingService {
	return &bookingService{
		tx:       tx,
		repos:    repos,
		emailSvc: emailSvc,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID, propertyID int32, req CreateBookingRequest) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "userID", userID, "propertyID", propertyID)

	start, end, err := utils.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var (
		property  *domain.Property
		requester *domain.Ownership
		booking   *domain.Booking
	)
	err = s.tx.WithinTx(ctx, func(r repository.Repos) error {
		// The row lock serializes concurrent booking creation on the same
		// property; the availability read below stays consistent until
		// commit.
		property, err = r.Properties.GetByIDForUpdate(ctx, propertyID)
		if err != nil {
			return err
		}
		requester, err = r.Ownerships.GetByPropertyAndUser(ctx, propertyID, userID)
		if err != nil {
			if domain.KindOf(err) == domain.ErrorKindNotFound {
				return domain.NewAuthorizationError("not an owner of this property")
			}
			return err
		}

		nights := utils.Nights(start, end)
		if nights < property.MinNights {
			return domain.NewValidationError("end_date", fmt.Sprintf("stay must be at least %d nights", property.MinNights))
		}

		startStr := start.Format(utils.DateLayout)
		endStr := end.Format(utils.DateLayout)
		conflicting, err := r.Bookings.ListOverlapping(ctx, propertyID, startStr, endStr)
		if err != nil {
			return err
		}
		if len(conflicting) > 0 {
			return domain.NewConflictError("requested dates overlap an existing booking")
		}
		blocked, err := r.Blackouts.ListOverlapping(ctx, propertyID, startStr, endStr)
		if err != nil {
			return err
		}
		if len(blocked) > 0 {
			return domain.NewConflictError("requested dates fall in a blackout window")
		}

		booking = &domain.Booking{
			PropertyID:       propertyID,
			RequestedBy:      requester.ID,
			StartDate:        startStr,
			EndDate:          endStr,
			Status:           domain.BookingStatusPending,
			TotalAmountCents: nights*property.NightlyRateCents + property.CleaningFeeCents,
			RequestNotes:     req.RequestNotes,
			GuestName:        req.GuestName,
			GuestEmail:       req.GuestEmail,
			GuestPhone:       req.GuestPhone,
		}
		return r.Bookings.Create(ctx, booking)
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "propertyID", propertyID)
		return nil, err
	}

	s.notifyBookingRequested(ctx, property, requester, booking)

	logger.ExitMethod("bookingService.CreateBooking", "bookingID", booking.ID, "totalAmountCents", booking.TotalAmountCents)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int32) (*BookingDetail, error) {
	booking, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMembership(ctx, booking.PropertyID, userID); err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, s.repos, booking)
}

func (s *bookingService) ListBookings(ctx context.Context, userID, propertyID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	if _, err := s.requireMembership(ctx, propertyID, userID); err != nil {
		return nil, 0, err
	}
	return s.repos.Bookings.ListByProperty(ctx, propertyID, status, page, pageSize)
}

func (s *bookingService) CastVote(ctx context.Context, userID, bookingID, ownershipID int32, choice domain.VoteChoice, rationale string) (*BookingDetail, error) {
	logger.EnterMethod("bookingService.CastVote", "userID", userID, "bookingID", bookingID, "choice", choice)

	if !validVoteChoice(choice) {
		return nil, domain.NewValidationError("choice", "must be APPROVE or REJECT")
	}

	var (
		detail     *BookingDetail
		property   *domain.Property
		decidedNow bool
	)
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		booking, err := r.Bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		ownership, err := r.Ownerships.GetByID(ctx, ownershipID)
		if err != nil {
			return err
		}
		if ownership.UserID != userID {
			return domain.NewAuthorizationError("votes must be cast with your own ownership")
		}
		if ownership.PropertyID != booking.PropertyID {
			return domain.NewAuthorizationError("not an owner of this property")
		}
		if booking.Status != domain.BookingStatusPending {
			return domain.NewConflictError("booking is no longer open for voting")
		}

		vote := &domain.BookingVote{
			BookingID:   bookingID,
			OwnershipID: ownershipID,
			Choice:      choice,
			Rationale:   rationale,
		}
		if err := r.Bookings.UpsertVote(ctx, vote); err != nil {
			return err
		}

		// Recompute from the full committed vote set, never incrementally:
		// recomputation is idempotent and self-correcting under races.
		votes, err := r.Bookings.ListVotes(ctx, bookingID)
		if err != nil {
			return err
		}
		ownerships, err := r.Ownerships.ListByProperty(ctx, booking.PropertyID)
		if err != nil {
			return err
		}
		power, totalPower := votingPowerByOwnership(ownerships)
		tally := utils.Tally(weightBookingVotes(votes, power), totalPower)

		if tally.Outcome != utils.TallyOutcomePending {
			booking.Status = domain.BookingStatus(tally.Outcome)
			booking.DecisionSummary = tally.Summary
			if err := r.Bookings.UpdateDecision(ctx, booking); err != nil {
				return err
			}
			decidedNow = true
		}

		property, err = r.Properties.GetByID(ctx, booking.PropertyID)
		if err != nil {
			return err
		}
		detail = &BookingDetail{Booking: booking, Votes: votes, Tally: tally}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CastVote", err, "bookingID", bookingID)
		return nil, err
	}

	if decidedNow {
		s.notifyBookingDecided(ctx, property, detail.Booking)
	}

	logger.ExitMethod("bookingService.CastVote", "bookingID", bookingID, "outcome", detail.Tally.Outcome)
	return detail, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CancelBooking", "userID", userID, "bookingID", bookingID)

	var booking *domain.Booking
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		booking, err = r.Bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		requester, err := r.Ownerships.GetByID(ctx, booking.RequestedBy)
		if err != nil {
			return err
		}
		if requester.UserID != userID {
			return domain.NewAuthorizationError("only the requester may cancel a booking")
		}
		if booking.Status != domain.BookingStatusPending {
			return domain.NewConflictError("only pending bookings can be cancelled")
		}
		booking.Status = domain.BookingStatusCancelled
		return r.Bookings.UpdateDecision(ctx, booking)
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CancelBooking", err, "bookingID", bookingID)
		return nil, err
	}

	logger.ExitMethod("bookingService.CancelBooking", "bookingID", bookingID)
	return booking, nil
}

func (s *bookingService) requireMembership(ctx context.Context, propertyID, userID int32) (*domain.Ownership, error) {
	ownership, err := s.repos.Ownerships.GetByPropertyAndUser(ctx, propertyID, userID)
	if err != nil {
		if domain.KindOf(err) == domain.ErrorKindNotFound {
			return nil, domain.NewAuthorizationError("not an owner of this property")
		}
		return nil, err
	}
	return ownership, nil
}

func (s *bookingService) assembleDetail(ctx context.Context, r repository.Repos, booking *domain.Booking) (*BookingDetail, error) {
	votes, err := r.Bookings.ListVotes(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	ownerships, err := r.Ownerships.ListByProperty(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	power, totalPower := votingPowerByOwnership(ownerships)
	return &BookingDetail{
		Booking: booking,
		Votes:   votes,
		Tally:   utils.Tally(weightBookingVotes(votes, power), totalPower),
	}, nil
}

// Notification delivery is best-effort: the booking transaction already
// committed, so failures here are logged and dropped.
func (s *bookingService) notifyBookingRequested(ctx context.Context, property *domain.Property, requester *domain.Ownership, booking *domain.Booking) {
	requesterUser, err := s.repos.Users.GetByID(ctx, requester.UserID)
	if err != nil {
		logger.Warn("Skipping booking request notifications", "bookingID", booking.ID, "error", err)
		return
	}
	ownerships, err := s.repos.Ownerships.ListByProperty(ctx, property.ID)
	if err != nil {
		logger.Warn("Skipping booking request notifications", "bookingID", booking.ID, "error", err)
		return
	}

	for _, o := range ownerships {
		if o.ID == requester.ID {
			continue
		}
		owner, err := s.repos.Users.GetByID(ctx, o.UserID)
		if err != nil {
			continue
		}
		_ = s.emailSvc.SendBookingRequestNotification(ctx, owner.Email, requesterUser.Name, property.Name, booking.StartDate, booking.EndDate)

		note := &domain.Notification{
			UserID:     owner.ID,
			PropertyID: property.ID,
			Title:      "New Booking Request",
			Message:    fmt.Sprintf("%s requested %s to %s at %s", requesterUser.Name, booking.StartDate, booking.EndDate, property.Name),
			Attributes: map[string]string{
				"type":       "BOOKING_REQUESTED",
				"booking_id": fmt.Sprintf("%d", booking.ID),
			},
		}
		_ = s.repos.Notifications.Create(ctx, note)
	}
}

func (s *bookingService) notifyBookingDecided(ctx context.Context, property *domain.Property, booking *domain.Booking) {
	ownerships, err := s.repos.Ownerships.ListByProperty(ctx, property.ID)
	if err != nil {
		logger.Warn("Skipping booking decision notifications", "bookingID", booking.ID, "error", err)
		return
	}

	for _, o := range ownerships {
		owner, err := s.repos.Users.GetByID(ctx, o.UserID)
		if err != nil {
			continue
		}
		_ = s.emailSvc.SendBookingDecisionNotification(ctx, owner.Email, property.Name, booking.DecisionSummary)

		note := &domain.Notification{
			UserID:     owner.ID,
			PropertyID: property.ID,
			Title:      "Booking Decided",
			Message:    fmt.Sprintf("Booking %s to %s at %s: %s", booking.StartDate, booking.EndDate, property.Name, booking.DecisionSummary),
			Attributes: map[string]string{
				"type":       "BOOKING_DECIDED",
				"booking_id": fmt.Sprintf("%d", booking.ID),
				"status":     string(booking.Status),
			},
		}
		_ = s.repos.Notifications.Create(ctx, note)
	}
}

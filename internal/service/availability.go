package service

import (
	"context"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/logger"
	"propshare-backend/internal/repository"
	"propshare-backend/internal/utils"
)

// maxCalendarDays bounds the reporting window so a single request cannot
// walk years of calendar.
const maxCalendarDays = 366

type availabilityService struct {
	propertyRepo  repository.PropertyRepository
	ownershipRepo repository.OwnershipRepository
	bookingRepo   repository.BookingRepository
	blackoutRepo  repository.BlackoutRepository
}

func NewAvailabilityService(
	propertyRepo repository.PropertyRepository,
	ownershipRepo repository.OwnershipRepository,
	bookingRepo repository.BookingRepository,
	blackoutRepo repository.BlackoutRepository,
) AvailabilityService {
	return &availabilityService{
		propertyRepo:  propertyRepo,
		ownershipRepo: ownershipRepo,
		bookingRepo:   bookingRepo,
		blackoutRepo:  blackoutRepo,
	}
}

func (s *availabilityService) CheckAvailability(ctx context.Context, userID, propertyID int32, from, to string) (*AvailabilityReport, error) {
	logger.EnterMethod("availabilityService.CheckAvailability", "propertyID", propertyID, "from", from, "to", to)

	start, end, err := utils.ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	if int(end.Sub(start).Hours()/24) > maxCalendarDays {
		return nil, domain.NewValidationError("to", "reporting window may not exceed one year")
	}

	if _, err := s.propertyRepo.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}
	if _, err := s.ownershipRepo.GetByPropertyAndUser(ctx, propertyID, userID); err != nil {
		if domain.KindOf(err) == domain.ErrorKindNotFound {
			return nil, domain.NewAuthorizationError("not an owner of this property")
		}
		return nil, err
	}

	bookings, err := s.bookingRepo.ListOverlapping(ctx, propertyID, from, to)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.CheckAvailability", err, "propertyID", propertyID)
		return nil, err
	}
	blackouts, err := s.blackoutRepo.ListOverlapping(ctx, propertyID, from, to)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.CheckAvailability", err, "propertyID", propertyID)
		return nil, err
	}

	report := &AvailabilityReport{
		PropertyID: propertyID,
		From:       from,
		To:         to,
		Days:       buildCalendar(start, end, bookings, blackouts),
		Bookings:   bookings,
		Blackouts:  blackouts,
	}

	logger.ExitMethod("availabilityService.CheckAvailability", "propertyID", propertyID, "days", len(report.Days))
	return report, nil
}

// buildCalendar marks each UTC day in [start, end) unavailable when it falls
// inside any booking's or blackout's half-open range, using the same overlap
// rule as booking creation applied to a one-day window.
func buildCalendar(start, end time.Time, bookings []domain.Booking, blackouts []domain.Blackout) []DayAvailability {
	var days []DayAvailability
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		days = append(days, DayAvailability{
			Date:      day.Format(utils.DateLayout),
			Available: dayIsFree(day, bookings, blackouts),
		})
	}
	return days
}

func dayIsFree(day time.Time, bookings []domain.Booking, blackouts []domain.Blackout) bool {
	for _, b := range bookings {
		bStart, err1 := utils.ParseDate("start_date", b.StartDate)
		bEnd, err2 := utils.ParseDate("end_date", b.EndDate)
		if err1 == nil && err2 == nil && utils.DayWithin(day, bStart, bEnd) {
			return false
		}
	}
	for _, bl := range blackouts {
		blStart, err1 := utils.ParseDate("start_date", bl.StartDate)
		blEnd, err2 := utils.ParseDate("end_date", bl.EndDate)
		if err1 == nil && err2 == nil && utils.DayWithin(day, blStart, blEnd) {
			return false
		}
	}
	return true
}

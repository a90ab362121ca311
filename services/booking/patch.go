package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "trimly/database/repository/booking"
	"trimly/models"
	"trimly/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// resolveBookingFor loads a booking and enforces who may touch it: the
// owning barber or the booked customer.
func (s *DefaultBookingService) resolveBookingFor(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, *models.Shop, error) {
	b, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, &NotFoundError{Entity: "booking", ID: bookingID}
		}
		return nil, nil, err
	}

	shop, err := s.loadActiveShop(ctx, b.ShopID)
	if err != nil {
		return nil, nil, err
	}

	switch actor.Role {
	case models.RoleBarber:
		if shop.UserID != actor.UserID {
			return nil, nil, &AccessDeniedError{Message: "booking belongs to another shop"}
		}
	case models.RoleCustomer:
		customer, err := s.CustomerRepo.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, nil, &AccessDeniedError{Message: "no customer profile for this account"}
		}
		if b.CustomerID != customer.ID {
			return nil, nil, &AccessDeniedError{Message: "booking belongs to another customer"}
		}
	default:
		return nil, nil, &AccessDeniedError{Message: "unknown role"}
	}
	return b, shop, nil
}

// checkLeadTime rejects changes inside the shop's cancel lead window.
func (s *DefaultBookingService) checkLeadTime(b *models.Booking, shop *models.Shop) error {
	leadHours := models.DefaultCancelLeadHours
	if shop.Schedule != nil {
		leadHours = shop.Schedule.LeadHours()
	}
	startMin, err := utils.MinutesOfDay(b.StartTime)
	if err != nil {
		return nil
	}
	start, err := utils.CivilInstant(b.Date, startMin)
	if err != nil {
		return nil
	}
	if s.now().Add(time.Duration(leadHours) * time.Hour).After(start) {
		return &LeadTimeError{Hours: leadHours}
	}
	return nil
}

func (s *DefaultBookingService) Cancel(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error) {
	b, shop, err := s.resolveBookingFor(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingConfirmed {
		return nil, NewValidationError("booking is already %s", b.Status)
	}
	if err := s.checkLeadTime(b, shop); err != nil {
		return nil, err
	}

	err = utils.WithRetry(ctx, 2, utils.IsTransientStoreError, func(ctx context.Context) error {
		return s.BookingRepo.Terminate(ctx, b.ID, models.BookingCanceled, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("error canceling booking %s: %w", b.ID, err)
	}
	b.Status = models.BookingCanceled

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, shop.ID)
	}
	return b, nil
}

// Reschedule re-times a CONFIRMED booking in place: same identity, same
// status, new date and times, customer confirmation cleared. The new slot
// goes through the full availability protocol.
func (s *DefaultBookingService) Reschedule(ctx context.Context, actor models.Principal, bookingID, date, startTime string) (*models.Booking, error) {
	if err := validateDateTime(date, startTime); err != nil {
		return nil, err
	}

	b, shop, err := s.resolveBookingFor(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingConfirmed {
		return nil, NewValidationError("booking is already %s", b.Status)
	}
	if err := s.checkLeadTime(b, shop); err != nil {
		return nil, err
	}

	services, ok, err := s.CatalogRepo.GetActiveOrdered(ctx, shop.ID, []string{b.ServiceID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewValidationError("the booked service is no longer available")
	}

	day, err := s.loadDay(ctx, shop, date)
	if err != nil {
		return nil, err
	}
	// The booking's own rows must not block its new slot.
	day.Bookings = excludeBooking(day.Bookings, b.ID)
	slots := computeSlots(shop.Schedule, services, date, s.now(), day)
	if !containsSlot(slots, startTime) {
		return nil, &ConflictError{Alternatives: firstN(slots, maxAlternatives)}
	}

	buffer := 0
	if shop.Schedule != nil {
		buffer = shop.Schedule.BufferMinutes
	}
	startMin, err := utils.MinutesOfDay(startTime)
	if err != nil {
		return nil, NewValidationError("invalid start time %q", startTime)
	}
	endTime := utils.HHMM(startMin + services[0].DurationMinutes + services[0].PrepMinutes + buffer)

	moved := *b
	moved.Date = date
	moved.StartTime = startTime
	moved.EndTime = endTime
	claims := claimSlots(shop.Schedule, []models.Booking{moved})

	err = utils.WithRetry(ctx, 2, utils.IsTransientStoreError, func(ctx context.Context) error {
		return s.BookingRepo.Reschedule(ctx, b.ID, date, startTime, endTime, claims)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, &ConflictError{Alternatives: firstN(slots, maxAlternatives)}
		}
		return nil, fmt.Errorf("error rescheduling booking %s: %w", b.ID, err)
	}

	moved.CustomerConfirmedAt = nil
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, shop.ID)
	}
	return &moved, nil
}

// ConfirmPresence stamps the customer's confirmation. Always allowed while
// the booking is live, regardless of lead time; re-confirming overwrites
// the stamp.
func (s *DefaultBookingService) ConfirmPresence(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error) {
	b, _, err := s.resolveBookingFor(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingConfirmed {
		return nil, NewValidationError("booking is already %s", b.Status)
	}

	at := s.now()
	if err := s.BookingRepo.SetCustomerConfirmed(ctx, b.ID, at); err != nil {
		return nil, fmt.Errorf("error confirming booking %s: %w", b.ID, err)
	}
	b.CustomerConfirmedAt = &at
	return b, nil
}

func excludeBooking(bookings []models.Booking, id string) []models.Booking {
	out := bookings[:0]
	for _, b := range bookings {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

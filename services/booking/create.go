package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "trimly/database/repository/booking"
	"trimly/models"
	"trimly/services/notification"
	"trimly/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const maxAlternatives = 3

// Create books the ordered service chain for a known customer. All rows and
// their slot claims commit atomically; a lost race surfaces as a
// ConflictError with fresh alternatives.
func (s *DefaultBookingService) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if err := validateDateTime(req.Date, req.StartTime); err != nil {
		return nil, err
	}
	if len(req.ServiceIDs) == 0 {
		return nil, NewValidationError("at least one service is required")
	}

	shop, err := s.loadActiveShop(ctx, req.ShopID)
	if err != nil {
		return nil, err
	}

	customer, err := s.CustomerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Entity: "customer", ID: req.CustomerID}
		}
		return nil, err
	}
	if err := guardCustomer(customer, req.ShopID, s.now()); err != nil {
		return nil, err
	}

	return s.commitChain(ctx, shop, customer, req.ServiceIDs, req.Date, req.StartTime, req.Notes)
}

// commitChain is the shared tail of the online and staff-entered paths:
// availability re-check, row chaining, atomic commit, post-commit effects.
func (s *DefaultBookingService) commitChain(
	ctx context.Context,
	shop *models.Shop,
	customer *models.Customer,
	serviceIDs []string,
	date, startTime, notes string,
) (*CreateResult, error) {
	services, ok, err := s.CatalogRepo.GetActiveOrdered(ctx, shop.ID, serviceIDs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewValidationError("one or more services are invalid for this shop")
	}

	day, err := s.loadDay(ctx, shop, date)
	if err != nil {
		return nil, err
	}
	slots := computeSlots(shop.Schedule, services, date, s.now(), day)
	if !containsSlot(slots, startTime) {
		return nil, &ConflictError{Alternatives: firstN(slots, maxAlternatives)}
	}

	rows, err := chainRows(shop, customer.ID, services, date, startTime, notes, s.now())
	if err != nil {
		return nil, err
	}
	claims := claimSlots(shop.Schedule, rows)

	err = utils.WithRetry(ctx, 2, utils.IsTransientStoreError, func(ctx context.Context) error {
		return s.BookingRepo.CreateSequential(ctx, rows, claims)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			// Lost the race. Refresh the picture for the suggestion list.
			fresh, loadErr := s.loadDay(ctx, shop, date)
			if loadErr != nil {
				return nil, &ConflictError{}
			}
			latest := computeSlots(shop.Schedule, services, date, s.now(), fresh)
			return nil, &ConflictError{Alternatives: firstN(latest, maxAlternatives)}
		}
		return nil, fmt.Errorf("error committing booking chain: %w", err)
	}

	// First successful booking locks the customer's preferred shop.
	if customer.PreferredShopID == "" {
		if err := s.CustomerRepo.BindPreferredShop(ctx, customer.ID, shop.ID); err != nil {
			utils.GetLogger().Warn("failed to bind preferred shop",
				zap.String("customerID", customer.ID), zap.Error(err))
		}
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, shop.ID)
	}

	serviceNames := make([]string, len(services))
	for i, svc := range services {
		serviceNames[i] = svc.Name
	}
	s.notifyNewBooking(ctx, shop, customer, rows, serviceNames)

	ids := make([]string, len(rows))
	for i, b := range rows {
		ids[i] = b.ID
	}
	return &CreateResult{
		Bookings:   rows,
		BookingIDs: ids,
		CustomerID: customer.ID,
		WhatsAppLink: notification.WhatsAppLink(shop.Phone,
			notification.BookingConfirmedMessage(customer.Name, customer.Phone, rows, serviceNames)),
	}, nil
}

// chainRows walks the ordered service list: each row starts where the
// previous one's duration + prep + buffer ended.
func chainRows(shop *models.Shop, customerID string, services []models.Service, date, startTime, notes string, now time.Time) ([]models.Booking, error) {
	cursor, err := utils.MinutesOfDay(startTime)
	if err != nil {
		return nil, NewValidationError("invalid start time %q", startTime)
	}
	buffer := 0
	if shop.Schedule != nil {
		buffer = shop.Schedule.BufferMinutes
	}

	rows := make([]models.Booking, 0, len(services))
	for _, svc := range services {
		end := cursor + svc.DurationMinutes + svc.PrepMinutes + buffer
		rows = append(rows, models.Booking{
			ID:         uuid.New().String(),
			ShopID:     shop.ID,
			CustomerID: customerID,
			ServiceID:  svc.ID,
			Date:       date,
			StartTime:  utils.HHMM(cursor),
			EndTime:    utils.HHMM(end),
			Status:     models.BookingConfirmed,
			Notes:      notes,
			CreatedAt:  now,
		})
		cursor = end
	}
	return rows, nil
}

// claimSlots emits one claim per grid step whose cell intersects a row's
// [start, end) interval. Any two overlapping intervals on the grid share at
// least one such cell, which is what makes the unique claim _id a complete
// exclusion constraint.
func claimSlots(policy *models.SchedulePolicy, rows []models.Booking) []models.SlotClaim {
	if policy == nil || policy.SlotMinutes <= 0 || len(rows) == 0 {
		return nil
	}
	openMin, err := utils.MinutesOfDay(policy.OpenTime)
	if err != nil {
		openMin = 0
	}
	step := policy.SlotMinutes

	seen := make(map[string]bool)
	var claims []models.SlotClaim
	for _, b := range rows {
		start, err1 := utils.MinutesOfDay(b.StartTime)
		end, err2 := utils.MinutesOfDay(b.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		// First grid cell whose [cell, cell+step) intersects [start, end).
		cell := openMin + ((start-openMin)/step)*step
		if cell > start {
			cell -= step
		}
		for ; cell < end; cell += step {
			if cell+step <= start {
				continue
			}
			slot := utils.HHMM(cell)
			id := fmt.Sprintf("%s|%s|%s", b.ShopID, b.Date, slot)
			if seen[id] {
				continue
			}
			seen[id] = true
			claims = append(claims, models.SlotClaim{
				ID:        id,
				ShopID:    b.ShopID,
				Date:      b.Date,
				Slot:      slot,
				BookingID: b.ID,
			})
		}
	}
	return claims
}

func (s *DefaultBookingService) notifyNewBooking(ctx context.Context, shop *models.Shop, customer *models.Customer, rows []models.Booking, serviceNames []string) {
	if s.Notifier == nil || len(rows) == 0 {
		return
	}
	first := rows[0]
	body := fmt.Sprintf("%s agendou para %s as %s", customer.Name,
		utils.FormatCivilDateBR(first.Date), first.StartTime)
	if err := s.Notifier.SendShopPush(ctx, shop.ID, "Novo agendamento", body, map[string]string{
		"booking_id": first.ID,
		"date":       first.Date,
	}); err != nil {
		utils.GetLogger().Debug("new booking push failed", zap.Error(err))
	}
}

func containsSlot(slots []string, want string) bool {
	for _, s := range slots {
		if s == want {
			return true
		}
	}
	return false
}

func firstN(slots []string, n int) []string {
	if len(slots) <= n {
		return slots
	}
	return slots[:n]
}

package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "trimly/database/repository/booking"
	catalogRepo "trimly/database/repository/catalog"
	customerRepo "trimly/database/repository/customer"
	shopRepo "trimly/database/repository/shop"
	"trimly/models"
	"trimly/services/booking"
	"trimly/services/notification"
	"trimly/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	// sweepLookbackDays widens the scan floor so date-only filtering never
	// misses a booking whose start is still ahead of now.
	sweepLookbackDays = 2
	sweepBatchLimit   = 200
	sweepHorizon      = 24 * time.Hour
)

// SweepResult reports one run of the scheduled reminder sweep.
type SweepResult struct {
	Processed int            `json:"processed"`
	Reminders []ReminderItem `json:"reminders"`
}

type ReminderItem struct {
	BookingID    string `json:"booking_id"`
	WhatsAppLink string `json:"wa_link,omitempty"`
}

// ReminderService finds upcoming bookings that still need a reminder and
// stamps them. Sending is a side effect only; booking status never changes.
type ReminderService interface {
	// Sweep batch-stamps CONFIRMED bookings starting within the next 24
	// hours that have no reminder yet.
	Sweep(ctx context.Context) (*SweepResult, error)
	// SendOne re-sends a reminder for a single booking. Idempotent: the
	// stamp is overwritten, never duplicated.
	SendOne(ctx context.Context, shopID, bookingID string) (*ReminderItem, error)
}

// DefaultReminderService implements ReminderService.
type DefaultReminderService struct {
	BookingRepo  bookingRepo.BookingRepository
	CustomerRepo customerRepo.CustomerRepository
	ShopRepo     shopRepo.ShopRepository
	CatalogRepo  catalogRepo.CatalogRepository
	Notifier     notification.NotificationService
	Now          func() time.Time
}

func (s *DefaultReminderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultReminderService) Sweep(ctx context.Context) (*SweepResult, error) {
	logger := utils.GetLogger()
	now := s.now()

	floor, err := utils.AddCivilDays(utils.CivilToday(now), -sweepLookbackDays)
	if err != nil {
		return nil, err
	}
	candidates, err := s.BookingRepo.ListReminderDue(ctx, floor, sweepBatchLimit)
	if err != nil {
		return nil, fmt.Errorf("error scanning reminder candidates: %w", err)
	}

	due := make([]models.Booking, 0, len(candidates))
	for _, b := range candidates {
		start, ok := bookingStart(b)
		if !ok {
			continue
		}
		if start.After(now) && !start.After(now.Add(sweepHorizon)) {
			due = append(due, b)
		}
	}

	result := &SweepResult{Processed: len(due), Reminders: []ReminderItem{}}
	if len(due) == 0 {
		return result, nil
	}

	ids := make([]string, len(due))
	for i, b := range due {
		ids[i] = b.ID
	}
	if err := s.BookingRepo.MarkReminderSent(ctx, ids, now); err != nil {
		return nil, fmt.Errorf("error stamping reminders: %w", err)
	}

	for _, b := range due {
		item := s.remind(ctx, b)
		result.Reminders = append(result.Reminders, item)
	}
	logger.Info("reminder sweep completed", zap.Int("processed", len(due)))
	return result, nil
}

func (s *DefaultReminderService) SendOne(ctx context.Context, shopID, bookingID string) (*ReminderItem, error) {
	b, err := s.BookingRepo.GetForShop(ctx, shopID, bookingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &booking.NotFoundError{Entity: "booking", ID: bookingID}
		}
		return nil, err
	}
	if b.Status != models.BookingConfirmed {
		return nil, booking.NewValidationError("booking is already %s", b.Status)
	}

	if err := s.BookingRepo.MarkReminderSent(ctx, []string{b.ID}, s.now()); err != nil {
		return nil, fmt.Errorf("error stamping reminder: %w", err)
	}
	item := s.remind(ctx, *b)
	return &item, nil
}

// remind builds the messages and pushes them, best effort.
func (s *DefaultReminderService) remind(ctx context.Context, b models.Booking) ReminderItem {
	logger := utils.GetLogger()
	item := ReminderItem{BookingID: b.ID}

	customer, err := s.CustomerRepo.GetByID(ctx, b.CustomerID)
	if err != nil {
		logger.Warn("reminder: customer lookup failed",
			zap.String("bookingID", b.ID), zap.Error(err))
		return item
	}
	shop, err := s.ShopRepo.GetByID(ctx, b.ShopID)
	if err != nil {
		logger.Warn("reminder: shop lookup failed",
			zap.String("bookingID", b.ID), zap.Error(err))
		return item
	}
	serviceName := ""
	if svc, err := s.CatalogRepo.GetByID(ctx, b.ServiceID); err == nil {
		serviceName = svc.Name
	}

	item.WhatsAppLink = notification.WhatsAppLink(shop.Phone,
		notification.ReminderMessage(customer.Name, serviceName, b))

	if s.Notifier != nil {
		body := notification.CustomerReminderMessage(customer.Name, shop.Name, b)
		if err := s.Notifier.SendCustomerPush(ctx, customer.ID, "Lembrete de agendamento", body, map[string]string{
			"booking_id": b.ID,
			"date":       b.Date,
		}); err != nil {
			logger.Debug("reminder push failed", zap.String("bookingID", b.ID), zap.Error(err))
		}
	}
	return item
}

func bookingStart(b models.Booking) (time.Time, bool) {
	min, err := utils.MinutesOfDay(b.StartTime)
	if err != nil {
		return time.Time{}, false
	}
	at, err := utils.CivilInstant(b.Date, min)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

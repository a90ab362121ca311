package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trimly/models"
	"trimly/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// NoShowBlockThreshold is the counter value that triggers a block.
	NoShowBlockThreshold = 2
	noShowBlockDays      = 30
)

// MarkNoShow moves a booking to NO_SHOW and bumps the customer's counter.
// Hitting the threshold blocks the customer for thirty days. Re-marking an
// already NO_SHOW booking is a no-op so the counter never double counts.
func (s *DefaultBookingService) MarkNoShow(ctx context.Context, shopID, bookingID string) (*NoShowResult, error) {
	b, err := s.BookingRepo.GetForShop(ctx, shopID, bookingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Entity: "booking", ID: bookingID}
		}
		return nil, err
	}

	customer, err := s.CustomerRepo.GetByID(ctx, b.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("error loading customer %s: %w", b.CustomerID, err)
	}

	if b.Status == models.BookingNoShow {
		return &NoShowResult{
			NoShowCount:  customer.NoShowCount,
			BlockedUntil: customer.BlockedUntil,
		}, nil
	}
	if b.Status != models.BookingConfirmed {
		return nil, NewValidationError("booking is already %s", b.Status)
	}

	now := s.now()
	err = utils.WithRetry(ctx, 2, utils.IsTransientStoreError, func(ctx context.Context) error {
		return s.BookingRepo.Terminate(ctx, b.ID, models.BookingNoShow, map[string]interface{}{
			"no_show_marked_at": now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error marking booking %s as no-show: %w", b.ID, err)
	}

	count := customer.NoShowCount + 1
	var blockedUntil *time.Time
	if count >= NoShowBlockThreshold {
		until := now.AddDate(0, 0, noShowBlockDays)
		blockedUntil = &until
	}
	if err := s.CustomerRepo.ApplyNoShow(ctx, customer.ID, count, blockedUntil); err != nil {
		return nil, fmt.Errorf("error updating no-show counter for customer %s: %w", customer.ID, err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, shopID)
	}
	return &NoShowResult{NoShowCount: count, BlockedUntil: blockedUntil}, nil
}

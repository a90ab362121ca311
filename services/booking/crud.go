package booking

import (
	"context"
	"errors"

	"trimly/models"
	"trimly/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

func (s *DefaultBookingService) GetForShop(ctx context.Context, shopID, bookingID string) (*models.Booking, error) {
	b, err := s.BookingRepo.GetForShop(ctx, shopID, bookingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Entity: "booking", ID: bookingID}
		}
		return nil, err
	}
	return b, nil
}

// ListAgenda returns every booking on the shop's date, terminal ones
// included, ordered by start time.
func (s *DefaultBookingService) ListAgenda(ctx context.Context, shopID, date string) ([]models.Booking, error) {
	if !utils.ValidCivilDate(date) {
		return nil, NewValidationError("invalid date %q", date)
	}
	return s.BookingRepo.ListByShopDate(ctx, shopID, date)
}

func (s *DefaultBookingService) ListForCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return s.BookingRepo.ListByCustomer(ctx, customerID)
}

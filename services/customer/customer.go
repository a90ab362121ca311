package customer

import (
	"context"
	"errors"
	"strings"

	customerRepo "trimly/database/repository/customer"
	"trimly/models"
	"trimly/services/booking"

	"go.mongodb.org/mongo-driver/mongo"
)

// CustomerService manages client profiles. Booking history lives on the
// booking service; this is the profile surface.
type CustomerService interface {
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	GetByUserID(ctx context.Context, userID string) (*models.Customer, error)
	ListForShop(ctx context.Context, shopID string) ([]models.Customer, error)
	UpdateProfile(ctx context.Context, id string, req ProfileUpdate) (*models.Customer, error)
}

type ProfileUpdate struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	FCMToken *string `json:"fcm_token"`
}

// DefaultCustomerService implements CustomerService.
type DefaultCustomerService struct {
	CustomerRepo customerRepo.CustomerRepository
}

func (s *DefaultCustomerService) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	c, err := s.CustomerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &booking.NotFoundError{Entity: "customer", ID: id}
		}
		return nil, err
	}
	return c, nil
}

func (s *DefaultCustomerService) GetByUserID(ctx context.Context, userID string) (*models.Customer, error) {
	c, err := s.CustomerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &booking.NotFoundError{Entity: "customer", ID: userID}
		}
		return nil, err
	}
	return c, nil
}

// ListForShop returns the customers bound to a shop, for the dashboard list.
func (s *DefaultCustomerService) ListForShop(ctx context.Context, shopID string) ([]models.Customer, error) {
	return s.CustomerRepo.ListByPreferredShop(ctx, shopID)
}

func (s *DefaultCustomerService) UpdateProfile(ctx context.Context, id string, req ProfileUpdate) (*models.Customer, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 2 {
			return nil, booking.NewValidationError("name is too short")
		}
		fields["name"] = name
	}
	if req.Phone != nil {
		normalized, ok := booking.NormalizePhone(*req.Phone)
		if !ok {
			return nil, booking.NewValidationError("invalid phone number, expected DDD plus number")
		}
		fields["phone"] = normalized
	}
	if req.FCMToken != nil {
		fields["fcm_token"] = *req.FCMToken
	}
	if len(fields) == 0 {
		return nil, booking.NewValidationError("nothing to update")
	}

	if err := s.CustomerRepo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &booking.NotFoundError{Entity: "customer", ID: id}
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

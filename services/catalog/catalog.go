package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	catalogRepo "trimly/database/repository/catalog"
	"trimly/models"
	"trimly/services/booking"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogService manages a shop's bookable services. Deactivation hides a
// service from new bookings without touching history.
type CatalogService interface {
	Create(ctx context.Context, shopID string, req ServiceRequest) (*models.Service, error)
	Update(ctx context.Context, shopID, serviceID string, req ServiceUpdate) (*models.Service, error)
	List(ctx context.Context, shopID string, activeOnly bool) ([]models.Service, error)
	SetImageURL(ctx context.Context, shopID, serviceID, url string) error
}

type ServiceRequest struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	PrepMinutes     int    `json:"prep_minutes"`
	Price           int    `json:"price"`
}

type ServiceUpdate struct {
	Name            *string `json:"name"`
	DurationMinutes *int    `json:"duration_minutes"`
	PrepMinutes     *int    `json:"prep_minutes"`
	Price           *int    `json:"price"`
	Active          *bool   `json:"active"`
}

// DefaultCatalogService implements CatalogService.
type DefaultCatalogService struct {
	CatalogRepo catalogRepo.CatalogRepository
}

func (s *DefaultCatalogService) Create(ctx context.Context, shopID string, req ServiceRequest) (*models.Service, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, booking.NewValidationError("service name is required")
	}
	if req.DurationMinutes <= 0 {
		return nil, booking.NewValidationError("duration must be positive")
	}
	if req.PrepMinutes < 0 {
		return nil, booking.NewValidationError("prep minutes cannot be negative")
	}
	if req.Price < 0 {
		return nil, booking.NewValidationError("price cannot be negative")
	}

	svc := &models.Service{
		ID:              uuid.New().String(),
		ShopID:          shopID,
		Name:            name,
		DurationMinutes: req.DurationMinutes,
		PrepMinutes:     req.PrepMinutes,
		Price:           req.Price,
		Active:          true,
		CreatedAt:       time.Now(),
	}
	if err := s.CatalogRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *DefaultCatalogService) Update(ctx context.Context, shopID, serviceID string, req ServiceUpdate) (*models.Service, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, booking.NewValidationError("service name is required")
		}
		fields["name"] = name
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, booking.NewValidationError("duration must be positive")
		}
		fields["duration_minutes"] = *req.DurationMinutes
	}
	if req.PrepMinutes != nil {
		if *req.PrepMinutes < 0 {
			return nil, booking.NewValidationError("prep minutes cannot be negative")
		}
		fields["prep_minutes"] = *req.PrepMinutes
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, booking.NewValidationError("price cannot be negative")
		}
		fields["price"] = *req.Price
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if len(fields) == 0 {
		return nil, booking.NewValidationError("nothing to update")
	}

	if err := s.CatalogRepo.Update(ctx, shopID, serviceID, fields); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &booking.NotFoundError{Entity: "service", ID: serviceID}
		}
		return nil, err
	}
	svc, err := s.CatalogRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *DefaultCatalogService) List(ctx context.Context, shopID string, activeOnly bool) ([]models.Service, error) {
	return s.CatalogRepo.ListByShop(ctx, shopID, activeOnly)
}

func (s *DefaultCatalogService) SetImageURL(ctx context.Context, shopID, serviceID, url string) error {
	err := s.CatalogRepo.Update(ctx, shopID, serviceID, map[string]interface{}{"image_url": url})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &booking.NotFoundError{Entity: "service", ID: serviceID}
	}
	return err
}

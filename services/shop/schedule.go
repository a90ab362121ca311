package shop

import (
	"context"
	"errors"
	"fmt"

	"trimly/models"
	"trimly/services/booking"
	"trimly/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// UpdateSchedule replaces the shop's scheduling policy after validating it.
func (s *DefaultShopService) UpdateSchedule(ctx context.Context, shopID string, policy models.SchedulePolicy) error {
	if err := validatePolicy(&policy); err != nil {
		return err
	}
	if err := s.ShopRepo.UpdateSchedule(ctx, shopID, &policy); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &booking.NotFoundError{Entity: "shop", ID: shopID}
		}
		return err
	}
	return nil
}

func validatePolicy(p *models.SchedulePolicy) error {
	if len(p.WorkDays) == 0 {
		return booking.NewValidationError("at least one working day is required")
	}
	for _, d := range p.WorkDays {
		if d < 1 || d > 7 {
			return booking.NewValidationError("working days must be 1 (Monday) to 7 (Sunday)")
		}
	}
	open, err := utils.MinutesOfDay(p.OpenTime)
	if err != nil {
		return booking.NewValidationError("invalid open time %q", p.OpenTime)
	}
	closeMin, err := utils.MinutesOfDay(p.CloseTime)
	if err != nil {
		return booking.NewValidationError("invalid close time %q", p.CloseTime)
	}
	if open >= closeMin {
		return booking.NewValidationError("open time must be before close time")
	}
	if p.SlotMinutes <= 0 {
		return booking.NewValidationError("slot minutes must be positive")
	}
	if p.BufferMinutes < 0 {
		return booking.NewValidationError("buffer minutes cannot be negative")
	}
	if p.CancelLeadHours < 0 {
		return booking.NewValidationError("cancel lead hours cannot be negative")
	}
	return nil
}

func (s *DefaultShopService) CreateBlock(ctx context.Context, shopID string, req BlockRequest) (*models.TimeBlock, error) {
	if !utils.ValidCivilDate(req.Date) {
		return nil, booking.NewValidationError("invalid date %q", req.Date)
	}
	start, err := utils.MinutesOfDay(req.StartTime)
	if err != nil {
		return nil, booking.NewValidationError("invalid start time %q", req.StartTime)
	}
	end, err := utils.MinutesOfDay(req.EndTime)
	if err != nil {
		return nil, booking.NewValidationError("invalid end time %q", req.EndTime)
	}
	if start >= end {
		return nil, booking.NewValidationError("block start must be before its end")
	}

	block := &models.TimeBlock{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		CreatedAt: s.now(),
	}
	if err := s.AgendaRepo.CreateBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("error creating time block: %w", err)
	}
	return block, nil
}

func (s *DefaultShopService) DeleteBlock(ctx context.Context, shopID, blockID string) error {
	err := s.AgendaRepo.DeleteBlock(ctx, shopID, blockID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &booking.NotFoundError{Entity: "time block", ID: blockID}
	}
	return err
}

func (s *DefaultShopService) ListBlocks(ctx context.Context, shopID string) ([]models.TimeBlock, error) {
	return s.AgendaRepo.ListAllBlocks(ctx, shopID)
}

func (s *DefaultShopService) CreateClosure(ctx context.Context, shopID string, req ClosureRequest) (*models.ShopClosure, error) {
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return nil, booking.NewValidationError("closure start and end are required")
	}
	if !req.StartAt.Before(req.EndAt) {
		return nil, booking.NewValidationError("closure start must be before its end")
	}

	closure := &models.ShopClosure{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Reason:    req.Reason,
		CreatedAt: s.now(),
	}
	if err := s.AgendaRepo.CreateClosure(ctx, closure); err != nil {
		return nil, fmt.Errorf("error creating closure: %w", err)
	}
	return closure, nil
}

func (s *DefaultShopService) DeleteClosure(ctx context.Context, shopID, closureID string) error {
	err := s.AgendaRepo.DeleteClosure(ctx, shopID, closureID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &booking.NotFoundError{Entity: "closure", ID: closureID}
	}
	return err
}

func (s *DefaultShopService) ListClosures(ctx context.Context, shopID string) ([]models.ShopClosure, error) {
	return s.AgendaRepo.ListAllClosures(ctx, shopID)
}

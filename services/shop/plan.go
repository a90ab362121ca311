package shop

import (
	"context"
	"fmt"

	"trimly/config"
	"trimly/models"
	"trimly/services/booking"
)

// ActivatePlan switches the shop to a new plan window starting now. Plan
// changes are gated by the master approval password; there is no payment
// processing in the platform.
func (s *DefaultShopService) ActivatePlan(ctx context.Context, shopID string, planType models.PlanType, masterPassword string) (*models.Shop, error) {
	if masterPassword == "" || masterPassword != config.AppConfig.MasterApprovalPassword {
		return nil, &booking.AccessDeniedError{Message: "invalid master password"}
	}

	shop, err := s.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}

	startsAt, expiresAt, price, ok := models.CalcPlanWindow(planType, s.now())
	if !ok {
		return nil, booking.NewValidationError("unknown plan type %q", planType)
	}
	if err := s.ShopRepo.UpdatePlan(ctx, shop.ID, planType, price, startsAt, expiresAt); err != nil {
		return nil, fmt.Errorf("error activating plan: %w", err)
	}

	shop.PlanType = planType
	shop.PlanPrice = price
	shop.PlanStartsAt = startsAt
	shop.PlanExpiresAt = expiresAt
	return shop, nil
}

// Subscription reports the shop's current plan window.
func (s *DefaultShopService) Subscription(ctx context.Context, shopID string) (*SubscriptionStatus, error) {
	shop, err := s.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	status := &SubscriptionStatus{
		PlanType:  shop.PlanType,
		Price:     shop.PlanPrice,
		StartsAt:  shop.PlanStartsAt,
		ExpiresAt: shop.PlanExpiresAt,
		Active:    shop.SubscriptionActive(now),
	}
	if status.Active {
		status.DaysLeft = int(shop.PlanExpiresAt.Sub(now).Hours() / 24)
	}
	return status, nil
}

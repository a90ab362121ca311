package notification

import (
	"context"
	"fmt"

	customerRepo "trimly/database/repository/customer"
	shopRepo "trimly/database/repository/shop"
	"trimly/models"
	"trimly/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService sends FCM pushes to customers and shop owners.
// Delivery is best effort: the booking flow never fails on a push error.
type NotificationService interface {
	SendCustomerPush(ctx context.Context, customerID, title, body string, data map[string]string) error
	SendShopPush(ctx context.Context, shopID, title, body string, data map[string]string) error
	Dispatch(ctx context.Context, payload models.PushPayload) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	CustomerRepo customerRepo.CustomerRepository
	ShopRepo     shopRepo.ShopRepository
}

func NewDefaultNotificationService(
	custRepo customerRepo.CustomerRepository,
	shRepo shopRepo.ShopRepository,
) (*DefaultNotificationService, error) {
	if custRepo == nil || shRepo == nil {
		return nil, fmt.Errorf("notification service initialization error: missing repository")
	}
	return &DefaultNotificationService{
		CustomerRepo: custRepo,
		ShopRepo:     shRepo,
	}, nil
}

func (s *DefaultNotificationService) SendCustomerPush(
	ctx context.Context,
	customerID, title, body string,
	data map[string]string,
) error {
	c, err := s.CustomerRepo.GetByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("SendCustomerPush: could not find customer %s: %w", customerID, err)
	}
	if c.FCMToken == "" {
		return fmt.Errorf("SendCustomerPush: customer %s has no FCM token", customerID)
	}
	return s.send(ctx, c.FCMToken, title, body, data)
}

func (s *DefaultNotificationService) SendShopPush(
	ctx context.Context,
	shopID, title, body string,
	data map[string]string,
) error {
	sh, err := s.ShopRepo.GetByID(ctx, shopID)
	if err != nil {
		return fmt.Errorf("SendShopPush: could not find shop %s: %w", shopID, err)
	}
	if sh.FCMToken == "" {
		return fmt.Errorf("SendShopPush: shop %s has no FCM token", shopID)
	}
	return s.send(ctx, sh.FCMToken, title, body, data)
}

// Dispatch routes a queued payload to the right recipient.
func (s *DefaultNotificationService) Dispatch(ctx context.Context, payload models.PushPayload) error {
	switch payload.Target {
	case models.TargetCustomer:
		return s.SendCustomerPush(ctx, payload.ID, payload.Title, payload.Body, payload.Data)
	case models.TargetShop:
		return s.SendShopPush(ctx, payload.ID, payload.Title, payload.Body, payload.Data)
	default:
		return fmt.Errorf("Dispatch: unknown notification target %q", payload.Target)
	}
}

func (s *DefaultNotificationService) send(
	ctx context.Context,
	token, title, body string,
	data map[string]string,
) error {
	if utils.FCMClient == nil {
		return fmt.Errorf("send: FCM client not initialized")
	}
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("send: failed to send FCM message: %w", err)
	}
	utils.GetLogger().Debug("FCM message sent", zap.String("response", response))
	return nil
}

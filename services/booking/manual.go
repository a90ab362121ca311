package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"trimly/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var phoneDigitsRe = regexp.MustCompile(`\D`)

// NormalizePhone reduces a phone to the national subscriber number: digits
// only, country code 55 stripped, 10 or 11 digits (DDD + number).
func NormalizePhone(phone string) (string, bool) {
	digits := phoneDigitsRe.ReplaceAllString(phone, "")
	if strings.HasPrefix(digits, "55") && len(digits) > 11 {
		digits = digits[2:]
	}
	if len(digits) < 10 || len(digits) > 11 {
		return "", false
	}
	return digits, true
}

// CreateManual is the staff-entered booking path: the customer record is
// resolved or created by phone first, then the same availability and
// conflict protocol applies.
func (s *DefaultBookingService) CreateManual(ctx context.Context, req ManualCreateRequest) (*CreateResult, error) {
	if err := validateDateTime(req.Date, req.StartTime); err != nil {
		return nil, err
	}
	if len(req.ServiceIDs) == 0 {
		return nil, NewValidationError("at least one service is required")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, NewValidationError("customer name is required")
	}

	shop, err := s.loadActiveShop(ctx, req.ShopID)
	if err != nil {
		return nil, err
	}

	customer, err := s.resolveManualCustomer(ctx, shop.ID, req.CustomerName, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := guardCustomer(customer, shop.ID, s.now()); err != nil {
		return nil, err
	}

	return s.commitChain(ctx, shop, customer, req.ServiceIDs, req.Date, req.StartTime, req.Notes)
}

// resolveManualCustomer finds the most recent customer with this phone that
// is unbound or already bound to the shop, or creates a placeholder account.
func (s *DefaultBookingService) resolveManualCustomer(ctx context.Context, shopID, name, phone string) (*models.Customer, error) {
	normalized, ok := NormalizePhone(phone)
	if !ok {
		return nil, NewValidationError("invalid phone number, expected DDD plus number")
	}

	existing, err := s.CustomerRepo.GetByPhoneForShop(ctx, shopID, normalized)
	if err == nil {
		if existing.PreferredShopID == "" {
			fields := map[string]interface{}{
				"preferred_shop_id": shopID,
				"name":              name,
			}
			if err := s.CustomerRepo.Update(ctx, existing.ID, fields); err != nil {
				return nil, fmt.Errorf("error binding walk-in customer: %w", err)
			}
			existing.PreferredShopID = shopID
			existing.Name = name
		}
		return existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Unknown walk-in: create a placeholder account they can claim later.
	hash, err := bcrypt.GenerateFromPassword(
		[]byte(fmt.Sprintf("manual:%s:%s", normalized, uuid.New().String())), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing placeholder password: %w", err)
	}
	customer := &models.Customer{
		ID:              uuid.New().String(),
		UserID:          uuid.New().String(),
		Name:            name,
		Phone:           normalized,
		PreferredShopID: shopID,
		StaffCreated:    true,
		PasswordHash:    string(hash),
		CreatedAt:       s.now(),
	}
	if err := s.CustomerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("error creating walk-in customer: %w", err)
	}
	return customer, nil
}

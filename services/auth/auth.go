package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	customerRepo "trimly/database/repository/customer"
	shopRepo "trimly/database/repository/shop"
	"trimly/models"
	"trimly/services/booking"
	"trimly/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 30 * 24 * time.Hour

// Session is a successful authentication result.
type Session struct {
	Token     string           `json:"token"`
	Principal models.Principal `json:"principal"`
}

// AuthService issues sessions. Barbers sign in with email, customers with
// their phone number.
type AuthService interface {
	LoginBarber(ctx context.Context, email, password string) (*Session, error)
	LoginCustomer(ctx context.Context, phone, password string) (*Session, error)
	RegisterCustomer(ctx context.Context, name, phone, password string) (*Session, error)
}

// DefaultAuthService implements AuthService.
type DefaultAuthService struct {
	ShopRepo     shopRepo.ShopRepository
	CustomerRepo customerRepo.CustomerRepository
}

var errBadCredentials = &booking.AccessDeniedError{Message: "invalid credentials"}

func (s *DefaultAuthService) LoginBarber(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	shop, err := s.ShopRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(shop.PasswordHash), []byte(password)) != nil {
		return nil, errBadCredentials
	}
	return issue(models.Principal{UserID: shop.UserID, Role: models.RoleBarber})
}

func (s *DefaultAuthService) LoginCustomer(ctx context.Context, phone, password string) (*Session, error) {
	normalized, ok := booking.NormalizePhone(phone)
	if !ok {
		return nil, booking.NewValidationError("invalid phone number, expected DDD plus number")
	}
	c, err := s.CustomerRepo.GetByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if c.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return nil, errBadCredentials
	}
	return issue(models.Principal{UserID: c.UserID, Role: models.RoleCustomer})
}

func (s *DefaultAuthService) RegisterCustomer(ctx context.Context, name, phone, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, booking.NewValidationError("name is too short")
	}
	normalized, ok := booking.NormalizePhone(phone)
	if !ok {
		return nil, booking.NewValidationError("invalid phone number, expected DDD plus number")
	}
	if len(password) < 6 {
		return nil, booking.NewValidationError("password must have at least 6 characters")
	}

	// A staff-created placeholder with this phone becomes claimable: the
	// customer takes it over by setting their own password.
	if existing, err := s.CustomerRepo.GetByPhone(ctx, normalized); err == nil {
		if !existing.StaffCreated {
			return nil, booking.NewValidationError("phone already registered")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		fields := map[string]interface{}{
			"name":          name,
			"password_hash": string(hash),
			"staff_created": false,
		}
		if err := s.CustomerRepo.Update(ctx, existing.ID, fields); err != nil {
			return nil, err
		}
		return issue(models.Principal{UserID: existing.UserID, Role: models.RoleCustomer})
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	c := &models.Customer{
		ID:           uuid.New().String(),
		UserID:       uuid.New().String(),
		Name:         name,
		Phone:        normalized,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.CustomerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return issue(models.Principal{UserID: c.UserID, Role: models.RoleCustomer})
}

func issue(p models.Principal) (*Session, error) {
	token, err := utils.GenerateToken(p, tokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Principal: p}, nil
}

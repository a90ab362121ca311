package shop

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"trimly/config"
	agendaRepo "trimly/database/repository/agenda"
	catalogRepo "trimly/database/repository/catalog"
	shopRepo "trimly/database/repository/shop"
	"trimly/models"
	"trimly/services/booking"
	"trimly/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ShopService manages tenants: registration, profile, schedule settings,
// manual unavailability and the subscription plan.
type ShopService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.Shop, error)
	GetByID(ctx context.Context, id string) (*models.Shop, error)
	GetBySlug(ctx context.Context, slug string) (*models.Shop, error)
	GetByUserID(ctx context.Context, userID string) (*models.Shop, error)
	Directory(ctx context.Context) ([]models.Shop, error)
	UpdateProfile(ctx context.Context, shopID string, req ProfileUpdate) (*models.Shop, error)

	UpdateSchedule(ctx context.Context, shopID string, policy models.SchedulePolicy) error
	CreateBlock(ctx context.Context, shopID string, req BlockRequest) (*models.TimeBlock, error)
	DeleteBlock(ctx context.Context, shopID, blockID string) error
	ListBlocks(ctx context.Context, shopID string) ([]models.TimeBlock, error)
	CreateClosure(ctx context.Context, shopID string, req ClosureRequest) (*models.ShopClosure, error)
	DeleteClosure(ctx context.Context, shopID, closureID string) error
	ListClosures(ctx context.Context, shopID string) ([]models.ShopClosure, error)

	ActivatePlan(ctx context.Context, shopID string, planType models.PlanType, masterPassword string) (*models.Shop, error)
	Subscription(ctx context.Context, shopID string) (*SubscriptionStatus, error)
}

type RegisterRequest struct {
	ShopName       string `json:"shop_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	PlanType       string `json:"plan_type"`
	MasterPassword string `json:"master_password"`
}

type ProfileUpdate struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	ImageURL *string `json:"image_url"`
	FCMToken *string `json:"fcm_token"`
}

type BlockRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

type ClosureRequest struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	Reason  string    `json:"reason"`
}

type SubscriptionStatus struct {
	PlanType  models.PlanType `json:"plan_type"`
	Price     int             `json:"price"`
	StartsAt  time.Time       `json:"starts_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Active    bool            `json:"active"`
	DaysLeft  int             `json:"days_left"`
}

// DefaultShopService implements ShopService.
type DefaultShopService struct {
	ShopRepo    shopRepo.ShopRepository
	CatalogRepo catalogRepo.CatalogRepository
	AgendaRepo  agendaRepo.AgendaRepository
	Now         func() time.Time
}

func (s *DefaultShopService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates a tenant gated by the master approval password: account,
// plan window, default schedule and a starter catalog in one go.
func (s *DefaultShopService) Register(ctx context.Context, req RegisterRequest) (*models.Shop, error) {
	name := strings.TrimSpace(req.ShopName)
	if len(name) < 2 {
		return nil, booking.NewValidationError("shop name is too short")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return nil, booking.NewValidationError("invalid email")
	}
	if len(req.Password) < 6 {
		return nil, booking.NewValidationError("password must have at least 6 characters")
	}
	if req.MasterPassword == "" || req.MasterPassword != config.AppConfig.MasterApprovalPassword {
		return nil, &booking.AccessDeniedError{Message: "invalid master password"}
	}

	if _, err := s.ShopRepo.GetByEmail(ctx, email); err == nil {
		return nil, booking.NewValidationError("email already registered")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := s.now()
	startsAt, expiresAt, price, ok := models.CalcPlanWindow(models.PlanType(req.PlanType), now)
	if !ok {
		return nil, booking.NewValidationError("unknown plan type %q", req.PlanType)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	slug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	shop := &models.Shop{
		ID:            uuid.New().String(),
		UserID:        uuid.New().String(),
		PublicSlug:    slug,
		Name:          name,
		Phone:         strings.TrimSpace(req.Phone),
		Email:         email,
		PasswordHash:  string(hash),
		PlanType:      models.PlanType(req.PlanType),
		PlanPrice:     price,
		PlanStartsAt:  startsAt,
		PlanExpiresAt: expiresAt,
		Schedule: &models.SchedulePolicy{
			WorkDays:    []int{1, 2, 3, 4, 5, 6},
			OpenTime:    "08:00",
			CloseTime:   "20:00",
			SlotMinutes: 20,
		},
		CreatedAt: now,
	}
	if err := s.ShopRepo.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("error creating shop: %w", err)
	}

	s.seedCatalog(ctx, shop, now)
	return shop, nil
}

// seedCatalog gives a new shop a working starter menu. Failures here are
// logged, not fatal: the shop exists and can build its own catalog.
func (s *DefaultShopService) seedCatalog(ctx context.Context, shop *models.Shop, now time.Time) {
	starters := []models.Service{
		{Name: "Corte (40min)", DurationMinutes: 40, PrepMinutes: 5, Price: 3500},
		{Name: "Corte + Barba (60min)", DurationMinutes: 60, PrepMinutes: 5, Price: 5500},
		{Name: "Sobrancelha (20min)", DurationMinutes: 20, PrepMinutes: 0, Price: 1500},
	}
	for _, svc := range starters {
		svc.ID = uuid.New().String()
		svc.ShopID = shop.ID
		svc.Active = true
		svc.CreatedAt = now
		if err := s.CatalogRepo.Create(ctx, &svc); err != nil {
			utils.GetLogger().Warn("failed to seed starter service",
				zap.String("shopID", shop.ID), zap.Error(err))
		}
	}
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// toSlugBase lowercases the name and collapses everything non-alphanumeric.
func toSlugBase(name string) string {
	base := strings.ToLower(name)
	base = slugStripRe.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		return "barbearia"
	}
	return base
}

const slugSuffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = slugSuffixChars[rand.Intn(len(slugSuffixChars))]
	}
	return string(b)
}

// uniqueSlug retries a few random suffixes before giving up; the unique
// index on public_slug is the real guard.
func (s *DefaultShopService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := toSlugBase(name)
	slug := fmt.Sprintf("%s-%s", base, randomSuffix(6))
	for i := 0; i < 5; i++ {
		_, err := s.ShopRepo.GetBySlug(ctx, slug)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%s", base, randomSuffix(6))
	}
	return slug, nil
}

func (s *DefaultShopService) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	shop, err := s.ShopRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &booking.NotFoundError{Entity: "shop", ID: id}
		}
		return nil, err
	}
	return shop, nil
}

func (s *DefaultShopService) GetBySlug(ctx context.Context, slug string) (*models.Shop, error) {
	shop, err := s.ShopRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &booking.NotFoundError{Entity: "shop", ID: slug}
		}
		return nil, err
	}
	return shop, nil
}

func (s *DefaultShopService) GetByUserID(ctx context.Context, userID string) (*models.Shop, error) {
	shop, err := s.ShopRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &booking.NotFoundError{Entity: "shop", ID: userID}
		}
		return nil, err
	}
	return shop, nil
}

// Directory lists every shop for the public landing surface.
func (s *DefaultShopService) Directory(ctx context.Context) ([]models.Shop, error) {
	return s.ShopRepo.List(ctx)
}

func (s *DefaultShopService) UpdateProfile(ctx context.Context, shopID string, req ProfileUpdate) (*models.Shop, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 2 {
			return nil, booking.NewValidationError("shop name is too short")
		}
		fields["name"] = name
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.FCMToken != nil {
		fields["fcm_token"] = *req.FCMToken
	}
	if len(fields) == 0 {
		return nil, booking.NewValidationError("nothing to update")
	}

	if err := s.ShopRepo.UpdateProfile(ctx, shopID, fields); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &booking.NotFoundError{Entity: "shop", ID: shopID}
		}
		return nil, err
	}
	return s.GetByID(ctx, shopID)
}

package booking

import (
	"context"
	"time"

	agendaRepo "trimly/database/repository/agenda"
	bookingRepo "trimly/database/repository/booking"
	catalogRepo "trimly/database/repository/catalog"
	customerRepo "trimly/database/repository/customer"
	shopRepo "trimly/database/repository/shop"
	"trimly/models"
	"trimly/services/notification"
	"trimly/utils"
)

// NominalDailyCapacity is the fixed bookings-per-day constant used as the
// occupancy denominator in metrics.
const NominalDailyCapacity = 8

// BookingService is the scheduling core: availability reads, the sequential
// booking transaction, patches and the no-show workflow.
type BookingService interface {
	// AvailableSlots computes the free start times for a shop, date and
	// ordered service selection.
	AvailableSlots(ctx context.Context, shopID, date string, serviceIDs []string) ([]string, error)
	// DaySummaries wraps AvailableSlots over a clamped window of upcoming
	// days, for the calendar polling path.
	DaySummaries(ctx context.Context, shopID string, serviceIDs []string, daysWindow int) ([]DaySummary, error)

	// Create books the ordered service chain atomically.
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	// CreateManual is the staff-entered variant: resolves or creates the
	// customer by phone first.
	CreateManual(ctx context.Context, req ManualCreateRequest) (*CreateResult, error)

	Cancel(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error)
	Reschedule(ctx context.Context, actor models.Principal, bookingID, date, startTime string) (*models.Booking, error)
	ConfirmPresence(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error)

	MarkNoShow(ctx context.Context, shopID, bookingID string) (*NoShowResult, error)

	GetForShop(ctx context.Context, shopID, bookingID string) (*models.Booking, error)
	ListAgenda(ctx context.Context, shopID, date string) ([]models.Booking, error)
	ListForCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
}

type CreateRequest struct {
	ShopID     string
	CustomerID string
	ServiceIDs []string // ordered; chaining follows this order
	Date       string
	StartTime  string
	Notes      string
}

type ManualCreateRequest struct {
	ShopID       string
	CustomerName string
	Phone        string
	ServiceIDs   []string
	Date         string
	StartTime    string
	Notes        string
}

type CreateResult struct {
	Bookings     []models.Booking `json:"bookings"`
	BookingIDs   []string         `json:"booking_ids"`
	CustomerID   string           `json:"customer_id"`
	WhatsAppLink string           `json:"wa_link,omitempty"`
}

type DaySummary struct {
	Date      string `json:"date"`
	SlotCount int    `json:"slot_count"`
	FirstSlot string `json:"first_slot,omitempty"`
	LoadLevel string `json:"load_level"`
}

type NoShowResult struct {
	NoShowCount  int        `json:"no_show_count"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
}

// DefaultBookingService implements BookingService over the mongo repositories.
// Now is injectable so tests can pin the clock.
type DefaultBookingService struct {
	ShopRepo     shopRepo.ShopRepository
	CatalogRepo  catalogRepo.CatalogRepository
	CustomerRepo customerRepo.CustomerRepository
	BookingRepo  bookingRepo.BookingRepository
	AgendaRepo   agendaRepo.AgendaRepository
	Notifier     notification.NotificationService
	Cache        *SummaryCache
	Now          func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// loadActiveShop fetches the shop and enforces the subscription gate that
// guards every shop-scoped operation.
func (s *DefaultBookingService) loadActiveShop(ctx context.Context, shopID string) (*models.Shop, error) {
	shop, err := s.ShopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, &NotFoundError{Entity: "shop", ID: shopID}
	}
	if !shop.SubscriptionActive(s.now()) {
		return nil, &ShopLockedError{ShopID: shopID}
	}
	return shop, nil
}

// guardCustomer enforces the block and shop-binding checks shared by the
// online and staff-entered booking paths.
func guardCustomer(c *models.Customer, shopID string, now time.Time) error {
	if c.Blocked(now) {
		return &BlockedError{Until: *c.BlockedUntil}
	}
	if c.PreferredShopID != "" && c.PreferredShopID != shopID {
		return &AccessDeniedError{Message: "customer is registered with another shop"}
	}
	return nil
}

func validateDateTime(date, startTime string) error {
	if !utils.ValidCivilDate(date) {
		return NewValidationError("invalid date %q", date)
	}
	if !utils.ValidHHMM(startTime) {
		return NewValidationError("invalid start time %q", startTime)
	}
	return nil
}

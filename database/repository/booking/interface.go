// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"
	"time"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotTaken is returned when a concurrent writer already claimed part of
// the requested time range. The caller should refresh availability and retry.
var ErrSlotTaken = errors.New("slot already taken")

type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetForShop(ctx context.Context, shopID, id string) (*models.Booking, error)
	GetForCustomer(ctx context.Context, customerID, id string) (*models.Booking, error)

	// ListConfirmedByShopDate is the availability hot path.
	ListConfirmedByShopDate(ctx context.Context, shopID, date string) ([]models.Booking, error)
	ListByShopDate(ctx context.Context, shopID, date string) ([]models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	// ListConfirmedInRange returns CONFIRMED bookings with date in [from, to).
	ListConfirmedInRange(ctx context.Context, shopID, fromDate, toDate string) ([]models.Booking, error)

	// CreateSequential commits all rows and their slot claims atomically.
	// A duplicate claim means a concurrent writer won: ErrSlotTaken, nothing
	// is written.
	CreateSequential(ctx context.Context, bookings []models.Booking, claims []models.SlotClaim) error
	// Terminate moves a booking to a terminal status and releases its claims.
	Terminate(ctx context.Context, id string, status models.BookingStatus, fields map[string]interface{}) error
	// Reschedule atomically re-times a CONFIRMED booking: old claims out,
	// new claims in, date/start/end updated, customer confirmation cleared.
	Reschedule(ctx context.Context, id, date, startTime, endTime string, claims []models.SlotClaim) error
	SetCustomerConfirmed(ctx context.Context, id string, at time.Time) error

	ListReminderDue(ctx context.Context, fromDate string, limit int) ([]models.Booking, error)
	MarkReminderSent(ctx context.Context, ids []string, at time.Time) error

	EnsureIndexes() error
}

type mongoBookingRepo struct {
	bookingColl *mongo.Collection
	claimColl   *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	return &mongoBookingRepo{
		bookingColl: db.Collection("bookings"),
		claimColl:   db.Collection("slot_claims"),
	}
}

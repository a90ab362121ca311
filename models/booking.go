package models

import "time"

// BookingStatus is the booking state machine: CONFIRMED is the only live
// state; CANCELED and NO_SHOW are terminal. Rows are never deleted.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCanceled  BookingStatus = "CANCELED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

// Booking is one service occurrence on a shop's calendar. A multi-service
// reservation is N consecutive bookings chained start-to-end on the same
// date. Date is a civil "YYYY-MM-DD"; Start/End are civil "HH:MM".
type Booking struct {
	ID                  string        `bson:"id" json:"id"`
	ShopID              string        `bson:"shop_id" json:"shop_id"`
	CustomerID          string        `bson:"customer_id" json:"customer_id"`
	ServiceID           string        `bson:"service_id" json:"service_id"`
	Date                string        `bson:"date" json:"date"`
	StartTime           string        `bson:"start_time" json:"start_time"`
	EndTime             string        `bson:"end_time" json:"end_time"`
	Status              BookingStatus `bson:"status" json:"status"`
	Notes               string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CustomerConfirmedAt *time.Time    `bson:"customer_confirmed_at,omitempty" json:"customer_confirmed_at,omitempty"`
	ReminderSentAt      *time.Time    `bson:"reminder_sent_at,omitempty" json:"reminder_sent_at,omitempty"`
	NoShowMarkedAt      *time.Time    `bson:"no_show_marked_at,omitempty" json:"no_show_marked_at,omitempty"`
	CreatedAt           time.Time     `bson:"created_at" json:"created_at"`
}

// SlotClaim is the store-level exclusion constraint backing the no-overlap
// invariant. One claim document exists per granularity step covered by a
// confirmed booking; its ID is "shopID|date|HH:MM", so two concurrent
// bookings touching any common step collide on the unique _id.
type SlotClaim struct {
	ID        string `bson:"_id" json:"id"`
	ShopID    string `bson:"shop_id" json:"shop_id"`
	Date      string `bson:"date" json:"date"`
	Slot      string `bson:"slot" json:"slot"`
	BookingID string `bson:"booking_id" json:"booking_id"`
}

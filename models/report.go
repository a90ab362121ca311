package models

import "time"

// MetricReport is a persisted snapshot of a shop's metrics window, written
// when the owner resets the baseline.
type MetricReport struct {
	ID            string    `bson:"id" json:"id"`
	ShopID        string    `bson:"shop_id" json:"shop_id"`
	Type          string    `bson:"type" json:"type"` // "MANUAL"
	WindowStart   time.Time `bson:"window_start" json:"window_start"`
	WindowEnd     time.Time `bson:"window_end" json:"window_end"`
	TotalBookings int       `bson:"total_bookings" json:"total_bookings"`
	TotalRevenue  int       `bson:"total_revenue" json:"total_revenue"`
	AvgTicket     int       `bson:"avg_ticket" json:"avg_ticket"`
	TopService    string    `bson:"top_service,omitempty" json:"top_service,omitempty"`
	Occupancy     int       `bson:"occupancy" json:"occupancy"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

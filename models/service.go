package models

import "time"

// Service is one bookable catalog entry owned by a shop. Price is in the
// minor currency unit (centavos). Deactivating a service hides it from new
// bookings without touching history.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	ShopID          string    `bson:"shop_id" json:"shop_id"`
	Name            string    `bson:"name" json:"name"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	PrepMinutes     int       `bson:"prep_minutes" json:"prep_minutes"`
	Price           int       `bson:"price" json:"price"`
	Active          bool      `bson:"active" json:"active"`
	ImageURL        string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

package models

import "time"

// Customer is a client profile. The first booking (or staff registration)
// binds the customer to a preferred shop permanently.
type Customer struct {
	ID               string     `bson:"id" json:"id"`
	UserID           string     `bson:"user_id" json:"user_id"`
	Name             string     `bson:"name" json:"name"`
	Phone            string     `bson:"phone" json:"phone"` // national subscriber number, digits only
	PreferredShopID  string     `bson:"preferred_shop_id,omitempty" json:"preferred_shop_id,omitempty"`
	NoShowCount      int        `bson:"no_show_count" json:"no_show_count"`
	BlockedUntil     *time.Time `bson:"blocked_until,omitempty" json:"blocked_until,omitempty"`
	FCMToken         string     `bson:"fcm_token,omitempty" json:"-"`
	StaffCreated     bool       `bson:"staff_created,omitempty" json:"staff_created,omitempty"`
	PasswordHash     string     `bson:"password_hash,omitempty" json:"-"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
}

// Blocked reports whether the customer is temporarily suspended at now.
func (c *Customer) Blocked(now time.Time) bool {
	return c.BlockedUntil != nil && c.BlockedUntil.After(now)
}

package models

import "time"

// Shop is a tenant: one barbershop with its own catalog, schedule and plan.
type Shop struct {
	ID             string     `bson:"id" json:"id"`
	UserID         string     `bson:"user_id" json:"user_id"` // owning barber account
	PublicSlug     string     `bson:"public_slug" json:"public_slug"`
	Name           string     `bson:"name" json:"name"`
	Phone          string     `bson:"phone" json:"phone"`
	Email          string     `bson:"email" json:"email"`
	PasswordHash   string     `bson:"password_hash" json:"-"`
	ImageURL       string     `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Schedule       *SchedulePolicy `bson:"schedule,omitempty" json:"schedule,omitempty"`
	PlanType       PlanType   `bson:"plan_type" json:"plan_type"`
	PlanPrice      int        `bson:"plan_price" json:"plan_price"`
	PlanStartsAt   time.Time  `bson:"plan_starts_at" json:"plan_starts_at"`
	PlanExpiresAt  time.Time  `bson:"plan_expires_at" json:"plan_expires_at"`
	MetricsResetAt *time.Time `bson:"metrics_reset_at,omitempty" json:"metrics_reset_at,omitempty"`
	FCMToken       string     `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
}

// SubscriptionActive reports whether the shop's paid-plan window covers now.
func (s *Shop) SubscriptionActive(now time.Time) bool {
	return IsPlanActive(s.PlanExpiresAt, now)
}

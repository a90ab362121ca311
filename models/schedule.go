package models

import "time"

// SchedulePolicy is the per-shop scheduling configuration. All times of day
// are zero-padded "HH:MM" strings in the civil zone; weekdays are ISO
// (Monday=1 .. Sunday=7).
type SchedulePolicy struct {
	WorkDays        []int  `bson:"work_days" json:"work_days"`
	OpenTime        string `bson:"open_time" json:"open_time"`
	CloseTime       string `bson:"close_time" json:"close_time"`
	SlotMinutes     int    `bson:"slot_minutes" json:"slot_minutes"`
	BufferMinutes   int    `bson:"buffer_minutes" json:"buffer_minutes"`
	CancelLeadHours int    `bson:"cancel_lead_hours" json:"cancel_lead_hours"`
}

// DefaultCancelLeadHours applies when a shop never configured a lead time.
const DefaultCancelLeadHours = 2

// IsWorkingDay reports whether the ISO weekday is part of the working set.
func (p *SchedulePolicy) IsWorkingDay(weekday int) bool {
	for _, d := range p.WorkDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// LeadHours returns the configured cancel lead time, falling back to the default.
func (p *SchedulePolicy) LeadHours() int {
	if p.CancelLeadHours <= 0 {
		return DefaultCancelLeadHours
	}
	return p.CancelLeadHours
}

// EffectiveDuration sums duration + prep + buffer over the selected services.
// The buffer is applied once per service: chained services each get breathing
// room before the next one starts.
func EffectiveDuration(services []Service, bufferMinutes int) int {
	total := 0
	for _, svc := range services {
		total += svc.DurationMinutes + svc.PrepMinutes + bufferMinutes
	}
	return total
}

// TimeBlock is an ad-hoc unavailable interval on a single civil date,
// entered by shop staff.
type TimeBlock struct {
	ID        string    `bson:"id" json:"id"`
	ShopID    string    `bson:"shop_id" json:"shop_id"`
	Date      string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	StartTime string    `bson:"start_time" json:"start_time"`
	EndTime   string    `bson:"end_time" json:"end_time"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ShopClosure is an absolute-instant unavailable range, possibly spanning
// several days (holiday, renovation).
type ShopClosure struct {
	ID        string    `bson:"id" json:"id"`
	ShopID    string    `bson:"shop_id" json:"shop_id"`
	StartAt   time.Time `bson:"start_at" json:"start_at"`
	EndAt     time.Time `bson:"end_at" json:"end_at"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

package models

import "testing"

func TestEffectiveDuration(t *testing.T) {
	services := []Service{
		{Name: "Corte", DurationMinutes: 40, PrepMinutes: 5},
		{Name: "Corte + Barba", DurationMinutes: 60, PrepMinutes: 0},
	}

	// Buffer compounds once per chained service.
	if got := EffectiveDuration(services, 10); got != 125 {
		t.Errorf("EffectiveDuration with buffer = %d, want 125", got)
	}
	if got := EffectiveDuration(services, 0); got != 105 {
		t.Errorf("EffectiveDuration without buffer = %d, want 105", got)
	}
	if got := EffectiveDuration(nil, 10); got != 0 {
		t.Errorf("EffectiveDuration of empty selection = %d, want 0", got)
	}
}

func TestIsWorkingDay(t *testing.T) {
	p := &SchedulePolicy{WorkDays: []int{1, 2, 3, 4, 5, 6}}
	if !p.IsWorkingDay(1) || !p.IsWorkingDay(6) {
		t.Error("weekdays should be working days")
	}
	if p.IsWorkingDay(7) {
		t.Error("sunday is not in the working set")
	}
	empty := &SchedulePolicy{}
	if empty.IsWorkingDay(1) {
		t.Error("empty working set admits no day")
	}
}

func TestLeadHours(t *testing.T) {
	if got := (&SchedulePolicy{CancelLeadHours: 6}).LeadHours(); got != 6 {
		t.Errorf("LeadHours = %d, want 6", got)
	}
	if got := (&SchedulePolicy{}).LeadHours(); got != DefaultCancelLeadHours {
		t.Errorf("unset lead hours must fall back to %d, got %d", DefaultCancelLeadHours, got)
	}
}

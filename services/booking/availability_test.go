package booking

import (
	"context"
	"errors"
	"testing"

	"trimly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() *models.SchedulePolicy {
	return &models.SchedulePolicy{
		WorkDays:    []int{1, 2, 3, 4, 5, 6},
		OpenTime:    "08:00",
		CloseTime:   "20:00",
		SlotMinutes: 20,
	}
}

func quickService(dur, prep int) models.Service {
	return models.Service{ID: "svc", Name: "Corte", DurationMinutes: dur, PrepMinutes: prep, Active: true}
}

// 2026-03-02 is a Monday; 2026-03-01 a Sunday.
const (
	monday = "2026-03-02"
	sunday = "2026-03-01"
)

func TestComputeSlots_FullOpenDay(t *testing.T) {
	now := civilTime(2026, 3, 1, 10, 0)
	slots := computeSlots(testPolicy(), []models.Service{quickService(20, 0)}, monday, now, dayLoad{})

	if len(slots) != 36 {
		t.Fatalf("expected 36 slots, got %d", len(slots))
	}
	if slots[0] != "08:00" {
		t.Errorf("expected first slot 08:00, got %s", slots[0])
	}
	// 19:40 + 20min lands exactly on close, which is allowed. 20:00 is not.
	if slots[len(slots)-1] != "19:40" {
		t.Errorf("expected last slot 19:40, got %s", slots[len(slots)-1])
	}
}

func TestComputeSlots_ChainCompoundsBuffer(t *testing.T) {
	policy := testPolicy()
	policy.BufferMinutes = 10
	services := []models.Service{quickService(40, 5), quickService(60, 0)}
	now := civilTime(2026, 3, 1, 10, 0)

	// Effective duration 40+5+10 + 60+0+10 = 125 minutes. The latest
	// candidate whose whole chain fits before 20:00 is 17:40.
	slots := computeSlots(policy, services, monday, now, dayLoad{})
	if len(slots) == 0 {
		t.Fatal("expected slots")
	}
	if slots[len(slots)-1] != "17:40" {
		t.Errorf("expected last slot 17:40, got %s", slots[len(slots)-1])
	}
	for _, s := range slots {
		if s == "18:00" {
			t.Error("18:00 should not fit a 125 minute chain")
		}
	}
}

func TestComputeSlots_NonWorkingDay(t *testing.T) {
	now := civilTime(2026, 2, 28, 10, 0)
	slots := computeSlots(testPolicy(), []models.Service{quickService(20, 0)}, sunday, now, dayLoad{})
	if slots == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a closed day, got %d", len(slots))
	}
}

func TestComputeSlots_SameDayPastFiltered(t *testing.T) {
	now := civilTime(2026, 3, 2, 10, 30)
	slots := computeSlots(testPolicy(), []models.Service{quickService(20, 0)}, monday, now, dayLoad{})
	if len(slots) == 0 {
		t.Fatal("expected slots")
	}
	if slots[0] != "10:40" {
		t.Errorf("expected first future slot 10:40, got %s", slots[0])
	}
}

func TestComputeSlots_SkipsBookingsAndBlocks(t *testing.T) {
	now := civilTime(2026, 3, 1, 10, 0)
	day := dayLoad{
		Bookings: []models.Booking{{StartTime: "09:00", EndTime: "10:00", Status: models.BookingConfirmed}},
		Blocks:   []models.TimeBlock{{Date: monday, StartTime: "14:00", EndTime: "15:00"}},
	}
	slots := computeSlots(testPolicy(), []models.Service{quickService(20, 0)}, monday, now, day)

	have := map[string]bool{}
	for _, s := range slots {
		have[s] = true
	}
	for _, gone := range []string{"09:00", "09:20", "09:40", "14:00", "14:20", "14:40"} {
		if have[gone] {
			t.Errorf("slot %s overlaps an occupied interval", gone)
		}
	}
	// Adjacent intervals touch without overlapping.
	for _, kept := range []string{"08:40", "10:00", "13:40", "15:00"} {
		if !have[kept] {
			t.Errorf("slot %s should still be free", kept)
		}
	}
}

func TestComputeSlots_ClosureWinsOverEverything(t *testing.T) {
	now := civilTime(2026, 3, 1, 10, 0)
	day := dayLoad{
		Closures: []models.ShopClosure{{
			StartAt: civilTime(2026, 3, 2, 0, 0),
			EndAt:   civilTime(2026, 3, 3, 0, 0),
		}},
	}
	slots := computeSlots(testPolicy(), []models.Service{quickService(20, 0)}, monday, now, day)
	if len(slots) != 0 {
		t.Fatalf("expected no slots under a full-day closure, got %d", len(slots))
	}
}

func TestComputeSlots_DegenerateInputs(t *testing.T) {
	now := civilTime(2026, 3, 1, 10, 0)
	svc := []models.Service{quickService(20, 0)}

	if got := computeSlots(nil, svc, monday, now, dayLoad{}); len(got) != 0 {
		t.Error("nil policy must produce no slots")
	}

	broken := testPolicy()
	broken.SlotMinutes = 0
	if got := computeSlots(broken, svc, monday, now, dayLoad{}); len(got) != 0 {
		t.Error("zero granularity must produce no slots")
	}

	inverted := testPolicy()
	inverted.OpenTime = "20:00"
	inverted.CloseTime = "08:00"
	if got := computeSlots(inverted, svc, monday, now, dayLoad{}); len(got) != 0 {
		t.Error("inverted hours must produce no slots")
	}

	if got := computeSlots(testPolicy(), nil, monday, now, dayLoad{}); len(got) != 0 {
		t.Error("empty service selection must produce no slots")
	}
}

func TestAvailableSlots_Validation(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()

	_, err := env.svc.AvailableSlots(ctx, "shop1", "02/03/2026", []string{"svc-cut"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "malformed date must be a validation error")

	_, err = env.svc.AvailableSlots(ctx, "shop1", monday, nil)
	require.True(t, errors.As(err, &ve), "empty service selection must be a validation error")

	_, err = env.svc.AvailableSlots(ctx, "shop1", monday, []string{"svc-ghost"})
	require.True(t, errors.As(err, &ve), "unknown service must be a validation error, not an empty answer")
}

func TestAvailableSlots_ShopGates(t *testing.T) {
	now := civilTime(2026, 3, 1, 10, 0)
	env := newTestEnv(now)
	ctx := context.Background()

	_, err := env.svc.AvailableSlots(ctx, "no-such-shop", monday, []string{"svc-cut"})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))

	env.shops.shops["shop1"].PlanExpiresAt = now.AddDate(0, 0, -1)
	_, err = env.svc.AvailableSlots(ctx, "shop1", monday, []string{"svc-cut"})
	var locked *ShopLockedError
	require.True(t, errors.As(err, &locked), "expired plan must lock availability")
}

func TestAvailableSlots_ReflectsExistingBookings(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()

	env.bookings.bookings["b1"] = &models.Booking{
		ID: "b1", ShopID: "shop1", CustomerID: "cust1", ServiceID: "svc-cut",
		Date: monday, StartTime: "09:00", EndTime: "09:45",
		Status: models.BookingConfirmed,
	}

	slots, err := env.svc.AvailableSlots(ctx, "shop1", monday, []string{"svc-cut"})
	require.NoError(t, err)
	assert.NotContains(t, slots, "09:00")
	assert.NotContains(t, slots, "09:20")
	assert.NotContains(t, slots, "09:40")
	assert.Contains(t, slots, "10:00")

	// Canceled bookings do not occupy the grid.
	env.bookings.bookings["b1"].Status = models.BookingCanceled
	slots, err = env.svc.AvailableSlots(ctx, "shop1", monday, []string{"svc-cut"})
	require.NoError(t, err)
	assert.Contains(t, slots, "09:00")
}

func TestAvailableSlots_Deterministic(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()

	first, err := env.svc.AvailableSlots(ctx, "shop1", monday, []string{"svc-cut", "svc-combo"})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := env.svc.AvailableSlots(ctx, "shop1", monday, []string{"svc-cut", "svc-combo"})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

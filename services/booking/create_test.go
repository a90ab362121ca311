package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"trimly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainRows_SequentialTimes(t *testing.T) {
	now := civilTime(2026, 3, 1, 10, 0)
	shop := &models.Shop{ID: "shop1", Schedule: &models.SchedulePolicy{SlotMinutes: 20, BufferMinutes: 10}}
	services := []models.Service{
		{ID: "a", Name: "Corte", DurationMinutes: 40, PrepMinutes: 5},
		{ID: "b", Name: "Barba", DurationMinutes: 60, PrepMinutes: 0},
	}

	rows, err := chainRows(shop, "cust1", services, monday, "09:00", "", now)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "09:00", rows[0].StartTime)
	assert.Equal(t, "09:55", rows[0].EndTime) // 40 + 5 + 10
	assert.Equal(t, "09:55", rows[1].StartTime)
	assert.Equal(t, "11:05", rows[1].EndTime) // 60 + 0 + 10
	for _, r := range rows {
		assert.Equal(t, models.BookingConfirmed, r.Status)
		assert.NotEmpty(t, r.ID)
	}

	_, err = chainRows(shop, "cust1", services, monday, "9am", "", now)
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestClaimSlots_CoversEveryTouchedCell(t *testing.T) {
	policy := &models.SchedulePolicy{OpenTime: "08:00", CloseTime: "20:00", SlotMinutes: 20}
	rows := []models.Booking{
		{ID: "b1", ShopID: "shop1", Date: monday, StartTime: "09:00", EndTime: "09:55"},
		{ID: "b2", ShopID: "shop1", Date: monday, StartTime: "09:55", EndTime: "11:05"},
	}

	claims := claimSlots(policy, rows)

	got := map[string]bool{}
	for _, c := range claims {
		got[c.Slot] = true
	}
	// The first row touches 09:00..09:40; the second ends off-grid at 11:05
	// and still reaches back into the 09:40 cell it starts inside.
	want := []string{"09:00", "09:20", "09:40", "10:00", "10:20", "10:40", "11:00"}
	assert.Len(t, claims, len(want), "one claim per distinct touched cell")
	for _, slot := range want {
		assert.True(t, got[slot], "missing claim for cell %s", slot)
	}
	for _, c := range claims {
		assert.Equal(t, "shop1|"+monday+"|"+c.Slot, c.ID)
	}
}

func TestClaimSlots_NilPolicy(t *testing.T) {
	rows := []models.Booking{{ID: "b1", ShopID: "shop1", Date: monday, StartTime: "09:00", EndTime: "09:20"}}
	assert.Nil(t, claimSlots(nil, rows))
	assert.Nil(t, claimSlots(&models.SchedulePolicy{SlotMinutes: 0}, rows))
}

func TestCreate_HappyPath(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()

	res, err := env.svc.Create(ctx, CreateRequest{
		ShopID:     "shop1",
		CustomerID: "cust1",
		ServiceIDs: []string{"svc-cut", "svc-combo"},
		Date:       monday,
		StartTime:  "09:00",
	})
	require.NoError(t, err)
	require.Len(t, res.Bookings, 2)
	assert.Equal(t, res.BookingIDs[0], res.Bookings[0].ID)
	assert.Equal(t, "cust1", res.CustomerID)
	assert.Contains(t, res.WhatsAppLink, "https://wa.me/5511988887777?text=")

	// Chain: cut 40+5, combo 60+0, buffer 0.
	assert.Equal(t, "09:45", res.Bookings[0].EndTime)
	assert.Equal(t, "09:45", res.Bookings[1].StartTime)
	assert.Equal(t, "10:45", res.Bookings[1].EndTime)

	// The rows are persisted and their cells claimed.
	held := env.bookings.claimSlotsHeld("shop1", monday)
	assert.Equal(t, []string{"09:00", "09:20", "09:40", "10:00", "10:20", "10:40"}, held)

	// First booking binds the preferred shop.
	cust, _ := env.customers.GetByID(ctx, "cust1")
	assert.Equal(t, "shop1", cust.PreferredShopID)
}

func TestCreate_ConflictSuggestsAlternatives(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()

	first, err := env.svc.Create(ctx, CreateRequest{
		ShopID: "shop1", CustomerID: "cust1",
		ServiceIDs: []string{"svc-cut"}, Date: monday, StartTime: "09:00",
	})
	require.NoError(t, err)
	require.Len(t, first.Bookings, 1)

	_, err = env.svc.Create(ctx, CreateRequest{
		ShopID: "shop1", CustomerID: "cust1",
		ServiceIDs: []string{"svc-cut"}, Date: monday, StartTime: "09:20",
	})
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.LessOrEqual(t, len(conflict.Alternatives), 3)
	assert.NotContains(t, conflict.Alternatives, "09:00")
	assert.NotContains(t, conflict.Alternatives, "09:20")
}

func TestCreate_LostRaceAtCommit(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()

	// A concurrent writer holds a claim but its booking row is not visible
	// yet, so the availability pre-check still offers the slot.
	env.bookings.claims["shop1|"+monday+"|09:20"] = models.SlotClaim{
		ID: "shop1|" + monday + "|09:20", ShopID: "shop1", Date: monday, Slot: "09:20", BookingID: "other",
	}

	_, err := env.svc.Create(ctx, CreateRequest{
		ShopID: "shop1", CustomerID: "cust1",
		ServiceIDs: []string{"svc-cut"}, Date: monday, StartTime: "09:00",
	})
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict), "duplicate claim must surface as a conflict, got %v", err)

	// Nothing was written for the loser.
	assert.Empty(t, env.bookings.bookings)
}

func TestCreate_GuardsCustomer(t *testing.T) {
	now := civilTime(2026, 3, 1, 10, 0)
	env := newTestEnv(now)
	ctx := context.Background()
	req := CreateRequest{
		ShopID: "shop1", CustomerID: "cust1",
		ServiceIDs: []string{"svc-cut"}, Date: monday, StartTime: "09:00",
	}

	until := now.Add(48 * time.Hour)
	env.customers.customers["cust1"].BlockedUntil = &until
	_, err := env.svc.Create(ctx, req)
	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, until, blocked.Until)

	env.customers.customers["cust1"].BlockedUntil = nil
	env.customers.customers["cust1"].PreferredShopID = "another-shop"
	_, err = env.svc.Create(ctx, req)
	var denied *AccessDeniedError
	require.True(t, errors.As(err, &denied))
}

func TestFirstN(t *testing.T) {
	slots := []string{"08:00", "08:20", "08:40", "09:00"}
	assert.Equal(t, []string{"08:00", "08:20", "08:40"}, firstN(slots, 3))
	assert.Equal(t, slots, firstN(slots, 10))
}

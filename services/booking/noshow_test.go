package booking

import (
	"context"
	"errors"
	"testing"

	"trimly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkNoShow_CounterAndBlock(t *testing.T) {
	now := civilTime(2026, 3, 1, 10, 0)
	env := newTestEnv(now)
	ctx := context.Background()
	seedBooking(env, "b1", "09:00", "09:45")
	seedBooking(env, "b2", "11:00", "11:45")

	res, err := env.svc.MarkNoShow(ctx, "shop1", "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.NoShowCount)
	assert.Nil(t, res.BlockedUntil, "first strike must not block")

	b, _ := env.bookings.GetByID(ctx, "b1")
	assert.Equal(t, models.BookingNoShow, b.Status)
	assert.NotNil(t, b.NoShowMarkedAt)

	// Second strike hits the threshold: thirty day block.
	res, err = env.svc.MarkNoShow(ctx, "shop1", "b2")
	require.NoError(t, err)
	assert.Equal(t, 2, res.NoShowCount)
	require.NotNil(t, res.BlockedUntil)
	assert.Equal(t, now.AddDate(0, 0, 30), *res.BlockedUntil)

	cust, _ := env.customers.GetByID(ctx, "cust1")
	assert.Equal(t, 2, cust.NoShowCount)
	require.NotNil(t, cust.BlockedUntil)

	// A blocked customer cannot book.
	_, err = env.svc.Create(ctx, CreateRequest{
		ShopID: "shop1", CustomerID: "cust1",
		ServiceIDs: []string{"svc-cut"}, Date: monday, StartTime: "14:00",
	})
	var blocked *BlockedError
	assert.True(t, errors.As(err, &blocked))
}

func TestMarkNoShow_Idempotent(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()
	seedBooking(env, "b1", "09:00", "09:45")

	first, err := env.svc.MarkNoShow(ctx, "shop1", "b1")
	require.NoError(t, err)

	again, err := env.svc.MarkNoShow(ctx, "shop1", "b1")
	require.NoError(t, err)
	assert.Equal(t, first.NoShowCount, again.NoShowCount, "re-marking must not double count")
}

func TestMarkNoShow_OnlyConfirmed(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()
	seedBooking(env, "b1", "09:00", "09:45")
	env.bookings.bookings["b1"].Status = models.BookingCanceled

	_, err := env.svc.MarkNoShow(ctx, "shop1", "b1")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	_, err = env.svc.MarkNoShow(ctx, "shop1", "ghost")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))

	// Bookings of other shops are invisible.
	_, err = env.svc.MarkNoShow(ctx, "shop2", "b1")
	require.True(t, errors.As(err, &nf))
}

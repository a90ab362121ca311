package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "trimly/database/repository/booking"
	catalogRepo "trimly/database/repository/catalog"
	customerRepo "trimly/database/repository/customer"
	shopRepo "trimly/database/repository/shop"
	"trimly/models"
	"trimly/services/booking"
	"trimly/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/mongo"
)

// Stubs embed the repository interfaces and implement only what the
// reminder paths touch.

type stubBookingRepo struct {
	bookingRepo.BookingRepository
	rows    map[string]*models.Booking
	stamped map[string]time.Time
}

func (r *stubBookingRepo) ListReminderDue(_ context.Context, fromDate string, limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.rows {
		if b.Status == models.BookingConfirmed && b.ReminderSentAt == nil && b.Date >= fromDate {
			out = append(out, *b)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubBookingRepo) MarkReminderSent(_ context.Context, ids []string, at time.Time) error {
	for _, id := range ids {
		r.stamped[id] = at
		if b, ok := r.rows[id]; ok {
			stamp := at
			b.ReminderSentAt = &stamp
		}
	}
	return nil
}

func (r *stubBookingRepo) GetForShop(_ context.Context, shopID, id string) (*models.Booking, error) {
	b, ok := r.rows[id]
	if !ok || b.ShopID != shopID {
		return nil, mongo.ErrNoDocuments
	}
	cp := *b
	return &cp, nil
}

type stubCustomerRepo struct {
	customerRepo.CustomerRepository
}

func (r *stubCustomerRepo) GetByID(_ context.Context, id string) (*models.Customer, error) {
	return &models.Customer{ID: id, Name: "Joao", Phone: "11977776666"}, nil
}

type stubShopRepo struct {
	shopRepo.ShopRepository
}

func (r *stubShopRepo) GetByID(_ context.Context, id string) (*models.Shop, error) {
	return &models.Shop{ID: id, Name: "Barbearia Teste", Phone: "11988887777"}, nil
}

type stubCatalogRepo struct {
	catalogRepo.CatalogRepository
}

func (r *stubCatalogRepo) GetByID(_ context.Context, id string) (*models.Service, error) {
	return &models.Service{ID: id, Name: "Corte"}, nil
}

func newSweepService(now time.Time, rows ...*models.Booking) (*DefaultReminderService, *stubBookingRepo) {
	repo := &stubBookingRepo{
		rows:    map[string]*models.Booking{},
		stamped: map[string]time.Time{},
	}
	for _, b := range rows {
		repo.rows[b.ID] = b
	}
	svc := &DefaultReminderService{
		BookingRepo:  repo,
		CustomerRepo: &stubCustomerRepo{},
		ShopRepo:     &stubShopRepo{},
		CatalogRepo:  &stubCatalogRepo{},
		Now:          func() time.Time { return now },
	}
	return svc, repo
}

func confirmedAt(id, date, start string) *models.Booking {
	return &models.Booking{
		ID: id, ShopID: "shop1", CustomerID: "cust1", ServiceID: "svc-cut",
		Date: date, StartTime: start, EndTime: start,
		Status: models.BookingConfirmed,
	}
}

func TestSweep_OnlyNext24Hours(t *testing.T) {
	// Saturday 2026-03-07 at 15:00 civil time.
	now := time.Date(2026, 3, 7, 15, 0, 0, 0, utils.CivilZone)
	svc, repo := newSweepService(now,
		confirmedAt("past", "2026-03-07", "10:00"),       // already started
		confirmedAt("tonight", "2026-03-07", "18:00"),    // within horizon
		confirmedAt("tomorrow", "2026-03-08", "14:00"),   // within horizon
		confirmedAt("too-far", "2026-03-08", "15:30"),    // beyond 24h
		confirmedAt("next-week", "2026-03-14", "10:00"),  // beyond 24h
	)

	res, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)

	reminded := map[string]bool{}
	for _, item := range res.Reminders {
		reminded[item.BookingID] = true
		assert.Contains(t, item.WhatsAppLink, "https://wa.me/5511988887777?text=")
	}
	assert.True(t, reminded["tonight"])
	assert.True(t, reminded["tomorrow"])
	assert.False(t, reminded["past"])
	assert.False(t, reminded["too-far"])

	_, stamped := repo.stamped["tonight"]
	assert.True(t, stamped)
}

func TestSweep_SecondRunIsQuiet(t *testing.T) {
	now := time.Date(2026, 3, 7, 15, 0, 0, 0, utils.CivilZone)
	svc, _ := newSweepService(now, confirmedAt("b1", "2026-03-07", "18:00"))

	first, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	second, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed, "stamped bookings must not be re-reminded")
	assert.Empty(t, second.Reminders)
}

func TestSendOne(t *testing.T) {
	now := time.Date(2026, 3, 7, 15, 0, 0, 0, utils.CivilZone)
	b := confirmedAt("b1", "2026-03-07", "18:00")
	svc, repo := newSweepService(now, b)

	item, err := svc.SendOne(context.Background(), "shop1", "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", item.BookingID)
	assert.NotEmpty(t, item.WhatsAppLink)

	// Manual resends just refresh the stamp.
	_, err = svc.SendOne(context.Background(), "shop1", "b1")
	require.NoError(t, err)
	assert.Len(t, repo.stamped, 1)

	b.Status = models.BookingCanceled
	_, err = svc.SendOne(context.Background(), "shop1", "b1")
	var ve *booking.ValidationError
	require.True(t, errors.As(err, &ve))

	_, err = svc.SendOne(context.Background(), "shop1", "ghost")
	var nf *booking.NotFoundError
	require.True(t, errors.As(err, &nf))
}

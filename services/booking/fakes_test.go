package booking

import (
	"context"
	"sort"
	"strings"
	"time"

	"trimly/models"
	"trimly/utils"

	"go.mongodb.org/mongo-driver/mongo"

	bookingRepo "trimly/database/repository/booking"
)

// In-memory repository fakes backing the service tests.

type fakeShopRepo struct {
	shops map[string]*models.Shop
}

func newFakeShopRepo() *fakeShopRepo {
	return &fakeShopRepo{shops: map[string]*models.Shop{}}
}

func (r *fakeShopRepo) Create(_ context.Context, s *models.Shop) error {
	r.shops[s.ID] = s
	return nil
}

func (r *fakeShopRepo) GetByID(_ context.Context, id string) (*models.Shop, error) {
	s, ok := r.shops[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *s
	return &cp, nil
}

func (r *fakeShopRepo) GetBySlug(_ context.Context, slug string) (*models.Shop, error) {
	for _, s := range r.shops {
		if s.PublicSlug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeShopRepo) GetByUserID(_ context.Context, userID string) (*models.Shop, error) {
	for _, s := range r.shops {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeShopRepo) GetByEmail(_ context.Context, email string) (*models.Shop, error) {
	for _, s := range r.shops {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeShopRepo) List(_ context.Context) ([]models.Shop, error) {
	out := make([]models.Shop, 0, len(r.shops))
	for _, s := range r.shops {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeShopRepo) UpdateProfile(_ context.Context, id string, fields map[string]interface{}) error {
	s, ok := r.shops[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := fields["name"].(string); ok {
		s.Name = v
	}
	if v, ok := fields["phone"].(string); ok {
		s.Phone = v
	}
	return nil
}

func (r *fakeShopRepo) UpdateSchedule(_ context.Context, id string, policy *models.SchedulePolicy) error {
	s, ok := r.shops[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.Schedule = policy
	return nil
}

func (r *fakeShopRepo) UpdatePlan(_ context.Context, id string, planType models.PlanType, price int, startsAt, expiresAt time.Time) error {
	s, ok := r.shops[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.PlanType = planType
	s.PlanPrice = price
	s.PlanStartsAt = startsAt
	s.PlanExpiresAt = expiresAt
	return nil
}

func (r *fakeShopRepo) SetMetricsResetAt(_ context.Context, id string, at time.Time) error {
	s, ok := r.shops[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.MetricsResetAt = &at
	return nil
}

func (r *fakeShopRepo) EnsureIndexes() error { return nil }

type fakeCatalogRepo struct {
	services map[string]models.Service
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{services: map[string]models.Service{}}
}

func (r *fakeCatalogRepo) Create(_ context.Context, svc *models.Service) error {
	r.services[svc.ID] = *svc
	return nil
}

func (r *fakeCatalogRepo) GetByID(_ context.Context, id string) (*models.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &svc, nil
}

func (r *fakeCatalogRepo) GetActiveOrdered(_ context.Context, shopID string, ids []string) ([]models.Service, bool, error) {
	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := r.services[id]
		if !ok || !svc.Active || svc.ShopID != shopID {
			return nil, false, nil
		}
		out = append(out, svc)
	}
	return out, true, nil
}

func (r *fakeCatalogRepo) ListByShop(_ context.Context, shopID string, activeOnly bool) ([]models.Service, error) {
	var out []models.Service
	for _, svc := range r.services {
		if svc.ShopID != shopID {
			continue
		}
		if activeOnly && !svc.Active {
			continue
		}
		out = append(out, svc)
	}
	return out, nil
}

func (r *fakeCatalogRepo) Update(_ context.Context, shopID, id string, fields map[string]interface{}) error {
	svc, ok := r.services[id]
	if !ok || svc.ShopID != shopID {
		return mongo.ErrNoDocuments
	}
	if v, ok := fields["price"].(int); ok {
		svc.Price = v
	}
	if v, ok := fields["active"].(bool); ok {
		svc.Active = v
	}
	r.services[id] = svc
	return nil
}

func (r *fakeCatalogRepo) EnsureIndexes() error { return nil }

type fakeCustomerRepo struct {
	customers map[string]*models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]*models.Customer{}}
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *models.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*models.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByUserID(_ context.Context, userID string) (*models.Customer, error) {
	for _, c := range r.customers {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeCustomerRepo) GetByPhoneForShop(_ context.Context, shopID, phone string) (*models.Customer, error) {
	var best *models.Customer
	for _, c := range r.customers {
		if c.Phone != phone {
			continue
		}
		if c.PreferredShopID != "" && c.PreferredShopID != shopID {
			continue
		}
		if best == nil || c.CreatedAt.After(best.CreatedAt) {
			best = c
		}
	}
	if best == nil {
		return nil, mongo.ErrNoDocuments
	}
	cp := *best
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByPhone(_ context.Context, phone string) (*models.Customer, error) {
	var best *models.Customer
	for _, c := range r.customers {
		if c.Phone != phone {
			continue
		}
		if best == nil || c.CreatedAt.After(best.CreatedAt) {
			best = c
		}
	}
	if best == nil {
		return nil, mongo.ErrNoDocuments
	}
	cp := *best
	return &cp, nil
}

func (r *fakeCustomerRepo) ListByPreferredShop(_ context.Context, shopID string) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range r.customers {
		if c.PreferredShopID == shopID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	c, ok := r.customers[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := fields["name"].(string); ok {
		c.Name = v
	}
	if v, ok := fields["phone"].(string); ok {
		c.Phone = v
	}
	if v, ok := fields["preferred_shop_id"].(string); ok {
		c.PreferredShopID = v
	}
	return nil
}

func (r *fakeCustomerRepo) BindPreferredShop(_ context.Context, id, shopID string) error {
	c, ok := r.customers[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if c.PreferredShopID == "" {
		c.PreferredShopID = shopID
	}
	return nil
}

func (r *fakeCustomerRepo) ApplyNoShow(_ context.Context, id string, count int, blockedUntil *time.Time) error {
	c, ok := r.customers[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.NoShowCount = count
	c.BlockedUntil = blockedUntil
	return nil
}

func (r *fakeCustomerRepo) EnsureIndexes() error { return nil }

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
	claims   map[string]models.SlotClaim
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: map[string]*models.Booking{},
		claims:   map[string]models.SlotClaim{},
	}
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) GetForShop(_ context.Context, shopID, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok || b.ShopID != shopID {
		return nil, mongo.ErrNoDocuments
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) GetForCustomer(_ context.Context, customerID, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok || b.CustomerID != customerID {
		return nil, mongo.ErrNoDocuments
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) ListConfirmedByShopDate(_ context.Context, shopID, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ShopID == shopID && b.Date == date && b.Status == models.BookingConfirmed {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *fakeBookingRepo) ListByShopDate(_ context.Context, shopID, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ShopID == shopID && b.Date == date {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *fakeBookingRepo) ListByCustomer(_ context.Context, customerID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].StartTime > out[j].StartTime
	})
	return out, nil
}

func (r *fakeBookingRepo) ListConfirmedInRange(_ context.Context, shopID, fromDate, toDate string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ShopID == shopID && b.Status == models.BookingConfirmed &&
			b.Date >= fromDate && b.Date < toDate {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CreateSequential(_ context.Context, bookings []models.Booking, claims []models.SlotClaim) error {
	for _, c := range claims {
		if _, exists := r.claims[c.ID]; exists {
			return bookingRepo.ErrSlotTaken
		}
	}
	for _, c := range claims {
		r.claims[c.ID] = c
	}
	for i := range bookings {
		cp := bookings[i]
		r.bookings[cp.ID] = &cp
	}
	return nil
}

func (r *fakeBookingRepo) Terminate(_ context.Context, id string, status models.BookingStatus, fields map[string]interface{}) error {
	b, ok := r.bookings[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	b.Status = status
	if at, ok := fields["no_show_marked_at"].(time.Time); ok {
		b.NoShowMarkedAt = &at
	}
	r.releaseClaims(id)
	return nil
}

func (r *fakeBookingRepo) Reschedule(_ context.Context, id, date, startTime, endTime string, claims []models.SlotClaim) error {
	b, ok := r.bookings[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for _, c := range claims {
		if held, exists := r.claims[c.ID]; exists && held.BookingID != id {
			return bookingRepo.ErrSlotTaken
		}
	}
	r.releaseClaims(id)
	for _, c := range claims {
		r.claims[c.ID] = c
	}
	b.Date = date
	b.StartTime = startTime
	b.EndTime = endTime
	b.Status = models.BookingConfirmed
	b.CustomerConfirmedAt = nil
	return nil
}

func (r *fakeBookingRepo) SetCustomerConfirmed(_ context.Context, id string, at time.Time) error {
	b, ok := r.bookings[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	b.CustomerConfirmedAt = &at
	return nil
}

func (r *fakeBookingRepo) ListReminderDue(_ context.Context, fromDate string, limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.BookingConfirmed && b.ReminderSentAt == nil && b.Date >= fromDate {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) MarkReminderSent(_ context.Context, ids []string, at time.Time) error {
	for _, id := range ids {
		if b, ok := r.bookings[id]; ok {
			stamp := at
			b.ReminderSentAt = &stamp
		}
	}
	return nil
}

func (r *fakeBookingRepo) EnsureIndexes() error { return nil }

func (r *fakeBookingRepo) releaseClaims(bookingID string) {
	for id, c := range r.claims {
		if c.BookingID == bookingID {
			delete(r.claims, id)
		}
	}
}

func (r *fakeBookingRepo) claimSlotsHeld(shopID, date string) []string {
	var out []string
	for id := range r.claims {
		if strings.HasPrefix(id, shopID+"|"+date+"|") {
			out = append(out, strings.TrimPrefix(id, shopID+"|"+date+"|"))
		}
	}
	sort.Strings(out)
	return out
}

type fakeAgendaRepo struct {
	blocks   []models.TimeBlock
	closures []models.ShopClosure
}

func (r *fakeAgendaRepo) CreateBlock(_ context.Context, block *models.TimeBlock) error {
	r.blocks = append(r.blocks, *block)
	return nil
}

func (r *fakeAgendaRepo) DeleteBlock(_ context.Context, shopID, id string) error {
	for i, b := range r.blocks {
		if b.ShopID == shopID && b.ID == id {
			r.blocks = append(r.blocks[:i], r.blocks[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeAgendaRepo) ListBlocks(_ context.Context, shopID, date string) ([]models.TimeBlock, error) {
	var out []models.TimeBlock
	for _, b := range r.blocks {
		if b.ShopID == shopID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeAgendaRepo) ListAllBlocks(_ context.Context, shopID string) ([]models.TimeBlock, error) {
	var out []models.TimeBlock
	for _, b := range r.blocks {
		if b.ShopID == shopID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeAgendaRepo) CreateClosure(_ context.Context, closure *models.ShopClosure) error {
	r.closures = append(r.closures, *closure)
	return nil
}

func (r *fakeAgendaRepo) DeleteClosure(_ context.Context, shopID, id string) error {
	for i, c := range r.closures {
		if c.ShopID == shopID && c.ID == id {
			r.closures = append(r.closures[:i], r.closures[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeAgendaRepo) ListClosuresIntersecting(_ context.Context, shopID string, windowStart, windowEnd time.Time) ([]models.ShopClosure, error) {
	var out []models.ShopClosure
	for _, c := range r.closures {
		if c.ShopID == shopID && c.StartAt.Before(windowEnd) && c.EndAt.After(windowStart) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeAgendaRepo) ListAllClosures(_ context.Context, shopID string) ([]models.ShopClosure, error) {
	var out []models.ShopClosure
	for _, c := range r.closures {
		if c.ShopID == shopID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeAgendaRepo) EnsureIndexes() error { return nil }

// testEnv bundles the fakes behind one DefaultBookingService.
type testEnv struct {
	svc       *DefaultBookingService
	shops     *fakeShopRepo
	catalog   *fakeCatalogRepo
	customers *fakeCustomerRepo
	bookings  *fakeBookingRepo
	agenda    *fakeAgendaRepo
}

// civilTime builds an instant at the given civil clock time.
func civilTime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, utils.CivilZone)
}

func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		shops:     newFakeShopRepo(),
		catalog:   newFakeCatalogRepo(),
		customers: newFakeCustomerRepo(),
		bookings:  newFakeBookingRepo(),
		agenda:    &fakeAgendaRepo{},
	}
	env.svc = &DefaultBookingService{
		ShopRepo:     env.shops,
		CatalogRepo:  env.catalog,
		CustomerRepo: env.customers,
		BookingRepo:  env.bookings,
		AgendaRepo:   env.agenda,
		Now:          func() time.Time { return now },
	}

	env.shops.shops["shop1"] = &models.Shop{
		ID:         "shop1",
		UserID:     "barber1",
		PublicSlug: "barbearia-teste",
		Name:       "Barbearia Teste",
		Phone:      "11988887777",
		Schedule: &models.SchedulePolicy{
			WorkDays:        []int{1, 2, 3, 4, 5, 6},
			OpenTime:        "08:00",
			CloseTime:       "20:00",
			SlotMinutes:     20,
			BufferMinutes:   0,
			CancelLeadHours: 2,
		},
		PlanType:      models.PlanMonthly,
		PlanExpiresAt: now.AddDate(0, 1, 0),
	}
	env.catalog.services["svc-cut"] = models.Service{
		ID: "svc-cut", ShopID: "shop1", Name: "Corte",
		DurationMinutes: 40, PrepMinutes: 5, Price: 3500, Active: true,
	}
	env.catalog.services["svc-combo"] = models.Service{
		ID: "svc-combo", ShopID: "shop1", Name: "Corte + Barba",
		DurationMinutes: 60, PrepMinutes: 0, Price: 5500, Active: true,
	}
	env.customers.customers["cust1"] = &models.Customer{
		ID:     "cust1",
		UserID: "user-c1",
		Name:   "Joao",
		Phone:  "11977776666",
	}
	return env
}

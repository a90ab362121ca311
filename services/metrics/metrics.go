package metrics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	bookingRepo "trimly/database/repository/booking"
	catalogRepo "trimly/database/repository/catalog"
	reportRepo "trimly/database/repository/report"
	shopRepo "trimly/database/repository/shop"
	"trimly/models"
	"trimly/services/booking"
	"trimly/utils"

	"github.com/google/uuid"
)

// unboundedDate keeps the range query open-ended upward: future confirmed
// bookings count toward the current window.
const unboundedDate = "9999-12-31"

// Report is the read-side aggregation over CONFIRMED bookings since the
// shop's metrics baseline. Revenue uses the service's current price; prices
// are not snapshotted on bookings, so historical revenue shifts when a
// price changes.
type Report struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	TotalBookings  int             `json:"total"`
	TotalRevenue   int             `json:"total_revenue"`
	AvgTicket      int             `json:"avg_ticket"`
	TopService     string          `json:"top_service"`
	Occupancy      int             `json:"occupancy"`
	RevenueDetails []RevenueDetail `json:"revenue_details"`
}

type RevenueDetail struct {
	Name    string `json:"name"`
	Qty     int    `json:"qty"`
	Revenue int    `json:"revenue"`
}

// MetricsService builds dashboard reports and manages the reset baseline.
type MetricsService interface {
	Report(ctx context.Context, shopID string) (*Report, error)
	// Reset snapshots the current window into a stored report and stamps a
	// new baseline at now.
	Reset(ctx context.Context, shopID string) (*Report, error)
	History(ctx context.Context, shopID string, limit int) ([]models.MetricReport, error)
}

// DefaultMetricsService implements MetricsService.
type DefaultMetricsService struct {
	ShopRepo    shopRepo.ShopRepository
	BookingRepo bookingRepo.BookingRepository
	CatalogRepo catalogRepo.CatalogRepository
	ReportRepo  reportRepo.ReportRepository
	Now         func() time.Time
}

func (s *DefaultMetricsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultMetricsService) Report(ctx context.Context, shopID string) (*Report, error) {
	shop, err := s.ShopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, &booking.NotFoundError{Entity: "shop", ID: shopID}
	}
	now := s.now()
	from := baselineFor(shop, now)
	return s.build(ctx, shop, from, now)
}

func (s *DefaultMetricsService) Reset(ctx context.Context, shopID string) (*Report, error) {
	shop, err := s.ShopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, &booking.NotFoundError{Entity: "shop", ID: shopID}
	}
	now := s.now()
	from := baselineFor(shop, now)
	report, err := s.build(ctx, shop, from, now)
	if err != nil {
		return nil, err
	}

	snapshot := &models.MetricReport{
		ID:            uuid.New().String(),
		ShopID:        shop.ID,
		Type:          "MANUAL",
		WindowStart:   from,
		WindowEnd:     now,
		TotalBookings: report.TotalBookings,
		TotalRevenue:  report.TotalRevenue,
		AvgTicket:     report.AvgTicket,
		Occupancy:     report.Occupancy,
		CreatedAt:     now,
	}
	if report.TopService != "-" {
		snapshot.TopService = report.TopService
	}
	if err := s.ReportRepo.Create(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("error storing metric report: %w", err)
	}
	if err := s.ShopRepo.SetMetricsResetAt(ctx, shop.ID, now); err != nil {
		return nil, fmt.Errorf("error stamping metrics baseline: %w", err)
	}
	return report, nil
}

func (s *DefaultMetricsService) History(ctx context.Context, shopID string, limit int) ([]models.MetricReport, error) {
	return s.ReportRepo.ListByShop(ctx, shopID, limit)
}

// baselineFor is the window start: the stored reset stamp, or the first of
// the current civil month.
func baselineFor(shop *models.Shop, now time.Time) time.Time {
	if shop.MetricsResetAt != nil {
		return *shop.MetricsResetAt
	}
	civil := now.In(utils.CivilZone)
	return time.Date(civil.Year(), civil.Month(), 1, 0, 0, 0, 0, utils.CivilZone)
}

func (s *DefaultMetricsService) build(ctx context.Context, shop *models.Shop, from, now time.Time) (*Report, error) {
	fromDate := utils.CivilToday(from)
	rows, err := s.BookingRepo.ListConfirmedInRange(ctx, shop.ID, fromDate, unboundedDate)
	if err != nil {
		return nil, fmt.Errorf("error loading bookings for metrics: %w", err)
	}
	services, err := s.CatalogRepo.ListByShop(ctx, shop.ID, false)
	if err != nil {
		return nil, fmt.Errorf("error loading services for metrics: %w", err)
	}
	priceByID := make(map[string]models.Service, len(services))
	for _, svc := range services {
		priceByID[svc.ID] = svc
	}

	return Aggregate(rows, priceByID, from, now), nil
}

// Aggregate computes a report from an already loaded booking window.
func Aggregate(rows []models.Booking, services map[string]models.Service, from, now time.Time) *Report {
	totalBookings := len(rows)
	totalRevenue := 0
	countByName := make(map[string]int)
	revenueByName := make(map[string]int)
	for _, b := range rows {
		svc, ok := services[b.ServiceID]
		if !ok {
			continue
		}
		totalRevenue += svc.Price
		countByName[svc.Name]++
		revenueByName[svc.Name] += svc.Price
	}

	avgTicket := 0
	if totalBookings > 0 {
		avgTicket = int(math.Round(float64(totalRevenue) / float64(totalBookings)))
	}

	// Top service by count, ties broken by name so the answer is stable.
	topService := "-"
	topCount := 0
	for name, count := range countByName {
		if count > topCount || (count == topCount && topCount > 0 && name < topService) {
			topService = name
			topCount = count
		}
	}

	daysElapsed := int(math.Ceil(now.Sub(from).Hours() / 24))
	if daysElapsed < 1 {
		daysElapsed = 1
	}
	occupancy := int(math.Round(float64(totalBookings) / float64(daysElapsed*booking.NominalDailyCapacity) * 100))
	if occupancy > 100 {
		occupancy = 100
	}

	details := make([]RevenueDetail, 0, len(revenueByName))
	for name, revenue := range revenueByName {
		details = append(details, RevenueDetail{Name: name, Qty: countByName[name], Revenue: revenue})
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].Revenue != details[j].Revenue {
			return details[i].Revenue > details[j].Revenue
		}
		if details[i].Qty != details[j].Qty {
			return details[i].Qty > details[j].Qty
		}
		return details[i].Name < details[j].Name
	})

	return &Report{
		From:           from,
		To:             now,
		TotalBookings:  totalBookings,
		TotalRevenue:   totalRevenue,
		AvgTicket:      avgTicket,
		TopService:     topService,
		Occupancy:      occupancy,
		RevenueDetails: details,
	}
}

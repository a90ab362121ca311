package booking

import (
	"context"
	"time"

	"trimly/models"
	"trimly/utils"

	"go.uber.org/zap"
)

// AvailableSlots computes the free start times for an ordered service
// selection on one civil date. An empty result is a normal answer (closed
// day, fully booked); an unresolvable service selection is a validation
// error, not "no slots".
func (s *DefaultBookingService) AvailableSlots(ctx context.Context, shopID, date string, serviceIDs []string) ([]string, error) {
	if !utils.ValidCivilDate(date) {
		return nil, NewValidationError("invalid date %q", date)
	}
	if len(serviceIDs) == 0 {
		return nil, NewValidationError("at least one service is required")
	}

	shop, err := s.loadActiveShop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	services, ok, err := s.CatalogRepo.GetActiveOrdered(ctx, shopID, serviceIDs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewValidationError("one or more services are invalid for this shop")
	}

	day, err := s.loadDay(ctx, shop, date)
	if err != nil {
		return nil, err
	}

	return computeSlots(shop.Schedule, services, date, s.now(), day), nil
}

// dayLoad is everything already occupying a shop's civil date.
type dayLoad struct {
	Bookings []models.Booking
	Blocks   []models.TimeBlock
	Closures []models.ShopClosure
}

// loadDay fetches the confirmed bookings, manual blocks and intersecting
// closures for one shop date. Closures are instant ranges, so the fetch
// window is the day's open-close span in absolute time.
func (s *DefaultBookingService) loadDay(ctx context.Context, shop *models.Shop, date string) (dayLoad, error) {
	var day dayLoad
	if shop.Schedule == nil {
		return day, nil
	}

	bookings, err := s.BookingRepo.ListConfirmedByShopDate(ctx, shop.ID, date)
	if err != nil {
		return day, err
	}
	blocks, err := s.AgendaRepo.ListBlocks(ctx, shop.ID, date)
	if err != nil {
		return day, err
	}

	openMin, errOpen := utils.MinutesOfDay(shop.Schedule.OpenTime)
	closeMin, errClose := utils.MinutesOfDay(shop.Schedule.CloseTime)
	if errOpen != nil || errClose != nil {
		utils.GetLogger().Warn("shop has malformed schedule times",
			zap.String("shopID", shop.ID))
		return day, nil
	}
	dayStart, err := utils.CivilInstant(date, openMin)
	if err != nil {
		return day, err
	}
	dayEnd, err := utils.CivilInstant(date, closeMin)
	if err != nil {
		return day, err
	}
	closures, err := s.AgendaRepo.ListClosuresIntersecting(ctx, shop.ID, dayStart, dayEnd.Add(time.Minute))
	if err != nil {
		return day, err
	}

	day.Bookings = bookings
	day.Blocks = blocks
	day.Closures = closures
	return day, nil
}

// computeSlots is the pure slot generator. Candidates step from open time in
// slot-granularity increments; one survives if the whole effective-duration
// interval fits before close (end == close allowed) and overlaps nothing.
func computeSlots(policy *models.SchedulePolicy, services []models.Service, date string, now time.Time, day dayLoad) []string {
	if policy == nil || policy.SlotMinutes <= 0 || len(services) == 0 {
		return []string{}
	}

	weekday, err := utils.CivilWeekday(date)
	if err != nil || !policy.IsWorkingDay(weekday) {
		return []string{}
	}

	openMin, errOpen := utils.MinutesOfDay(policy.OpenTime)
	closeMin, errClose := utils.MinutesOfDay(policy.CloseTime)
	if errOpen != nil || errClose != nil || openMin >= closeMin {
		return []string{}
	}

	effDur := models.EffectiveDuration(services, policy.BufferMinutes)
	if effDur <= 0 {
		return []string{}
	}

	// Same-day candidates that already passed are gone. Zero-padded HH:MM
	// compares lexicographically in time order.
	nowHHMM := ""
	if date == utils.CivilToday(now) {
		nowHHMM = utils.CivilNowHHMM(now)
	}

	slots := []string{}
	for cur := openMin; cur+effDur <= closeMin; cur += policy.SlotMinutes {
		start := utils.HHMM(cur)
		if nowHHMM != "" && start < nowHHMM {
			continue
		}
		if dayOverlaps(date, cur, cur+effDur, day) {
			continue
		}
		slots = append(slots, start)
	}
	return slots
}

// dayOverlaps reports whether the candidate [startMin, endMin) interval hits
// any confirmed booking, manual block or closure on the date.
func dayOverlaps(date string, startMin, endMin int, day dayLoad) bool {
	for _, b := range day.Bookings {
		bs, err1 := utils.MinutesOfDay(b.StartTime)
		be, err2 := utils.MinutesOfDay(b.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if startMin < be && endMin > bs {
			return true
		}
	}
	for _, blk := range day.Blocks {
		bs, err1 := utils.MinutesOfDay(blk.StartTime)
		be, err2 := utils.MinutesOfDay(blk.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if startMin < be && endMin > bs {
			return true
		}
	}
	if len(day.Closures) > 0 {
		candStart, err1 := utils.CivilInstant(date, startMin)
		candEnd, err2 := utils.CivilInstant(date, endMin)
		if err1 == nil && err2 == nil {
			for _, c := range day.Closures {
				if candStart.Before(c.EndAt) && candEnd.After(c.StartAt) {
					return true
				}
			}
		}
	}
	return false
}

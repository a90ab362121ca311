package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"trimly/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	minDaysWindow     = 3
	maxDaysWindow     = 21
	defaultDaysWindow = 14
)

// loadLevel classifies a day's remaining capacity for the calendar view.
// Fixed business thresholds.
func loadLevel(slotCount int) string {
	switch {
	case slotCount == 0:
		return "full"
	case slotCount <= 4:
		return "high"
	case slotCount <= 10:
		return "medium"
	default:
		return "low"
	}
}

// DaySummaries computes per-day slot counts for the next daysWindow civil
// days starting today. Clients poll this every few seconds, so results are
// served from a short-lived cache when available.
func (s *DefaultBookingService) DaySummaries(ctx context.Context, shopID string, serviceIDs []string, daysWindow int) ([]DaySummary, error) {
	if daysWindow <= 0 {
		daysWindow = defaultDaysWindow
	}
	if daysWindow < minDaysWindow {
		daysWindow = minDaysWindow
	}
	if daysWindow > maxDaysWindow {
		daysWindow = maxDaysWindow
	}
	if len(serviceIDs) == 0 {
		return nil, NewValidationError("at least one service is required")
	}

	cacheKey := summaryCacheKey(shopID, serviceIDs, daysWindow)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	today := utils.CivilToday(s.now())
	summaries := make([]DaySummary, 0, daysWindow)
	for i := 0; i < daysWindow; i++ {
		date, err := utils.AddCivilDays(today, i)
		if err != nil {
			return nil, err
		}
		slots, err := s.AvailableSlots(ctx, shopID, date, serviceIDs)
		if err != nil {
			return nil, err
		}
		summary := DaySummary{
			Date:      date,
			SlotCount: len(slots),
			LoadLevel: loadLevel(len(slots)),
		}
		if len(slots) > 0 {
			summary.FirstSlot = slots[0]
		}
		summaries = append(summaries, summary)
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, cacheKey, summaries)
	}
	return summaries, nil
}

func summaryCacheKey(shopID string, serviceIDs []string, daysWindow int) string {
	return fmt.Sprintf("day_summaries:%s:%s:%d", shopID, strings.Join(serviceIDs, ","), daysWindow)
}

// SummaryCache is a short-TTL redis cache for day summaries. All failures
// degrade to a recompute, never to an error.
type SummaryCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{Client: client, TTL: ttl}
}

func (c *SummaryCache) Get(ctx context.Context, key string) ([]DaySummary, bool) {
	if c.Client == nil {
		return nil, false
	}
	raw, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Debug("summary cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var summaries []DaySummary
	if err := json.Unmarshal([]byte(raw), &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

func (c *SummaryCache) Set(ctx context.Context, key string, summaries []DaySummary) {
	if c.Client == nil {
		return
	}
	raw, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		utils.GetLogger().Debug("summary cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached summary for a shop after a write to its day.
func (c *SummaryCache) Invalidate(ctx context.Context, shopID string) {
	if c.Client == nil {
		return
	}
	pattern := fmt.Sprintf("day_summaries:%s:*", shopID)
	iter := c.Client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		c.Client.Del(ctx, iter.Val())
	}
}

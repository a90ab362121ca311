package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// serviceIDsParam parses the comma-separated serviceIds query parameter.
func serviceIDsParam(c *gin.Context) []string {
	raw := c.Query("serviceIds")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// GetAvailableSlotsHandler is the public polling read: free start times for
// a shop, date and service selection.
func (hb *HandlerBundle) GetAvailableSlotsHandler(c *gin.Context) {
	sh, err := hb.Shops.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	slots, err := hb.Bookings.AvailableSlots(c.Request.Context(), sh.ID, c.Query("date"), serviceIDsParam(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// GetDaySummariesHandler is the calendar view: per-day slot counts and load
// levels over the requested window.
func (hb *HandlerBundle) GetDaySummariesHandler(c *gin.Context) {
	sh, err := hb.Shops.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "14"))
	summaries, err := hb.Bookings.DaySummaries(c.Request.Context(), sh.ID, serviceIDsParam(c), days)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": summaries})
}

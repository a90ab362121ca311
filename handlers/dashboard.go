package handlers

import (
	"net/http"
	"strconv"
	"time"

	"trimly/services/booking"
	"trimly/utils"

	"github.com/gin-gonic/gin"
)

// GetAgendaHandler lists every booking on the shop's date.
func (hb *HandlerBundle) GetAgendaHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	date := c.DefaultQuery("date", utils.CivilToday(time.Now()))
	bookings, err := hb.Bookings.ListAgenda(c.Request.Context(), sh.ID, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "bookings": bookings})
}

// CreateManualBookingHandler books on behalf of a walk-in or phone customer.
func (hb *HandlerBundle) CreateManualBookingHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	var input struct {
		CustomerName string   `json:"customer_name" binding:"required"`
		Phone        string   `json:"phone" binding:"required"`
		ServiceIDs   []string `json:"service_ids" binding:"required"`
		Date         string   `json:"date" binding:"required"`
		StartTime    string   `json:"start_time" binding:"required"`
		Notes        string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := hb.Bookings.CreateManual(c.Request.Context(), booking.ManualCreateRequest{
		ShopID:       sh.ID,
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		ServiceIDs:   input.ServiceIDs,
		Date:         input.Date,
		StartTime:    input.StartTime,
		Notes:        input.Notes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"ok":          true,
		"booking_ids": result.BookingIDs,
		"customer_id": result.CustomerID,
		"wa_link":     result.WhatsAppLink,
	})
}

// MarkNoShowHandler flags a booking as NO_SHOW and reports the customer's
// counter state.
func (hb *HandlerBundle) MarkNoShowHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	result, err := hb.Bookings.MarkNoShow(c.Request.Context(), sh.ID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SendReminderHandler re-sends the reminder for one booking.
func (hb *HandlerBundle) SendReminderHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	item, err := hb.Reminders.SendOne(c.Request.Context(), sh.ID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reminder": item})
}

// ListShopCustomersHandler lists the customers bound to the shop.
func (hb *HandlerBundle) ListShopCustomersHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	customers, err := hb.Customers.ListForShop(c.Request.Context(), sh.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// GetMetricsHandler returns the current metrics window.
func (hb *HandlerBundle) GetMetricsHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	report, err := hb.Metrics.Report(c.Request.Context(), sh.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ResetMetricsHandler snapshots the window and stamps a new baseline.
func (hb *HandlerBundle) ResetMetricsHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	report, err := hb.Metrics.Reset(c.Request.Context(), sh.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "closed_window": report})
}

// ListMetricReportsHandler returns stored snapshot history.
func (hb *HandlerBundle) ListMetricReportsHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	reports, err := hb.Metrics.History(c.Request.Context(), sh.ID, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ReminderSweepHandler is the cron entrypoint: batch-stamp and emit
// reminders for bookings starting within 24 hours.
func (hb *HandlerBundle) ReminderSweepHandler(c *gin.Context) {
	result, err := hb.Reminders.Sweep(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "processed": result.Processed, "reminders": result.Reminders})
}

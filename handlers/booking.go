package handlers

import (
	"net/http"

	"trimly/services/booking"
	"trimly/services/customer"

	"github.com/gin-gonic/gin"
)

// CreateBookingHandler books an ordered service chain for the authenticated
// customer.
func (hb *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	cust, ok := hb.requireCustomer(c)
	if !ok {
		return
	}
	var input struct {
		ShopSlug   string   `json:"shop_slug" binding:"required"`
		ServiceIDs []string `json:"service_ids" binding:"required"`
		Date       string   `json:"date" binding:"required"`
		StartTime  string   `json:"start_time" binding:"required"`
		Notes      string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sh, err := hb.Shops.GetBySlug(c.Request.Context(), input.ShopSlug)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	result, err := hb.Bookings.Create(c.Request.Context(), booking.CreateRequest{
		ShopID:     sh.ID,
		CustomerID: cust.ID,
		ServiceIDs: input.ServiceIDs,
		Date:       input.Date,
		StartTime:  input.StartTime,
		Notes:      input.Notes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"ok":          true,
		"booking_ids": result.BookingIDs,
		"wa_link":     result.WhatsAppLink,
	})
}

// ListMyBookingsHandler returns the customer's booking history.
func (hb *HandlerBundle) ListMyBookingsHandler(c *gin.Context) {
	cust, ok := hb.requireCustomer(c)
	if !ok {
		return
	}
	bookings, err := hb.Bookings.ListForCustomer(c.Request.Context(), cust.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// PatchBookingHandler applies cancel, reschedule or confirm to a booking.
// Works for both roles; the service enforces ownership.
func (hb *HandlerBundle) PatchBookingHandler(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var input struct {
		Action    string `json:"action" binding:"required"`
		Date      string `json:"date"`
		StartTime string `json:"start_time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	id := c.Param("id")
	ctx := c.Request.Context()
	switch input.Action {
	case "cancel":
		b, err := hb.Bookings.Cancel(ctx, p, id)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "booking": b})
	case "reschedule":
		b, err := hb.Bookings.Reschedule(ctx, p, id, input.Date, input.StartTime)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "booking": b})
	case "confirm":
		b, err := hb.Bookings.ConfirmPresence(ctx, p, id)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "booking": b})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action, expected cancel, reschedule or confirm"})
	}
}

// GetMyProfileHandler returns the customer's own profile.
func (hb *HandlerBundle) GetMyProfileHandler(c *gin.Context) {
	cust, ok := hb.requireCustomer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cust)
}

// UpdateMyProfileHandler patches the customer's own profile.
func (hb *HandlerBundle) UpdateMyProfileHandler(c *gin.Context) {
	cust, ok := hb.requireCustomer(c)
	if !ok {
		return
	}
	var input struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		FCMToken *string `json:"fcm_token"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := hb.Customers.UpdateProfile(c.Request.Context(), cust.ID, customer.ProfileUpdate{
		Name:     input.Name,
		Phone:    input.Phone,
		FCMToken: input.FCMToken,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

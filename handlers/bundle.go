// File: handlers/bundle.go
package handlers

import (
	"net/http"
	"time"

	"trimly/middleware"
	"trimly/models"
	"trimly/services/auth"
	"trimly/services/booking"
	"trimly/services/catalog"
	"trimly/services/customer"
	"trimly/services/metrics"
	"trimly/services/reminder"
	"trimly/services/shop"
	"trimly/services/storage"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups every endpoint handler and the services they call.
type HandlerBundle struct {
	Auth      auth.AuthService
	Shops     shop.ShopService
	Catalog   catalog.CatalogService
	Customers customer.CustomerService
	Bookings  booking.BookingService
	Metrics   metrics.MetricsService
	Reminders reminder.ReminderService
	Storage   storage.StorageService
}

// requirePrincipal reads the identity resolved by the auth middleware.
func requirePrincipal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authenticated principal"})
		return models.Principal{}, false
	}
	return p, true
}

// requireShop resolves the barber principal into their shop and enforces
// the subscription gate that locks the whole dashboard surface.
func (hb *HandlerBundle) requireShop(c *gin.Context) (*models.Shop, bool) {
	sh, ok := hb.requireShopAnyPlan(c)
	if !ok {
		return nil, false
	}
	if !sh.SubscriptionActive(time.Now()) {
		writeServiceError(c, &booking.ShopLockedError{ShopID: sh.ID})
		return nil, false
	}
	return sh, true
}

// requireShopAnyPlan skips the subscription gate so an expired shop can
// still see and renew its plan.
func (hb *HandlerBundle) requireShopAnyPlan(c *gin.Context) (*models.Shop, bool) {
	p, ok := requirePrincipal(c)
	if !ok {
		return nil, false
	}
	sh, err := hb.Shops.GetByUserID(c.Request.Context(), p.UserID)
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	return sh, true
}

// requireCustomer resolves the customer principal into their profile.
func (hb *HandlerBundle) requireCustomer(c *gin.Context) (*models.Customer, bool) {
	p, ok := requirePrincipal(c)
	if !ok {
		return nil, false
	}
	cust, err := hb.Customers.GetByUserID(c.Request.Context(), p.UserID)
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	return cust, true
}

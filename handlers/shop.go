package handlers

import (
	"net/http"

	"trimly/models"
	"trimly/services/shop"

	"github.com/gin-gonic/gin"
)

// RegisterShopHandler creates a tenant, gated by the master password.
func (hb *HandlerBundle) RegisterShopHandler(c *gin.Context) {
	var input shop.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := hb.Shops.Register(c.Request.Context(), input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shop": created, "public_slug": created.PublicSlug})
}

// ShopDirectoryHandler lists shops for the public landing page.
func (hb *HandlerBundle) ShopDirectoryHandler(c *gin.Context) {
	shops, err := hb.Shops.Directory(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(shops))
	for _, sh := range shops {
		out = append(out, gin.H{
			"public_slug": sh.PublicSlug,
			"name":        sh.Name,
			"image_url":   sh.ImageURL,
		})
	}
	c.JSON(http.StatusOK, gin.H{"shops": out})
}

// GetShopBySlugHandler is the public shop page: profile plus active catalog.
func (hb *HandlerBundle) GetShopBySlugHandler(c *gin.Context) {
	sh, err := hb.Shops.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	services, err := hb.Catalog.List(c.Request.Context(), sh.ID, true)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shop": gin.H{
			"id":          sh.ID,
			"public_slug": sh.PublicSlug,
			"name":        sh.Name,
			"phone":       sh.Phone,
			"image_url":   sh.ImageURL,
			"schedule":    sh.Schedule,
		},
		"services": services,
	})
}

// GetMyShopHandler returns the authenticated barber's shop.
func (hb *HandlerBundle) GetMyShopHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sh)
}

// UpdateShopProfileHandler patches name, phone, image and push token.
func (hb *HandlerBundle) UpdateShopProfileHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	var input shop.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := hb.Shops.UpdateProfile(c.Request.Context(), sh.ID, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateScheduleHandler replaces the shop's scheduling policy.
func (hb *HandlerBundle) UpdateScheduleHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	var input models.SchedulePolicy
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := hb.Shops.UpdateSchedule(c.Request.Context(), sh.ID, input); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "schedule": input})
}

// CreateBlockHandler adds a single-date unavailability block.
func (hb *HandlerBundle) CreateBlockHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	var input shop.BlockRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	block, err := hb.Shops.CreateBlock(c.Request.Context(), sh.ID, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (hb *HandlerBundle) DeleteBlockHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	if err := hb.Shops.DeleteBlock(c.Request.Context(), sh.ID, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (hb *HandlerBundle) ListBlocksHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	blocks, err := hb.Shops.ListBlocks(c.Request.Context(), sh.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": blocks})
}

// CreateClosureHandler adds a multi-day closure (holiday, renovation).
func (hb *HandlerBundle) CreateClosureHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	var input shop.ClosureRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	closure, err := hb.Shops.CreateClosure(c.Request.Context(), sh.ID, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, closure)
}

func (hb *HandlerBundle) DeleteClosureHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	if err := hb.Shops.DeleteClosure(c.Request.Context(), sh.ID, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (hb *HandlerBundle) ListClosuresHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	closures, err := hb.Shops.ListClosures(c.Request.Context(), sh.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closures": closures})
}

// GetSubscriptionHandler reports the shop's plan window. Reachable with an
// expired plan so the owner can renew.
func (hb *HandlerBundle) GetSubscriptionHandler(c *gin.Context) {
	sh, ok := hb.requireShopAnyPlan(c)
	if !ok {
		return
	}
	sub, err := hb.Shops.Subscription(c.Request.Context(), sh.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub, "plans": models.PlanCatalog})
}

// ActivatePlanHandler switches plans, gated by the master password.
func (hb *HandlerBundle) ActivatePlanHandler(c *gin.Context) {
	sh, ok := hb.requireShopAnyPlan(c)
	if !ok {
		return
	}
	var input struct {
		PlanType       string `json:"plan_type" binding:"required"`
		MasterPassword string `json:"master_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := hb.Shops.ActivatePlan(c.Request.Context(), sh.ID, models.PlanType(input.PlanType), input.MasterPassword)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	sub, err := hb.Shops.Subscription(c.Request.Context(), updated.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "subscription": sub})
}

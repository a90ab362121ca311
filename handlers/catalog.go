package handlers

import (
	"net/http"

	"trimly/services/catalog"

	"github.com/gin-gonic/gin"
)

// ListServicesHandler lists the shop's full catalog, inactive included.
func (hb *HandlerBundle) ListServicesHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	services, err := hb.Catalog.List(c.Request.Context(), sh.ID, false)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// CreateServiceHandler adds a catalog entry.
func (hb *HandlerBundle) CreateServiceHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	var input catalog.ServiceRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	svc, err := hb.Catalog.Create(c.Request.Context(), sh.ID, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// UpdateServiceHandler patches a catalog entry, including the active flag.
func (hb *HandlerBundle) UpdateServiceHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	var input catalog.ServiceUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	svc, err := hb.Catalog.Update(c.Request.Context(), sh.ID, c.Param("id"), input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// UploadServiceImageHandler stores a service image and persists its URL.
func (hb *HandlerBundle) UploadServiceImageHandler(c *gin.Context) {
	sh, ok := hb.requireShop(c)
	if !ok {
		return
	}
	if hb.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file", "details": err.Error()})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image file"})
		return
	}
	defer file.Close()

	url, err := hb.Storage.UploadImage(c.Request.Context(), file, "services/"+sh.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if err := hb.Catalog.SetImageURL(c.Request.Context(), sh.ID, c.Param("id"), url); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "image_url": url})
}

package handlers

import (
	"errors"
	"net/http"

	"trimly/services/booking"
	"trimly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Every expected condition carries an actionable message; anything
// unclassified is a store failure surfaced as 503.
func writeServiceError(c *gin.Context, err error) {
	var (
		validation *booking.ValidationError
		denied     *booking.AccessDeniedError
		blocked    *booking.BlockedError
		locked     *booking.ShopLockedError
		notFound   *booking.NotFoundError
		conflict   *booking.ConflictError
		leadTime   *booking.LeadTimeError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": validation.Message})
	case errors.As(err, &denied):
		c.JSON(http.StatusForbidden, gin.H{"code": "ACCESS_DENIED", "error": denied.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"code":         "CONFLICT",
			"error":        "Horario indisponivel. Atualize e tente novamente.",
			"alternatives": conflict.Alternatives,
		})
	case errors.As(err, &leadTime):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"code": "LEAD_TIME", "error": err.Error(), "lead_hours": leadTime.Hours})
	case errors.As(err, &blocked):
		c.JSON(http.StatusLocked, gin.H{"code": "BLOCKED", "error": err.Error(), "blocked_until": blocked.Until})
	case errors.As(err, &locked):
		c.JSON(http.StatusLocked, gin.H{"code": "SHOP_LOCKED", "error": "Plano expirado ou acesso nao autorizado."})
	default:
		utils.GetLogger().Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": "UNAVAILABLE", "error": "Service temporarily unavailable."})
	}
}

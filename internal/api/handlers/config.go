package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/mockserver/internal/api/models"
)

// GetConfig godoc
// @Summary Get current configuration
// @Description Returns the effective server configuration
// @Tags config
// @Produce json
// @Success 200 {object} models.ConfigResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /config [get]
func (h *Handler) GetConfig(c *gin.Context) {
	if h.cfg == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "config unavailable"})
		return
	}

	c.JSON(http.StatusOK, models.ConfigResponse{
		Server:  h.cfg.Server,
		Logging: h.cfg.Logging,
		Admin:   h.cfg.Admin,
	})
}

package handler

import (
	"net/http"

	"hcp-visit-tracker/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health pings the database
func (h *HealthHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Database unavailable.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

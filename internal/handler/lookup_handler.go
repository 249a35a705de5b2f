package handler

import (
	"net/http"

	"hcp-visit-tracker/internal/middleware"
	"hcp-visit-tracker/internal/service"
	"hcp-visit-tracker/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type LookupHandler struct {
	lookupService *service.LookupService
	log           zerolog.Logger
}

func NewLookupHandler(lookupService *service.LookupService, log zerolog.Logger) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
		log:           log,
	}
}

// GetTerritories lists territories ordered by name
func (h *LookupHandler) GetTerritories(c *gin.Context) {
	territories, err := h.lookupService.GetTerritories(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDHeader)).Msg("Failed to fetch territories")
		utils.InternalErrorResponse(c)
		return
	}

	c.JSON(http.StatusOK, territories)
}

// GetSalesReps lists sales reps with their territory, ordered by name
func (h *LookupHandler) GetSalesReps(c *gin.Context) {
	reps, err := h.lookupService.GetSalesReps(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDHeader)).Msg("Failed to fetch sales reps")
		utils.InternalErrorResponse(c)
		return
	}

	c.JSON(http.StatusOK, reps)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hcp-visit-tracker/internal/middleware"
	"hcp-visit-tracker/internal/repository"
	"hcp-visit-tracker/internal/service"
	"hcp-visit-tracker/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	msgHcpNotFound     = "HCP not found."
	msgHcpDuplicate    = "An HCP with the same name and area tag already exists."
	msgInvalidHcpID    = "Invalid HCP ID."
	msgInvalidBody     = "Invalid request body."
	msgNoImportRecords = "No HCP records provided for import."
)

type HcpHandler struct {
	hcpService *service.HcpService
	log        zerolog.Logger
}

func NewHcpHandler(hcpService *service.HcpService, log zerolog.Logger) *HcpHandler {
	return &HcpHandler{
		hcpService: hcpService,
		log:        log,
	}
}

// GetAllHcps lists the HCP directory ordered by name
func (h *HcpHandler) GetAllHcps(c *gin.Context) {
	hcps, err := h.hcpService.GetAllHcps(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "Failed to fetch HCPs")
		return
	}

	c.JSON(http.StatusOK, hcps)
}

// GetHcp retrieves a specific HCP by ID
func (h *HcpHandler) GetHcp(c *gin.Context) {
	id, ok := parseHcpID(c)
	if !ok {
		return
	}

	hcp, err := h.hcpService.GetHcpByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to fetch HCP")
		return
	}

	c.JSON(http.StatusOK, hcp)
}

// CreateHcp creates a new HCP (admin, manager)
func (h *HcpHandler) CreateHcp(c *gin.Context) {
	var input service.HcpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	hcp, err := h.hcpService.CreateHcp(c.Request.Context(), input, middleware.UserID(c))
	if err != nil {
		h.writeError(c, err, "Failed to create HCP")
		return
	}

	c.JSON(http.StatusCreated, hcp)
}

// UpdateHcp replaces every field of an existing HCP (admin, manager)
func (h *HcpHandler) UpdateHcp(c *gin.Context) {
	id, ok := parseHcpID(c)
	if !ok {
		return
	}

	var input service.HcpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	hcp, err := h.hcpService.UpdateHcp(c.Request.Context(), id, input, middleware.UserID(c))
	if err != nil {
		h.writeError(c, err, "Failed to update HCP")
		return
	}

	c.JSON(http.StatusOK, hcp)
}

// DeleteHcp removes an HCP (admin, manager)
func (h *HcpHandler) DeleteHcp(c *gin.Context) {
	id, ok := parseHcpID(c)
	if !ok {
		return
	}

	if err := h.hcpService.DeleteHcp(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		h.writeError(c, err, "Failed to delete HCP")
		return
	}

	c.Status(http.StatusNoContent)
}

func parseHcpID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, msgInvalidHcpID)
		return 0, false
	}
	return uint(id), true
}

// writeError maps service errors onto 400, 404 and 409; anything else is a 500
func (h *HcpHandler) writeError(c *gin.Context, err error, msg string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.ErrorResponse(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, repository.ErrHcpNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, msgHcpNotFound)
	case errors.Is(err, repository.ErrDuplicateHcp):
		utils.ErrorResponse(c, http.StatusConflict, msgHcpDuplicate)
	default:
		h.internalError(c, err, msg)
	}
}

func (h *HcpHandler) internalError(c *gin.Context, err error, msg string) {
	h.log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDHeader)).
		Msg(msg)
	utils.InternalErrorResponse(c)
}

package handler

import (
	"net/http"

	"hcp-visit-tracker/internal/middleware"
	"hcp-visit-tracker/internal/service"
	"hcp-visit-tracker/internal/visitquery"
	"hcp-visit-tracker/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type VisitHandler struct {
	visitService *service.VisitService
	log          zerolog.Logger
}

func NewVisitHandler(visitService *service.VisitService, log zerolog.Logger) *VisitHandler {
	return &VisitHandler{
		visitService: visitService,
		log:          log,
	}
}

// ListVisits answers one page of visits with its metadata
func (h *VisitHandler) ListVisits(c *gin.Context) {
	spec, ok := parseFilters(c)
	if !ok {
		return
	}

	page, err := h.visitService.List(c.Request.Context(), spec)
	if err != nil {
		h.storageError(c, err, "Failed to list visits")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetSummary answers the aggregate metrics of every matching visit
func (h *VisitHandler) GetSummary(c *gin.Context) {
	spec, ok := parseFilters(c)
	if !ok {
		return
	}

	summary, err := h.visitService.Summarize(c.Request.Context(), spec)
	if err != nil {
		h.storageError(c, err, "Failed to summarize visits")
		return
	}

	utils.DataResponse(c, http.StatusOK, summary)
}

// ExportCSV streams every matching visit as a CSV attachment
func (h *VisitHandler) ExportCSV(c *gin.Context) {
	spec, ok := parseFilters(c)
	if !ok {
		return
	}

	body, err := h.visitService.ExportCSV(c.Request.Context(), spec)
	if err != nil {
		h.storageError(c, err, "Failed to export visits")
		return
	}

	attachment(c, "visits.csv", csvContentType, body)
}

// ExportXLSX answers every matching visit as an Excel workbook
func (h *VisitHandler) ExportXLSX(c *gin.Context) {
	spec, ok := parseFilters(c)
	if !ok {
		return
	}

	body, err := h.visitService.ExportXLSX(c.Request.Context(), spec)
	if err != nil {
		h.storageError(c, err, "Failed to export visits")
		return
	}

	attachment(c, "visits.xlsx", xlsxContentType, body)
}

// parseFilters answers 400 with every rejected parameter when the query string is invalid
func parseFilters(c *gin.Context) (visitquery.FilterSpec, bool) {
	spec, errs := visitquery.Parse(c.Request.URL.Query())
	if len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return spec, false
	}
	return spec, true
}

func (h *VisitHandler) storageError(c *gin.Context, err error, msg string) {
	h.log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDHeader)).
		Str("query", c.Request.URL.RawQuery).
		Msg(msg)
	utils.InternalErrorResponse(c)
}

func attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}

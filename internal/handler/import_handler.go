package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"hcp-visit-tracker/internal/middleware"
	"hcp-visit-tracker/internal/service"
	"hcp-visit-tracker/pkg/utils"

	"github.com/gin-gonic/gin"
)

type importEnvelope struct {
	Records []json.RawMessage `json:"records"`
}

// ImportHcps upserts a batch of HCP records (admin, manager).
// The body is either a JSON array or an object with a "records" array.
func (h *HcpHandler) ImportHcps(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	raw, err := importRecords(body)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if len(raw) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, msgNoImportRecords)
		return
	}

	inputs := make([]*service.HcpInput, len(raw))
	for i, element := range raw {
		inputs[i] = decodeImportRecord(element)
	}

	result, err := h.hcpService.ImportHcps(c.Request.Context(), inputs, middleware.UserID(c))
	if err != nil {
		h.internalError(c, err, "Failed to import HCPs")
		return
	}

	c.JSON(http.StatusOK, result)
}

// importRecords extracts the record list; any other JSON shape yields no records
func importRecords(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	switch body[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, err
		}
		return records, nil
	case '{':
		var envelope importEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			// "records" present but not an array
			var probe map[string]json.RawMessage
			if json.Unmarshal(body, &probe) != nil {
				return nil, err
			}
			return nil, nil
		}
		return envelope.Records, nil
	default:
		var probe interface{}
		if err := json.Unmarshal(body, &probe); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

// decodeImportRecord returns nil for elements that are not objects with string fields
func decodeImportRecord(element json.RawMessage) *service.HcpInput {
	trimmed := bytes.TrimSpace(element)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var input service.HcpInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil
	}
	return &input
}

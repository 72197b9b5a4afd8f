package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SeaGuard-Intelligence/internal/application/ingestion"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
)

// ExtractHandler serves standalone coordinate extraction requests.
type ExtractHandler struct {
	svc    ingestion.Service
	logger logging.Logger
}

func NewExtractHandler(svc ingestion.Service, logger logging.Logger) *ExtractHandler {
	return &ExtractHandler{svc: svc, logger: logger}
}

// ExtractRequest is the body of POST /coordinates/extract.
type ExtractRequest struct {
	Text        string  `json:"text" binding:"required"`
	ThresholdKm float64 `json:"threshold_km"`
}

// Extract runs the parse → validate → deduplicate pipeline over free text
// and returns the surviving points with loss accounting.
func (h *ExtractHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Extract(c.Request.Context(), ingestion.ExtractInput{
		Text:        req.Text,
		ThresholdKm: req.ThresholdKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

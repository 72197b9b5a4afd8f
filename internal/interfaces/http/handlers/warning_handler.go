package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SeaGuard-Intelligence/internal/application/monitoring"
	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/common"
)

// WarningHandler serves the stored-warning resource: listing, lookup,
// statistics, and manual notification dispatch.
type WarningHandler struct {
	repo       warning.Repository
	monitoring monitoring.Service
	logger     logging.Logger
}

func NewWarningHandler(repo warning.Repository, mon monitoring.Service, logger logging.Logger) *WarningHandler {
	return &WarningHandler{repo: repo, monitoring: mon, logger: logger}
}

// sourceQuery reads the optional ?source= filter. An empty value means all
// sources; an unknown value is rejected by the services downstream.
func sourceQuery(c *gin.Context) warning.Source {
	return warning.Source(c.Query("source"))
}

// List returns stored warnings, newest first, with optional source,
// bureau, notified, and with_coordinates filters.
func (h *WarningHandler) List(c *gin.Context) {
	filter := warning.ListFilter{
		Source:     sourceQuery(c),
		Bureau:     c.Query("bureau"),
		Pagination: parsePagination(c),
	}
	if v := c.Query("notified"); v != "" {
		notified, err := strconv.ParseBool(v)
		if err != nil {
			respondError(c, errors.New(errors.CodeInvalidParam, "notified must be true or false"))
			return
		}
		filter.OnlyNotified = &notified
	}
	if v := c.Query("with_coordinates"); v == "true" {
		filter.OnlyWithGeo = true
	}
	if v := c.Query("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, errors.New(errors.CodeInvalidParam, "since must be RFC 3339"))
			return
		}
		filter.Since = since
	}

	warnings, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	p := filter.Pagination
	p.Total = total
	respondPaginated(c, warnings, p)
}

// Get returns a single warning by ID.
func (h *WarningHandler) Get(c *gin.Context) {
	id := common.ID(c.Param("id"))
	if err := id.Validate(); err != nil {
		respondError(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid warning id"))
		return
	}

	w, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, w)
}

// Stats returns aggregate counts over the stored warnings.
func (h *WarningHandler) Stats(c *gin.Context) {
	stats, err := h.repo.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// Dispatch pushes pending warnings to the notification channel and
// reports how many were delivered and suppressed.
func (h *WarningHandler) Dispatch(c *gin.Context) {
	result, err := h.monitoring.DispatchPending(c.Request.Context(), sourceQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SeaGuard-Intelligence/internal/application/monitoring"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// AssessHandler serves vessel and fleet risk assessment requests.
type AssessHandler struct {
	svc    monitoring.Service
	logger logging.Logger
}

func NewAssessHandler(svc monitoring.Service, logger logging.Logger) *AssessHandler {
	return &AssessHandler{svc: svc, logger: logger}
}

// VesselRequest is the body of POST /assess/vessel.
type VesselRequest struct {
	Name       string            `json:"name" binding:"required"`
	Position   maritime.GeoPoint `json:"position"`
	HeadingDeg float64           `json:"heading_deg"`
	SpeedKnots float64           `json:"speed_knots"`
	DraftM     float64           `json:"draft_m"`
	Class      string            `json:"class"`
}

// FleetRequest is the body of POST /assess/fleet.
type FleetRequest struct {
	Vessels []VesselRequest `json:"vessels" binding:"required"`
}

func (r VesselRequest) toState() maritime.VesselState {
	return maritime.VesselState{
		Name:       r.Name,
		Position:   r.Position,
		HeadingDeg: r.HeadingDeg,
		SpeedKnots: r.SpeedKnots,
		DraftM:     r.DraftM,
		Class:      maritime.VesselClass(r.Class),
	}
}

// AssessVessel grades one vessel against the hazard zones currently in
// force and returns its risk profile.
func (h *AssessHandler) AssessVessel(c *gin.Context) {
	var req VesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.svc.AssessVessel(c.Request.Context(), req.toState())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile)
}

// AssessFleet grades a fleet and returns the per-vessel profiles with
// level counts and critical alerts.
func (h *AssessHandler) AssessFleet(c *gin.Context) {
	var req FleetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	vessels := make([]maritime.VesselState, len(req.Vessels))
	for i, v := range req.Vessels {
		vessels[i] = v.toState()
	}

	summary, err := h.svc.AssessFleet(c.Request.Context(), vessels)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, summary)
}

// ListHazardZones exposes the hazard zones built from stored warnings,
// optionally narrowed to one source.
func (h *AssessHandler) ListHazardZones(c *gin.Context) {
	zones, err := h.svc.BuildHazardZones(c.Request.Context(), sourceQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, zones)
}

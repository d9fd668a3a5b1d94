package risk

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ankitlade12/SafePassage/internal/logging"
	"github.com/ankitlade12/SafePassage/internal/metrics"
	"github.com/ankitlade12/SafePassage/internal/traces"
	"github.com/ankitlade12/SafePassage/internal/validation"
)

// Refresher pulls fresh alerts from external feeds.
// Feed failures must be absorbed by the implementation; a refresh never
// fails, it just contributes fewer alerts.
type Refresher interface {
	Refresh(ctx context.Context, loc Location) ([]*Alert, []string)
}

// EventEmitter publishes alert events to the realtime stream.
type EventEmitter interface {
	AlertCreated(alert *Alert)
}

// Handler provides HTTP endpoints for risk assessment and alerts.
type Handler struct {
	store     Store
	assessor  *Assessor
	refresher Refresher
	events    EventEmitter
}

// NewHandler creates a new risk handler.
func NewHandler(store Store, assessor *Assessor) *Handler {
	return &Handler{store: store, assessor: assessor}
}

// WithRefresher adds a feed refresher for POST /alerts/refresh.
func (h *Handler) WithRefresher(r Refresher) *Handler {
	h.refresher = r
	return h
}

// WithEvents adds a realtime event emitter.
func (h *Handler) WithEvents(e EventEmitter) *Handler {
	h.events = e
	return h
}

// RegisterRoutes sets up risk and alert routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/risk", h.AssessRisk)
	r.GET("/alerts", h.ListAlerts)
	r.POST("/alerts/refresh", h.RefreshAlerts)
	r.POST("/alerts/crisis", h.TriggerCrisis)
	r.DELETE("/alerts", h.ClearAlerts)
}

// AssessRequest is the body for POST /v1/risk.
// If Alerts is omitted the active alert store is consulted.
type AssessRequest struct {
	Location Location `json:"location" binding:"required"`
	Alerts   []*Alert `json:"alerts"`
}

// AssessRisk handles POST /v1/risk
func (h *Handler) AssessRisk(c *gin.Context) {
	var req AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if errs := validation.Validate(
		validation.ValidCoordinates("location", req.Location.Latitude, req.Location.Longitude),
	); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": errs.Error(),
			"details": errs,
		})
		return
	}

	alerts := req.Alerts
	if alerts == nil {
		stored, err := h.store.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Failed to load active alerts",
			})
			return
		}
		alerts = stored
	}

	_, span := traces.StartSpan(c.Request.Context(), "risk.Assess",
		traces.AlertLocation(req.Location.String()))
	level := h.assessor.CurrentRiskLevel(req.Location, alerts)
	nearby := h.assessor.NearbyAlerts(req.Location, alerts)
	span.SetAttributes(traces.RiskLevel(level))
	span.End()

	metrics.RiskAssessmentsTotal.Inc()
	metrics.RiskLevelGauge.Set(float64(level))

	c.JSON(http.StatusOK, gin.H{
		"location":     req.Location,
		"riskLevel":    level,
		"nearbyAlerts": nearby,
	})
}

// ListAlerts handles GET /v1/alerts
func (h *Handler) ListAlerts(c *gin.Context) {
	alerts, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// RefreshRequest is the body for POST /v1/alerts/refresh.
type RefreshRequest struct {
	Location Location `json:"location" binding:"required"`
}

// RefreshAlerts handles POST /v1/alerts/refresh.
// The active alert set is replaced wholesale with whatever the feeds
// return; sources that failed are reported but never abort the refresh.
func (h *Handler) RefreshAlerts(c *gin.Context) {
	if h.refresher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "feeds_disabled",
			"message": "External alert feeds are not configured",
		})
		return
	}

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	ctx := c.Request.Context()
	alerts, failedSources := h.refresher.Refresh(ctx, req.Location)

	if err := h.store.Replace(ctx, alerts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to store refreshed alerts",
		})
		return
	}

	if len(failedSources) > 0 {
		logging.L(ctx).Warn("some alert sources unavailable", "sources", failedSources)
	}
	metrics.AlertsActive.Set(float64(len(alerts)))

	c.JSON(http.StatusOK, gin.H{
		"alerts":        alerts,
		"count":         len(alerts),
		"failedSources": failedSources,
	})
}

// CrisisRequest is the body for POST /v1/alerts/crisis.
type CrisisRequest struct {
	Location Location `json:"location" binding:"required"`
}

// TriggerCrisis handles POST /v1/alerts/crisis, the manual demo action
// that injects a severity-9 unrest alert at the given location.
func (h *Handler) TriggerCrisis(c *gin.Context) {
	var req CrisisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	alert := NewCrisisAlert(req.Location)
	if err := h.store.Add(c.Request.Context(), alert); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to store crisis alert",
		})
		return
	}

	if h.events != nil {
		h.events.AlertCreated(alert)
	}
	metrics.CrisisTriggersTotal.Inc()

	c.JSON(http.StatusCreated, gin.H{"alert": alert})
}

// ClearAlerts handles DELETE /v1/alerts
func (h *Handler) ClearAlerts(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	metrics.AlertsActive.Set(0)
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

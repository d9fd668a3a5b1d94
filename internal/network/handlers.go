package network

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ankitlade12/SafePassage/internal/risk"
)

// AlertSource supplies the active alert set so channel effects reflect
// real conditions, not just the manual chaos level.
type AlertSource interface {
	List(ctx context.Context) ([]*risk.Alert, error)
}

// Handler exposes the chaos simulator's channel effects.
type Handler struct {
	chaos  *ChaosSimulator
	alerts AlertSource
}

// NewHandler creates a network effects handler.
func NewHandler(chaos *ChaosSimulator) *Handler {
	return &Handler{chaos: chaos}
}

// WithAlertSource wires the live alert store into effect derivation.
func (h *Handler) WithAlertSource(src AlertSource) *Handler {
	h.alerts = src
	return h
}

// RegisterRoutes sets up network routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/network/effects", h.GetEffects)
	r.PUT("/network/chaos", h.SetChaosLevel)
}

// GetEffects handles GET /v1/network/effects.
// An optional ?level= overrides the stored chaos level for this call.
func (h *Handler) GetEffects(c *gin.Context) {
	if raw := c.Query("level"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "level must be an integer 0-10",
			})
			return
		}
		h.chaos.SetLevel(level)
	}

	if h.alerts != nil {
		if alerts, err := h.alerts.List(c.Request.Context()); err == nil {
			h.chaos.SetAlerts(alerts)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"level":   h.chaos.LevelInfo(),
		"effects": h.chaos.NetworkEffects(),
	})
}

// SetChaosRequest is the body for PUT /v1/network/chaos.
type SetChaosRequest struct {
	Level int `json:"level"`
}

// SetChaosLevel handles PUT /v1/network/chaos
func (h *Handler) SetChaosLevel(c *gin.Context) {
	var req SetChaosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	h.chaos.SetLevel(req.Level)
	c.JSON(http.StatusOK, gin.H{"level": h.chaos.LevelInfo()})
}

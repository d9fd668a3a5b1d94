package guardian

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ankitlade12/SafePassage/internal/metrics"
	"github.com/ankitlade12/SafePassage/internal/validation"
)

// Handler provides HTTP endpoints for the check-in switch and guardians.
type Handler struct {
	sw *Switch
}

// NewHandler creates a guardian handler.
func NewHandler(sw *Switch) *Handler {
	return &Handler{sw: sw}
}

// RegisterRoutes sets up guardian routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/guardian")
	g.POST("/checkin", h.CheckIn)
	g.GET("/status", h.GetStatus)
	g.PUT("/switch", h.ConfigureSwitch)
	g.GET("/guardians", h.ListGuardians)
	g.POST("/guardians", h.AddGuardian)
	g.DELETE("/guardians/:index", h.RemoveGuardian)
	g.POST("/notify", h.NotifyAll)
}

// CheckIn handles POST /v1/guardian/checkin
func (h *Handler) CheckIn(c *gin.Context) {
	at := h.sw.CheckIn()
	metrics.GuardianNotificationsTotal.WithLabelValues("checkin").Inc()
	c.JSON(http.StatusOK, gin.H{
		"checkedInAt": at,
		"status":      h.sw.Status(),
		"remaining":   formatRemaining(h.sw.TimeRemaining()),
	})
}

// GetStatus handles GET /v1/guardian/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    h.sw.Status(),
		"remaining": formatRemaining(h.sw.TimeRemaining()),
		"guardians": h.sw.Guardians(),
	})
}

// ConfigureSwitchRequest is the body for PUT /v1/guardian/switch.
type ConfigureSwitchRequest struct {
	Enabled       bool `json:"enabled"`
	IntervalHours int  `json:"intervalHours"`
}

// ConfigureSwitch handles PUT /v1/guardian/switch
func (h *Handler) ConfigureSwitch(c *gin.Context) {
	var req ConfigureSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if req.Enabled {
		h.sw.Enable(time.Duration(req.IntervalHours) * time.Hour)
	} else {
		h.sw.Disable()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    h.sw.Status(),
		"remaining": formatRemaining(h.sw.TimeRemaining()),
	})
}

// AddGuardianRequest is the body for POST /v1/guardian/guardians.
type AddGuardianRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

// AddGuardian handles POST /v1/guardian/guardians
func (h *Handler) AddGuardian(c *gin.Context) {
	var req AddGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if !validation.IsValidPhone(req.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "phone: must be an international phone number",
		})
		return
	}

	g, err := h.sw.AddGuardian(validation.SanitizeString(req.Name, 80), req.Phone, req.Email)
	if err != nil {
		if errors.Is(err, ErrTooManyGuardians) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "too_many_guardians",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"guardian": g})
}

// ListGuardians handles GET /v1/guardian/guardians
func (h *Handler) ListGuardians(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"guardians": h.sw.Guardians()})
}

// RemoveGuardian handles DELETE /v1/guardian/guardians/:index
func (h *Handler) RemoveGuardian(c *gin.Context) {
	var index int
	if _, err := fmt.Sscanf(c.Param("index"), "%d", &index); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "index must be an integer",
		})
		return
	}

	h.sw.RemoveGuardian(index)
	c.JSON(http.StatusOK, gin.H{"guardians": h.sw.Guardians()})
}

// NotifyAll handles POST /v1/guardian/notify, the manual demo action
// simulating a critical alert broadcast.
func (h *Handler) NotifyAll(c *gin.Context) {
	notifications := h.sw.NotifyAll()
	metrics.GuardianNotificationsTotal.WithLabelValues("manual").Inc()
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// formatRemaining renders a duration as "7h 59m" for the dashboard.
func formatRemaining(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

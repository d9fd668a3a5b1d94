package offline

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ankitlade12/SafePassage/internal/currency"
	"github.com/ankitlade12/SafePassage/internal/metrics"
	"github.com/ankitlade12/SafePassage/internal/validation"
)

// Handler provides HTTP endpoints for shadow-banking codes.
type Handler struct {
	mgr *Manager
}

// NewHandler creates an offline codes handler.
func NewHandler(mgr *Manager) *Handler {
	return &Handler{mgr: mgr}
}

// RegisterRoutes sets up offline routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/offline")
	g.POST("/codes", h.GenerateCode)
	g.GET("/codes", h.ListCodes)
	g.POST("/codes/:code/redeem", h.RedeemCode)
	g.GET("/partners", h.ListPartners)
}

// GenerateCodeRequest is the body for POST /v1/offline/codes.
type GenerateCodeRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	Currency      string  `json:"currency" binding:"required"`
	ValidityHours int     `json:"validityHours"`
}

// GenerateCode handles POST /v1/offline/codes
func (h *Handler) GenerateCode(c *gin.Context) {
	var req GenerateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if errs := validation.Validate(
		validation.PositiveAmount("amount", req.Amount),
		validation.OneOf("currency", req.Currency, currency.Codes()),
	); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": errs.Error(),
			"details": errs,
		})
		return
	}

	code, err := h.mgr.Generate(req.Amount, req.Currency, time.Duration(req.ValidityHours)*time.Hour)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_input",
			"message": err.Error(),
		})
		return
	}
	metrics.OfflineCodesTotal.Inc()

	c.JSON(http.StatusCreated, gin.H{
		"code": code,
		"qr":   QRDataFor(code),
	})
}

// ListCodes handles GET /v1/offline/codes
func (h *Handler) ListCodes(c *gin.Context) {
	codes := h.mgr.Active()
	c.JSON(http.StatusOK, gin.H{
		"codes": codes,
		"count": len(codes),
	})
}

// RedeemCode handles POST /v1/offline/codes/:code/redeem
func (h *Handler) RedeemCode(c *gin.Context) {
	code, err := h.mgr.Redeem(c.Param("code"))
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "code_not_found",
				"message": "Redemption code not found",
			})
			return
		}
		c.JSON(http.StatusConflict, gin.H{
			"error":   "code_invalid",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code})
}

// ListPartners handles GET /v1/offline/partners
func (h *Handler) ListPartners(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"partners": PartnerAgents()})
}

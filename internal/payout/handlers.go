package payout

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ankitlade12/SafePassage/internal/currency"
	"github.com/ankitlade12/SafePassage/internal/metrics"
	"github.com/ankitlade12/SafePassage/internal/validation"
)

// EventEmitter publishes payout events to the realtime stream.
type EventEmitter interface {
	PayoutInitiated(tx *Transaction)
	PayoutStatusChanged(tx *Transaction)
}

// Handler provides HTTP endpoints for payouts and method details.
type Handler struct {
	orchestrator *Orchestrator
	events       EventEmitter
	minAmount    float64
	maxAmount    float64
}

// NewHandler creates a payout handler. Amount bounds of zero disable
// range checking beyond positivity.
func NewHandler(o *Orchestrator, minAmount, maxAmount float64) *Handler {
	return &Handler{orchestrator: o, minAmount: minAmount, maxAmount: maxAmount}
}

// WithEvents adds a realtime event emitter.
func (h *Handler) WithEvents(e EventEmitter) *Handler {
	h.events = e
	return h
}

// RegisterRoutes sets up payout routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/payouts", h.InitiatePayout)
	r.GET("/payouts", h.ListPayouts)
	r.GET("/payouts/:id", h.CheckStatus)
	r.GET("/payouts/:id/progress", h.GetProgress)
	r.GET("/methods/:method", h.GetMethodDetails)
}

// InitiateRequest is the body for POST /v1/payouts.
type InitiateRequest struct {
	Method    Method    `json:"method" binding:"required"`
	Amount    float64   `json:"amount" binding:"required"`
	Currency  string    `json:"currency" binding:"required"`
	Recipient Recipient `json:"recipient"`
}

// InitiatePayout handles POST /v1/payouts
func (h *Handler) InitiatePayout(c *gin.Context) {
	var req InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	validators := []func() *validation.ValidationError{
		validation.PositiveAmount("amount", req.Amount),
		validation.OneOf("currency", req.Currency, currency.Codes()),
	}
	if h.minAmount > 0 && h.maxAmount > 0 {
		validators = append(validators,
			validation.AmountInRange("amount", req.Amount, h.minAmount, h.maxAmount))
	}
	if req.Method == MethodCrypto {
		validators = append(validators,
			validation.ValidCryptoRecipient("recipient.walletAddress", req.Recipient.WalletAddress))
	}
	if errs := validation.Validate(validators...); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": errs.Error(),
			"details": errs,
		})
		return
	}

	tx, err := h.orchestrator.Initiate(c.Request.Context(), req.Method, req.Amount, req.Currency, req.Recipient)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedMethod):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "unsupported_method",
				"message": err.Error(),
			})
		case errors.Is(err, ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_input",
				"message": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Failed to initiate payout",
			})
		}
		return
	}

	if h.events != nil {
		h.events.PayoutInitiated(tx)
	}
	metrics.PayoutsTotal.WithLabelValues(string(tx.Method), string(tx.Status)).Inc()
	metrics.PayoutAmount.Observe(tx.Amount)

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// CheckStatus handles GET /v1/payouts/:id
func (h *Handler) CheckStatus(c *gin.Context) {
	before, err := h.orchestrator.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	tx, err := h.orchestrator.CheckStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	if h.events != nil && tx.Status != before.Status {
		h.events.PayoutStatusChanged(tx)
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// GetProgress handles GET /v1/payouts/:id/progress
func (h *Handler) GetProgress(c *gin.Context) {
	tx, err := h.orchestrator.CheckStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactionId": tx.ID,
		"status":        tx.Status,
		"progress":      tx.ProgressPercentage(),
	})
}

// ListPayouts handles GET /v1/payouts
func (h *Handler) ListPayouts(c *gin.Context) {
	txs, err := h.orchestrator.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"count":        len(txs),
	})
}

// GetMethodDetails handles GET /v1/methods/:method
func (h *Handler) GetMethodDetails(c *gin.Context) {
	method := Method(c.Param("method"))
	details, ok := DetailsFor(method)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "unsupported_method",
			"message": "Unknown payout method: " + string(method),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"method":  method,
		"details": details,
		"traits":  TraitsFor(method),
	})
}

func (h *Handler) writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "transaction_not_found",
			"message": "Transaction not found",
		})
	case errors.Is(err, ErrInvalidTransaction), errors.Is(err, ErrUnsupportedMethod):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "invalid_transaction",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}

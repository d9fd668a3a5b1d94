package currency

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler exposes currency conversion over HTTP.
type Handler struct{}

// NewHandler creates a currency handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes sets up currency routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/currency")
	g.GET("/convert", h.Convert)
	g.GET("/codes", h.ListCodes)
}

// Convert handles GET /v1/currency/convert?amount=&from=&to=
func (h *Handler) Convert(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "amount must be a non-negative number",
		})
		return
	}

	from := c.DefaultQuery("from", "USD")
	to := c.DefaultQuery("to", "USD")

	converted, err := Convert(amount, from, to)
	if err != nil {
		if errors.Is(err, ErrUnknownCurrency) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "unknown_currency",
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

	c.JSON(http.StatusOK, gin.H{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"converted": converted,
	})
}

// ListCodes handles GET /v1/currency/codes
func (h *Handler) ListCodes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"codes": Codes()})
}

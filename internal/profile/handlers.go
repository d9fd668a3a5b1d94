package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ankitlade12/SafePassage/internal/currency"
	"github.com/ankitlade12/SafePassage/internal/validation"
)

// DefaultUserID keys the single-traveler demo session. The store itself
// is multi-user; the demo dashboard just never sends a user header.
const DefaultUserID = "demo_user"

// Handler provides HTTP endpoints for the traveler profile.
type Handler struct {
	store    Store
	reserves *ProofOfReserves
}

// NewHandler creates a profile handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store, reserves: NewProofOfReserves()}
}

// RegisterRoutes sets up profile routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.PutProfile)
	r.GET("/profile/reserves", h.GetReserves)
	r.POST("/profile/reserves/refresh", h.RefreshReserves)
}

// userID resolves the acting user from the X-User-ID header, falling
// back to the demo traveler.
func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return DefaultUserID
}

// GetProfile handles GET /v1/profile
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "profile_not_found",
				"message": "Profile not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// GetReserves handles GET /v1/profile/reserves
func (h *Handler) GetReserves(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "profile_not_found",
				"message": "Profile not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	if !p.HasActiveFund() {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_active_fund",
			"message": "No active exit fund to verify",
		})
		return
	}

	v := h.reserves.Verification(p.ExitFund.Amount, p.ExitFund.Currency)
	c.JSON(http.StatusOK, gin.H{"reserves": v})
}

// RefreshReserves handles POST /v1/profile/reserves/refresh
func (h *Handler) RefreshReserves(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "profile_not_found",
				"message": "Profile not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	if !p.HasActiveFund() {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_active_fund",
			"message": "No active exit fund to verify",
		})
		return
	}

	h.reserves.Refresh()
	v := h.reserves.Verification(p.ExitFund.Amount, p.ExitFund.Currency)
	c.JSON(http.StatusOK, gin.H{"reserves": v})
}

// PutProfile handles PUT /v1/profile
func (h *Handler) PutProfile(c *gin.Context) {
	var p UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}
	p.UserID = userID(c)

	validators := []func() *validation.ValidationError{
		validation.Required("name", p.Name),
		validation.MaxLength("name", p.Name, 200),
		validation.ValidCoordinates("currentLocation",
			p.CurrentLocation.Latitude, p.CurrentLocation.Longitude),
	}
	if p.ExitFund != nil {
		validators = append(validators,
			validation.PositiveAmount("exitFund.amount", p.ExitFund.Amount),
			validation.OneOf("exitFund.currency", p.ExitFund.Currency, currency.Codes()),
		)
	}
	if errs := validation.Validate(validators...); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": errs.Error(),
			"details": errs,
		})
		return
	}

	if p.ExitFund != nil {
		p.ExitFund.UserID = p.UserID
		for _, m := range p.ExitFund.PayoutMethods {
			if !m.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "unsupported_method",
					"message": "Unknown payout method: " + string(m),
				})
				return
			}
		}
		if p.ExitFund.Status == "" {
			p.ExitFund.Status = FundActive
		}
	}

	if err := h.store.Put(c.Request.Context(), &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to store profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": p})
}

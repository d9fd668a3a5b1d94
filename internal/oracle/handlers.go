package oracle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ankitlade12/SafePassage/internal/metrics"
	"github.com/ankitlade12/SafePassage/internal/payout"
)

// Handler exposes payout recommendations over HTTP.
type Handler struct {
	oracle *Oracle
}

// NewHandler creates a recommendations handler.
func NewHandler(o *Oracle) *Handler {
	return &Handler{oracle: o}
}

// RegisterRoutes sets up recommendation routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/recommendations", h.GetRecommendations)
}

// RecommendationsRequest is the body for POST /v1/recommendations.
// An omitted Methods field means every supported method; an explicitly
// empty list is rejected, the caller has no payout methods to rank.
type RecommendationsRequest struct {
	Methods   []payout.Method `json:"methods"`
	RiskLevel int             `json:"riskLevel" binding:"required"`
}

// GetRecommendations handles POST /v1/recommendations
func (h *Handler) GetRecommendations(c *gin.Context) {
	var req RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if req.RiskLevel < 1 || req.RiskLevel > 10 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "riskLevel must be between 1 and 10",
		})
		return
	}

	methods := req.Methods
	if methods != nil && len(methods) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "methods must not be empty",
		})
		return
	}
	if methods == nil {
		methods = payout.AllMethods()
	}
	for _, m := range methods {
		if !m.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "unsupported_method",
				"message": "Unknown payout method: " + string(m),
			})
			return
		}
	}

	recs := h.oracle.Recommendations(methods, req.RiskLevel)
	metrics.RecommendationsTotal.Inc()

	c.JSON(http.StatusOK, gin.H{
		"riskLevel":       req.RiskLevel,
		"recommendations": recs,
	})
}

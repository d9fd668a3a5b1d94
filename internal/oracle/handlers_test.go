package oracle

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupOracleRouter(o *Oracle) *gin.Engine {
	r := gin.New()
	NewHandler(o).RegisterRoutes(r.Group("/v1"))
	return r
}

func postRecommendations(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecommendationsHTTP_OmittedMethodsMeansAll(t *testing.T) {
	r := setupOracleRouter(oracleWithRNG(0.95))

	w := postRecommendations(t, r, `{"riskLevel":3}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		RiskLevel       int              `json:"riskLevel"`
		Recommendations []Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.RiskLevel)
	assert.Len(t, resp.Recommendations, 4)
}

func TestRecommendationsHTTP_EmptyMethodsRejected(t *testing.T) {
	r := setupOracleRouter(oracleWithRNG(0.95))

	w := postRecommendations(t, r, `{"methods":[],"riskLevel":3}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error)
	assert.Contains(t, resp.Message, "methods must not be empty")
}

func TestRecommendationsHTTP_UnknownMethodRejected(t *testing.T) {
	r := setupOracleRouter(oracleWithRNG(0.95))

	w := postRecommendations(t, r, `{"methods":["carrier_pigeon"],"riskLevel":3}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported_method")
}

func TestRecommendationsHTTP_RiskLevelOutOfRange(t *testing.T) {
	r := setupOracleRouter(oracleWithRNG(0.95))

	w := postRecommendations(t, r, `{"riskLevel":11}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "riskLevel must be between 1 and 10")
}

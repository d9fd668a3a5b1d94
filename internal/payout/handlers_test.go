package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context { return context.Background() }

func init() {
	gin.SetMode(gin.TestMode)
}

func setupPayoutRouter(o *Orchestrator) *gin.Engine {
	r := gin.New()
	NewHandler(o, 0, 0).RegisterRoutes(r.Group("/v1"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInitiatePayoutHTTP(t *testing.T) {
	o, _ := newTestOrchestrator()
	r := setupPayoutRouter(o)

	w := doJSON(t, r, http.MethodPost, "/v1/payouts", gin.H{
		"method":   "mobile_money",
		"amount":   250.0,
		"currency": "USD",
		"recipient": gin.H{
			"phone": "+254700123456",
		},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Transaction Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, MethodMobile, resp.Transaction.Method)
	assert.Equal(t, StatusPending, resp.Transaction.Status)
	assert.Equal(t, "+254700123456", resp.Transaction.RecipientAddress)
	assert.NotNil(t, resp.Transaction.EstimatedArrival)
}

func TestInitiatePayoutRejectsUnknownMethod(t *testing.T) {
	o, _ := newTestOrchestrator()
	r := setupPayoutRouter(o)

	w := doJSON(t, r, http.MethodPost, "/v1/payouts", gin.H{
		"method":   "carrier_pigeon",
		"amount":   100.0,
		"currency": "USD",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported_method")
}

func TestInitiatePayoutRejectsUnknownCurrency(t *testing.T) {
	o, _ := newTestOrchestrator()
	r := setupPayoutRouter(o)

	w := doJSON(t, r, http.MethodPost, "/v1/payouts", gin.H{
		"method":   "cash_pickup",
		"amount":   100.0,
		"currency": "XYZ",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestInitiatePayoutRejectsBadWallet(t *testing.T) {
	o, _ := newTestOrchestrator()
	r := setupPayoutRouter(o)

	w := doJSON(t, r, http.MethodPost, "/v1/payouts", gin.H{
		"method":   "crypto_wallet",
		"amount":   100.0,
		"currency": "USD",
		"recipient": gin.H{
			"walletAddress": "not-an-address",
		},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "walletAddress")
}

func TestAmountRangeEnforced(t *testing.T) {
	o, _ := newTestOrchestrator()
	r := gin.New()
	NewHandler(o, 10, 10000).RegisterRoutes(r.Group("/v1"))

	w := doJSON(t, r, http.MethodPost, "/v1/payouts", gin.H{
		"method":   "cash_pickup",
		"amount":   50000.0,
		"currency": "USD",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckStatusHTTP(t *testing.T) {
	o, clock := newTestOrchestrator()
	r := setupPayoutRouter(o)

	tx, err := o.Initiate(testContext(), MethodMobile, 75, "USD", Recipient{})
	require.NoError(t, err)

	clock.Advance(25 * time.Minute)
	w := doJSON(t, r, http.MethodGet, "/v1/payouts/"+tx.ID, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Transaction Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusCompleted, resp.Transaction.Status)
	assert.NotNil(t, resp.Transaction.CompletedAt)
}

func TestCheckStatusNotFound(t *testing.T) {
	o, _ := newTestOrchestrator()
	r := setupPayoutRouter(o)

	w := doJSON(t, r, http.MethodGet, "/v1/payouts/WIRE000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgressHTTP(t *testing.T) {
	o, clock := newTestOrchestrator()
	r := setupPayoutRouter(o)

	tx, err := o.Initiate(testContext(), MethodCrypto, 500, "USD", Recipient{})
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	w := doJSON(t, r, http.MethodGet, "/v1/payouts/"+tx.ID+"/progress", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status   Status `json:"status"`
		Progress int    `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusProcessing, resp.Status)
	assert.Equal(t, 60, resp.Progress)
}

func TestMethodDetailsHTTP(t *testing.T) {
	o, _ := newTestOrchestrator()
	r := setupPayoutRouter(o)

	w := doJSON(t, r, http.MethodGet, "/v1/methods/crypto_wallet", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Details MethodDetails `json:"details"`
		Traits  Traits        `json:"traits"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Crypto Wallet (USDC)", resp.Details.Name)
	assert.Equal(t, 12, resp.Details.ConfirmationsRequired)
	assert.Equal(t, 9, resp.Traits.Speed)

	w = doJSON(t, r, http.MethodGet, "/v1/methods/carrier_pigeon", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

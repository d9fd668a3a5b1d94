package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitlade12/SafePassage/internal/payout"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHasActiveFund(t *testing.T) {
	p := DemoProfile()
	if !p.HasActiveFund() {
		t.Error("demo profile should have an active fund")
	}

	p.ExitFund.Status = FundCancelled
	if p.HasActiveFund() {
		t.Error("cancelled fund is not active")
	}

	p.ExitFund = nil
	if p.HasActiveFund() {
		t.Error("nil fund is not active")
	}
}

func TestAvailableMethods(t *testing.T) {
	p := DemoProfile()
	methods := p.AvailableMethods()
	assert.Equal(t, []payout.Method{
		payout.MethodCrypto, payout.MethodCash, payout.MethodMobile,
	}, methods)

	p.ExitFund = nil
	assert.Equal(t, payout.AllMethods(), p.AvailableMethods())
}

func TestPayoutETA(t *testing.T) {
	f := DemoProfile().ExitFund
	assert.Equal(t, "15 minutes", f.PayoutETA(payout.MethodCrypto))
	assert.Equal(t, "2-3 business days", f.PayoutETA(payout.MethodWire))
	assert.Equal(t, "Unknown", f.PayoutETA(payout.Method("carrier_pigeon")))
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, DemoProfile()))

	p, err := store.Get(ctx, "demo_user")
	require.NoError(t, err)

	p.ExitFund.Amount = 1
	again, _ := store.Get(ctx, "demo_user")
	assert.Equal(t, float64(5000), again.ExitFund.Amount)
}

func setupProfileRouter(store Store) *gin.Engine {
	r := gin.New()
	NewHandler(store).RegisterRoutes(r.Group("/v1"))
	return r
}

func TestGetProfileHTTP(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), DemoProfile()))
	r := setupProfileRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Profile UserProfile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "demo_user", resp.Profile.UserID)
	assert.True(t, resp.Profile.HasActiveFund())
}

func TestGetProfileNotFound(t *testing.T) {
	r := setupProfileRouter(NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutProfileHTTP(t *testing.T) {
	store := NewMemoryStore()
	r := setupProfileRouter(store)

	body, _ := json.Marshal(gin.H{
		"name": "Sam Chen",
		"currentLocation": gin.H{
			"city": "Beirut", "country": "Lebanon",
			"latitude": 33.89, "longitude": 35.50,
		},
		"exitFund": gin.H{
			"amount":        2000,
			"currency":      "EUR",
			"payoutMethods": []string{"crypto_wallet", "mobile_money"},
		},
	})
	req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	p, err := store.Get(context.Background(), "demo_user")
	require.NoError(t, err)
	assert.Equal(t, "Sam Chen", p.Name)
	assert.Equal(t, FundActive, p.ExitFund.Status)
	assert.Equal(t, "demo_user", p.ExitFund.UserID)
}

func TestPutProfileRejectsBadFund(t *testing.T) {
	r := setupProfileRouter(NewMemoryStore())

	cases := []gin.H{
		{"name": "Sam", "currentLocation": gin.H{"latitude": 0, "longitude": 0},
			"exitFund": gin.H{"amount": -100, "currency": "USD"}},
		{"name": "Sam", "currentLocation": gin.H{"latitude": 0, "longitude": 0},
			"exitFund": gin.H{"amount": 100, "currency": "XYZ"}},
		{"name": "Sam", "currentLocation": gin.H{"latitude": 0, "longitude": 0},
			"exitFund": gin.H{"amount": 100, "currency": "USD", "payoutMethods": []string{"carrier_pigeon"}}},
	}
	for i, body := range cases {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %d", i)
	}
}

package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_SameCurrency(t *testing.T) {
	got, err := Convert(5000, "USD", "USD")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, got)
}

func TestConvert_USDToEUR(t *testing.T) {
	got, err := Convert(100, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 92.0, got)
}

func TestConvert_CrossRate(t *testing.T) {
	// EUR -> JPY pivots through USD: 100 / 0.92 * 149.50
	got, err := Convert(100, "EUR", "JPY")
	require.NoError(t, err)
	assert.InDelta(t, 16250.0, got, 0.01)
}

func TestConvert_UnknownCurrency(t *testing.T) {
	_, err := Convert(100, "USD", "XXX")
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	_, err = Convert(100, "ZZZ", "USD")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("USD"))
	assert.True(t, IsSupported("CHF"))
	assert.False(t, IsSupported("usd"))
	assert.False(t, IsSupported(""))
}

func TestCodes_AllHaveRates(t *testing.T) {
	for _, code := range Codes() {
		assert.True(t, IsSupported(code), "code %s missing from Rates", code)
	}
	assert.Len(t, Codes(), len(Rates))
}

package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCurrencyAmounts_SetAndAdd(t *testing.T) {
	ca := NewCurrencyAmounts()

	ca.Set(USD, amt("100"))
	ca.Add(USD, amt("20"))
	ca.Add(IDR, amt("50000"))

	usd, ok := ca.Get(USD)
	require.True(t, ok)
	assert.True(t, usd.Equal(amt("120")))
	idr, ok := ca.Get(IDR)
	require.True(t, ok)
	assert.True(t, idr.Equal(amt("50000")))
	_, ok = ca.Get(SGD)
	assert.False(t, ok)
}

func TestCurrencyAmounts_InsertionOrder(t *testing.T) {
	ca := NewCurrencyAmounts()
	ca.Set(SGD, amt("1"))
	ca.Set(USD, amt("2"))
	ca.Set(IDR, amt("3"))
	ca.Set(USD, amt("4")) // overwrite keeps original position

	assert.Equal(t, []Currency{SGD, USD, IDR}, ca.Currencies())
}

func TestCurrencyAmounts_JSONRoundTrip(t *testing.T) {
	ca := NewCurrencyAmounts()
	ca.Set(USD, amt("220"))
	ca.Set(IDR, amt("50000"))

	data, err := ca.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"USD":220,"IDR":50000}`, string(data))

	var decoded CurrencyAmounts
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.True(t, ca.Equal(decoded))
	assert.Equal(t, []Currency{USD, IDR}, decoded.Currencies())
}

func TestCurrencyAmounts_UnmarshalRejectsUnknownCurrency(t *testing.T) {
	var ca CurrencyAmounts
	err := ca.UnmarshalJSON([]byte(`{"XXX":"10"}`))
	assert.Error(t, err)
}

func TestCurrencyAmounts_UnmarshalAcceptsNumbers(t *testing.T) {
	var ca CurrencyAmounts
	require.NoError(t, ca.UnmarshalJSON([]byte(`{"USD":220.50,"IDR":50000}`)))

	usd, _ := ca.Get(USD)
	assert.True(t, usd.Equal(amt("220.50")))
}

func TestCurrencyAmounts_ScanValue(t *testing.T) {
	ca := NewCurrencyAmounts()
	ca.Set(USD, amt("220"))

	v, err := ca.Value()
	require.NoError(t, err)

	var scanned CurrencyAmounts
	require.NoError(t, scanned.Scan(v))
	assert.True(t, ca.Equal(scanned))

	var fromNil CurrencyAmounts
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsEmpty())
}

func TestCurrencyAmounts_Predicates(t *testing.T) {
	ca := NewCurrencyAmounts()
	ca.Set(USD, amt("0"))
	ca.Set(IDR, amt("0.005"))

	assert.True(t, ca.AllZero(amt("0.01")))
	assert.True(t, ca.AnyPositive())

	ca.Set(IDR, amt("100"))
	assert.False(t, ca.AllZero(amt("0.01")))

	negative := NewCurrencyAmounts()
	negative.Set(USD, amt("-5"))
	assert.False(t, negative.AnyPositive())
}

func TestCurrencyAmounts_CloneIsIndependent(t *testing.T) {
	ca := NewCurrencyAmounts()
	ca.Set(USD, amt("10"))

	clone := ca.Clone()
	clone.Set(USD, amt("99"))

	original, _ := ca.Get(USD)
	assert.True(t, original.Equal(amt("10")))
}

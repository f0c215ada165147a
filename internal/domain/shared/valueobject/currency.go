package valueobject

import (
	"fmt"
	"strings"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	IDR Currency = "IDR" // Indonesian Rupiah (default)
	USD Currency = "USD" // US Dollar
	SGD Currency = "SGD" // Singapore Dollar
	EUR Currency = "EUR" // Euro
	CNY Currency = "CNY" // Chinese Yuan
	JPY Currency = "JPY" // Japanese Yen
	MYR Currency = "MYR" // Malaysian Ringgit
	THB Currency = "THB" // Thai Baht
	AUD Currency = "AUD" // Australian Dollar
	GBP Currency = "GBP" // British Pound
)

// DefaultCurrency is the billing base currency for the system
const DefaultCurrency = IDR

// allowedCurrencies is the boundary allow-list; currency maps are keyed by
// arbitrary strings in storage, so every inbound code is checked against it.
var allowedCurrencies = map[Currency]struct{}{
	IDR: {}, USD: {}, SGD: {}, EUR: {}, CNY: {},
	JPY: {}, MYR: {}, THB: {}, AUD: {}, GBP: {},
}

// IsValid reports whether the currency is on the allow-list
func (c Currency) IsValid() bool {
	_, ok := allowedCurrencies[c]
	return ok
}

// String returns the string representation of the currency
func (c Currency) String() string {
	return string(c)
}

// ParseCurrency validates a raw code against the allow-list
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(code))
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency code %q", code)
	}
	return c, nil
}

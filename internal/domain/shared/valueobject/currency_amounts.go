package valueobject

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyAmounts is an insertion-ordered map from currency code to a decimal
// total. It backs the amount_due / amount_paid / amount_remaining columns,
// which are stored as JSON objects keyed by currency code. Keys keep the order
// in which currencies first appeared so persisted ledgers stay stable across
// recomputation.
type CurrencyAmounts struct {
	keys    []Currency
	amounts map[Currency]decimal.Decimal
}

// NewCurrencyAmounts creates an empty CurrencyAmounts
func NewCurrencyAmounts() CurrencyAmounts {
	return CurrencyAmounts{
		keys:    make([]Currency, 0, 2),
		amounts: make(map[Currency]decimal.Decimal, 2),
	}
}

// Set assigns the amount for a currency, appending the key on first use
func (ca *CurrencyAmounts) Set(currency Currency, amount decimal.Decimal) {
	if ca.amounts == nil {
		*ca = NewCurrencyAmounts()
	}
	if _, ok := ca.amounts[currency]; !ok {
		ca.keys = append(ca.keys, currency)
	}
	ca.amounts[currency] = amount
}

// Add adds the amount to the currency's running total
func (ca *CurrencyAmounts) Add(currency Currency, amount decimal.Decimal) {
	current, _ := ca.Get(currency)
	ca.Set(currency, current.Add(amount))
}

// Get returns the amount for a currency and whether the currency is present
func (ca CurrencyAmounts) Get(currency Currency) (decimal.Decimal, bool) {
	if ca.amounts == nil {
		return decimal.Zero, false
	}
	amount, ok := ca.amounts[currency]
	if !ok {
		return decimal.Zero, false
	}
	return amount, true
}

// Currencies returns the currency keys in insertion order
func (ca CurrencyAmounts) Currencies() []Currency {
	out := make([]Currency, len(ca.keys))
	copy(out, ca.keys)
	return out
}

// Len returns the number of currencies present
func (ca CurrencyAmounts) Len() int {
	return len(ca.keys)
}

// IsEmpty reports whether no currency is present
func (ca CurrencyAmounts) IsEmpty() bool {
	return len(ca.keys) == 0
}

// Total sums every entry regardless of currency. Only meaningful for
// settlement checks where each per-currency term is already known to be
// non-negative or zero.
func (ca CurrencyAmounts) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range ca.keys {
		total = total.Add(ca.amounts[c])
	}
	return total
}

// AllZero reports whether every entry is <= 0 within the given tolerance
func (ca CurrencyAmounts) AllZero(tolerance decimal.Decimal) bool {
	for _, c := range ca.keys {
		if ca.amounts[c].GreaterThan(tolerance) {
			return false
		}
	}
	return true
}

// AnyPositive reports whether any entry is strictly positive
func (ca CurrencyAmounts) AnyPositive() bool {
	for _, c := range ca.keys {
		if ca.amounts[c].IsPositive() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy
func (ca CurrencyAmounts) Clone() CurrencyAmounts {
	out := NewCurrencyAmounts()
	for _, c := range ca.keys {
		out.Set(c, ca.amounts[c])
	}
	return out
}

// Equal compares two CurrencyAmounts by key set and amounts (order ignored)
func (ca CurrencyAmounts) Equal(other CurrencyAmounts) bool {
	if len(ca.keys) != len(other.keys) {
		return false
	}
	for _, c := range ca.keys {
		otherAmount, ok := other.Get(c)
		if !ok || !ca.amounts[c].Equal(otherAmount) {
			return false
		}
	}
	return true
}

// MarshalJSON serializes as a JSON object preserving key order
func (ca CurrencyAmounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range ca.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(c))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(ca.amounts[c].String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON deserializes a JSON object, preserving the key order of the
// document and validating each key against the currency allow-list.
func (ca *CurrencyAmounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object for currency amounts, got %v", tok)
	}

	out := NewCurrencyAmounts()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid currency amounts key %v", keyTok)
		}
		currency, err := ParseCurrency(key)
		if err != nil {
			return err
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		var amount decimal.Decimal
		switch v := valTok.(type) {
		case json.Number:
			amount, err = decimal.NewFromString(v.String())
		case string:
			amount, err = decimal.NewFromString(v)
		default:
			return fmt.Errorf("invalid amount for currency %s: %v", key, valTok)
		}
		if err != nil {
			return fmt.Errorf("invalid amount for currency %s: %w", key, err)
		}
		out.Set(currency, amount)
	}

	*ca = out
	return nil
}

// Value implements driver.Valuer for JSONB storage
func (ca CurrencyAmounts) Value() (driver.Value, error) {
	data, err := ca.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSONB retrieval
func (ca *CurrencyAmounts) Scan(value any) error {
	if value == nil {
		*ca = NewCurrencyAmounts()
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CurrencyAmounts", value)
	}
	if len(data) == 0 {
		*ca = NewCurrencyAmounts()
		return nil
	}
	return ca.UnmarshalJSON(data)
}

// String renders the map for logs and error messages
func (ca CurrencyAmounts) String() string {
	data, err := ca.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(data)
}

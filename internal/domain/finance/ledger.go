package finance

import (
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RoundingTolerance is the maximum acceptable drift between amount_due and
// amount_paid + amount_remaining for any single currency.
var RoundingTolerance = decimal.New(1, -2) // 0.01

var oneHundred = decimal.NewFromInt(100)

// PriceLine is the ledger view of a single price line item
type PriceLine struct {
	Currency   valueobject.Currency
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TaxPercent decimal.Decimal
}

// PaymentLine is the ledger view of a single payment record
type PaymentLine struct {
	Currency valueobject.Currency
	Amount   decimal.Decimal
	Voided   bool
}

// LedgerBalance holds the per-currency due/paid/remaining maps for one
// payable or receivable.
type LedgerBalance struct {
	Due       valueobject.CurrencyAmounts
	Paid      valueobject.CurrencyAmounts
	Remaining valueobject.CurrencyAmounts
}

// LineTotal computes a single line's total: qty*unitPrice plus tax on top,
// rounded half-up to 2 decimal places.
func LineTotal(line PriceLine) decimal.Decimal {
	base := line.Quantity.Mul(line.UnitPrice)
	tax := base.Mul(line.TaxPercent).Div(oneHundred)
	return base.Add(tax).Round(2)
}

// AmountDue sums line totals per currency. Insertion order of the result
// follows the order currencies first appear in the lines.
func AmountDue(lines []PriceLine) valueobject.CurrencyAmounts {
	due := valueobject.NewCurrencyAmounts()
	for _, line := range lines {
		due.Add(line.Currency, LineTotal(line))
	}
	for _, c := range due.Currencies() {
		amount, _ := due.Get(c)
		due.Set(c, amount.Round(2))
	}
	return due
}

// Reconcile rebuilds paid and remaining maps from scratch given the due map
// and the full payment history. Voided payments are skipped. Every currency
// present in due appears in both output maps, even when unpaid; a currency
// that never appeared in due is only added if a payment references it.
//
// Reconstruction instead of incremental deltas keeps
// paid[c] + remaining[c] == due[c] true by construction.
func Reconcile(due valueobject.CurrencyAmounts, payments []PaymentLine) LedgerBalance {
	paid := valueobject.NewCurrencyAmounts()
	remaining := valueobject.NewCurrencyAmounts()

	for _, c := range due.Currencies() {
		paid.Set(c, decimal.Zero)
	}
	for _, p := range payments {
		if p.Voided {
			continue
		}
		paid.Add(p.Currency, p.Amount)
	}

	for _, c := range paid.Currencies() {
		paidAmount, _ := paid.Get(c)
		paid.Set(c, paidAmount.Round(2))
	}
	for _, c := range paid.Currencies() {
		dueAmount, _ := due.Get(c)
		paidAmount, _ := paid.Get(c)
		remaining.Set(c, dueAmount.Sub(paidAmount).Round(2))
	}

	return LedgerBalance{Due: due.Clone(), Paid: paid, Remaining: remaining}
}

// Balanced verifies the conservation invariant per currency within tolerance.
func (b LedgerBalance) Balanced() bool {
	for _, c := range b.Due.Currencies() {
		due, _ := b.Due.Get(c)
		paid, _ := b.Paid.Get(c)
		remaining, _ := b.Remaining.Get(c)
		if paid.Add(remaining).Sub(due).Abs().GreaterThan(RoundingTolerance) {
			return false
		}
	}
	return true
}

// Settled reports whether every currency's remaining is zero or overpaid.
func (b LedgerBalance) Settled() bool {
	return !b.Remaining.AnyPositive()
}

// HasAnyPayment reports whether any currency has received a payment.
func (b LedgerBalance) HasAnyPayment() bool {
	return b.Paid.AnyPositive()
}

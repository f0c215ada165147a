package finance

import (
	"testing"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoicePrices() []PriceInput {
	return []PriceInput{
		{Component: "Ocean Freight", UOM: "Container", Currency: valueobject.USD, UnitPrice: d("100"), Quantity: d("2")},
		{Component: "Document Fee", UOM: "Set", Currency: valueobject.IDR, UnitPrice: d("150000"), Quantity: d("1")},
	}
}

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(
		uuid.New(),
		"INV-2024-0001",
		"JS-2024-0001",
		uuid.New(),
		nil,
		date(2024, 1, 1),
		"30 Days",
		valueobject.USD,
		d("15000"), // 1 USD = 15,000 IDR
		d("0"),
		invoicePrices(),
		testActor,
	)
	require.NoError(t, err)
	return inv
}

func issueTestInvoice(t *testing.T, inv *Invoice) {
	t.Helper()
	require.NoError(t, inv.Approve(testActor))
	require.NoError(t, inv.Issue("finance@customer.example.com", testActor))
}

func TestNewInvoice(t *testing.T) {
	t.Run("derives due date from payment term", func(t *testing.T) {
		inv := newTestInvoice(t)

		assert.Equal(t, "2024-01-31", inv.DueDate.Format("2006-01-02"))
		assert.Equal(t, InvoiceStatusProforma, inv.Status)
		assert.Equal(t, ARStatusWaitingApproval, inv.ARStatus)
	})

	t.Run("totals carried in both denominations", func(t *testing.T) {
		inv := newTestInvoice(t)

		// 2 x 100 USD = 3,000,000 IDR plus 150,000 IDR document fee
		assert.True(t, inv.Total.Equal(d("3150000")), "got %s", inv.Total)
		// 200 USD plus 150,000/15,000 = 10 USD
		assert.True(t, inv.TotalCurrency.Equal(d("210")), "got %s", inv.TotalCurrency)
		assert.True(t, inv.AmountRemaining.Equal(inv.Total))
		assert.True(t, inv.AmountRemainingCurrency.Equal(inv.TotalCurrency))
	})

	t.Run("ppn applied on top", func(t *testing.T) {
		inv, err := NewInvoice(uuid.New(), "INV-2024-0002", "JS-2024-0001", uuid.New(), nil,
			date(2024, 1, 1), "Cash", valueobject.IDR, decimal.NewFromInt(1), d("11"),
			[]PriceInput{{Component: "Trucking", Currency: valueobject.IDR, UnitPrice: d("1000000"), Quantity: d("1")}},
			testActor)
		require.NoError(t, err)

		assert.True(t, inv.Total.Equal(d("1110000")), "got %s", inv.Total)
	})

	t.Run("unknown payment term", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV-2024-0003", "JS-2024-0001", uuid.New(), nil,
			date(2024, 1, 1), "90 Days", valueobject.USD, d("15000"), d("0"),
			invoicePrices(), testActor)
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("price currency must be IDR or the invoice currency", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV-2024-0004", "JS-2024-0001", uuid.New(), nil,
			date(2024, 1, 1), "Cash", valueobject.USD, d("15000"), d("0"),
			[]PriceInput{{Component: "Freight", Currency: valueobject.SGD, UnitPrice: d("10"), Quantity: d("1")}},
			testActor)
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})
}

func TestInvoice_ApprovalAndIssue(t *testing.T) {
	t.Run("issue requires prior approval", func(t *testing.T) {
		inv := newTestInvoice(t)

		err := inv.Issue("finance@customer.example.com", testActor)

		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("issue requires a recipient email", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Approve(testActor))

		err := inv.Issue("", testActor)

		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("issue stamps and moves to pending", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)

		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		assert.Equal(t, ARStatusPending, inv.ARStatus)
		require.NotNil(t, inv.IssuedAt)
		require.NotNil(t, inv.IssuedBy)
		assert.Equal(t, testActor.ID, *inv.IssuedBy)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		inv := newTestInvoice(t)

		err := inv.Reject("", testActor)

		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("revise after rejection resets to waiting approval", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Reject("Wrong freight rate", testActor))

		newPrices := []PriceInput{
			{Component: "Ocean Freight", Currency: valueobject.USD, UnitPrice: d("90"), Quantity: d("2")},
		}
		require.NoError(t, inv.Revise(newPrices, testActor))

		assert.Equal(t, ARStatusWaitingApproval, inv.ARStatus)
		assert.Equal(t, InvoiceStatusProforma, inv.Status)
		assert.True(t, inv.TotalCurrency.Equal(d("180")), "got %s", inv.TotalCurrency)
		require.Len(t, inv.ActivePrices(), 1)
	})
}

func TestInvoice_RecordPayment(t *testing.T) {
	t.Run("first payment locks the currency", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)

		_, err := inv.RecordPayment(valueobject.USD, d("100"), date(2024, 2, 1), "TRF-001", "", testActor)
		require.NoError(t, err)
		require.NotNil(t, inv.PaymentCurrency)
		assert.Equal(t, valueobject.USD, *inv.PaymentCurrency)
		assert.Equal(t, ARStatusPartiallyPaid, inv.ARStatus)

		_, err = inv.RecordPayment(valueobject.IDR, d("1000000"), date(2024, 2, 2), "TRF-002", "", testActor)
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("settles when paid covers the total", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)

		_, err := inv.RecordPayment(valueobject.USD, d("110"), date(2024, 2, 1), "TRF-001", "", testActor)
		require.NoError(t, err)
		_, err = inv.RecordPayment(valueobject.USD, d("100"), date(2024, 2, 2), "TRF-002", "", testActor)
		require.NoError(t, err)

		assert.Equal(t, ARStatusPaid, inv.ARStatus)
		assert.True(t, inv.AmountRemainingCurrency.IsZero(), "got %s", inv.AmountRemainingCurrency)
		assert.True(t, inv.AmountRemaining.IsZero(), "got %s", inv.AmountRemaining)
	})

	t.Run("amount may not exceed remaining", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)

		_, err := inv.RecordPayment(valueobject.USD, d("500"), date(2024, 2, 1), "TRF-001", "", testActor)

		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("IDR payment converts through the exchange rate", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)

		payment, err := inv.RecordPayment(valueobject.IDR, d("1500000"), date(2024, 2, 1), "TRF-001", "", testActor)
		require.NoError(t, err)

		assert.True(t, payment.AmountPaid.Equal(d("1500000")))
		assert.True(t, payment.AmountPaidCurrency.Equal(d("100")), "got %s", payment.AmountPaidCurrency)
		assert.True(t, inv.AmountRemaining.Equal(d("1650000")), "got %s", inv.AmountRemaining)
		assert.Equal(t, "1500000.00 IDR", payment.Paid().String())
	})

	t.Run("paid reads the tendered currency leg", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)

		payment, err := inv.RecordPayment(valueobject.USD, d("100"), date(2024, 2, 1), "TRF-001", "", testActor)
		require.NoError(t, err)

		paid := payment.Paid()
		assert.Equal(t, valueobject.USD, paid.Currency())
		assert.True(t, paid.Amount().Equal(d("100")), "got %s", paid.Amount())
	})

	t.Run("payment currency must be IDR or the invoice currency", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)

		_, err := inv.RecordPayment(valueobject.SGD, d("10"), date(2024, 2, 1), "TRF-001", "", testActor)

		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("illegal before issuing", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Approve(testActor))

		_, err := inv.RecordPayment(valueobject.USD, d("100"), date(2024, 2, 1), "TRF-001", "", testActor)

		assertDomainCode(t, err, "INVALID_STATE")
	})
}

func TestInvoice_VoidPayment(t *testing.T) {
	t.Run("voiding the only payment reverts to pending and unlocks currency", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)
		payment, err := inv.RecordPayment(valueobject.USD, d("100"), date(2024, 2, 1), "TRF-001", "", testActor)
		require.NoError(t, err)

		require.NoError(t, inv.VoidPayment(payment.ID, testActor))

		assert.Equal(t, ARStatusPending, inv.ARStatus)
		assert.Nil(t, inv.PaymentCurrency)
		assert.True(t, inv.AmountRemaining.Equal(inv.Total))
	})

	t.Run("voiding one of two payments keeps partially paid", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)
		first, err := inv.RecordPayment(valueobject.USD, d("100"), date(2024, 2, 1), "TRF-001", "", testActor)
		require.NoError(t, err)
		firstID := first.ID
		_, err = inv.RecordPayment(valueobject.USD, d("110"), date(2024, 2, 2), "TRF-002", "", testActor)
		require.NoError(t, err)
		require.Equal(t, ARStatusPaid, inv.ARStatus)

		require.NoError(t, inv.VoidPayment(firstID, testActor))

		assert.Equal(t, ARStatusPartiallyPaid, inv.ARStatus)
		assert.True(t, inv.AmountPaidCurrency.Equal(d("110")))
	})

	t.Run("unknown payment id", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)
		_, err := inv.RecordPayment(valueobject.USD, d("100"), date(2024, 2, 1), "TRF-001", "", testActor)
		require.NoError(t, err)

		err = inv.VoidPayment(uuid.New(), testActor)

		assertDomainCode(t, err, "NOT_FOUND")
	})
}

func testRevisionInput() RevisionInput {
	return RevisionInput{
		InvoiceNumber: "INV-2024-0001-R1",
		InvoiceDate:   date(2024, 1, 10),
		PaymentTerm:   "14 Days",
		Currency:      valueobject.USD,
		ExchangeRate:  d("15500"),
		PPNPercent:    d("0"),
		Prices: []PriceInput{
			{Component: "Ocean Freight", Currency: valueobject.USD, UnitPrice: d("95"), Quantity: d("2")},
		},
	}
}

func TestInvoice_Revision(t *testing.T) {
	t.Run("request marks the invoice need approval", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)

		require.NoError(t, inv.RequestRevision(testRevisionInput(), "Rate correction", testActor))

		assert.Equal(t, InvoiceStatusNeedApproval, inv.Status)
		require.NotNil(t, inv.Revision)
		assert.Equal(t, RevisionStatusNeedApproval, inv.Revision.Status)
		assert.Equal(t, "2024-01-24", inv.Revision.DueDate.Format("2006-01-02"))
	})

	t.Run("second request while one is pending fails", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)
		require.NoError(t, inv.RequestRevision(testRevisionInput(), "Rate correction", testActor))

		err := inv.RequestRevision(testRevisionInput(), "Another change", testActor)

		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("request is illegal before issuing", func(t *testing.T) {
		inv := newTestInvoice(t)

		err := inv.RequestRevision(testRevisionInput(), "Rate correction", testActor)

		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("approval overwrites the live invoice", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)
		require.NoError(t, inv.RequestRevision(testRevisionInput(), "Rate correction", testActor))

		require.NoError(t, inv.ApplyRevision(testActor))

		assert.Equal(t, "INV-2024-0001-R1", inv.InvoiceNumber)
		assert.Equal(t, "14 Days", inv.PaymentTerm)
		assert.True(t, inv.ExchangeRate.Equal(d("15500")))
		assert.Equal(t, InvoiceStatusApproved, inv.Status)
		assert.Equal(t, ARStatusApproved, inv.ARStatus)
		assert.Equal(t, RevisionStatusApproved, inv.Revision.Status)

		active := inv.ActivePrices()
		require.Len(t, active, 1)
		assert.True(t, active[0].UnitPrice.Equal(d("95")))
		assert.True(t, inv.TotalCurrency.Equal(d("190")), "got %s", inv.TotalCurrency)
	})

	t.Run("rejection leaves live data untouched", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)
		require.NoError(t, inv.RequestRevision(testRevisionInput(), "Rate correction", testActor))
		totalBefore := inv.TotalCurrency

		require.NoError(t, inv.RejectRevision("Customer already billed", testActor))

		assert.Equal(t, InvoiceStatusChangesRejected, inv.Status)
		assert.Equal(t, "INV-2024-0001", inv.InvoiceNumber)
		assert.True(t, inv.TotalCurrency.Equal(totalBefore))
		assert.Equal(t, RevisionStatusRejected, inv.Revision.Status)
	})

	t.Run("rejection requires a reason", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)
		require.NoError(t, inv.RequestRevision(testRevisionInput(), "Rate correction", testActor))

		err := inv.RejectRevision("", testActor)

		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("a new request is allowed after changes were rejected", func(t *testing.T) {
		inv := newTestInvoice(t)
		issueTestInvoice(t, inv)
		require.NoError(t, inv.RequestRevision(testRevisionInput(), "Rate correction", testActor))
		require.NoError(t, inv.RejectRevision("Customer already billed", testActor))

		err := inv.RequestRevision(testRevisionInput(), "Second attempt", testActor)

		require.NoError(t, err)
		assert.Equal(t, RevisionStatusNeedApproval, inv.Revision.Status)
	})
}

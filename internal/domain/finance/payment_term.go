package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
)

// termDays maps a payment-term label (as stored on customers and third
// parties) to the number of days between invoice date and due date.
var termDays = map[string]int{
	"cash":    0,
	"7 days":  7,
	"14 days": 14,
	"30 days": 30,
	"45 days": 45,
	"60 days": 60,
}

// TermDays resolves a payment-term label to its day count. An empty label is
// treated as Cash.
func TermDays(label string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return 0, nil
	}
	days, ok := termDays[normalized]
	if !ok {
		return 0, shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("unknown payment term %q", label))
	}
	return days, nil
}

// DueDateFor computes invoiceDate + termDays(label).
func DueDateFor(invoiceDate time.Time, label string) (time.Time, error) {
	days, err := TermDays(label)
	if err != nil {
		return time.Time{}, err
	}
	return invoiceDate.AddDate(0, 0, days), nil
}

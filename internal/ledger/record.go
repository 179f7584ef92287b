package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses as they appear in the historical ledger. The live store
// only ever holds paid/unpaid; paused and n/a are ledger-side states that the
// processor maps down.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
	StatusPaused = "paused"
	StatusNA     = "n/a"
)

// Record is one raw invoice row from the historical ledger, pre-normalization.
type Record struct {
	ClientName string
	Month      time.Time
	Amount     decimal.Decimal
	Status     string
	Notes      string
}

var monthLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"Jan 2006",
	"2006-01",
}

// ParseMonth parses a ledger month cell and snaps it to the first of the month (UTC).
func ParseMonth(input string) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthStart(t), true
		}
	}
	return time.Time{}, false
}

// MonthStart truncates a date to the first of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween returns the whole-month delta from a to b (0 when equal,
// negative when b is earlier).
func MonthsBetween(a, b time.Time) int {
	a, b = MonthStart(a), MonthStart(b)
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// AddMonths shifts a first-of-month date by n months.
func AddMonths(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, n, 0)
}

// NormalizeStatus lowercases a ledger status and maps n/a to unpaid.
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case StatusPaid, StatusUnpaid, StatusPaused:
		return s
	case StatusNA, "na", "":
		return StatusUnpaid
	default:
		return StatusUnpaid
	}
}

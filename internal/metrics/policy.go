package metrics

import (
	"time"

	"RevBoardSaas/internal/config"
	"RevBoardSaas/internal/ledger"

	"github.com/shopspring/decimal"
)

// Policy carries the time-boundary billing overrides. Months strictly before
// HistoricalCutover predate per-payment tracking and report as fully
// collected. The two transition months report a fixed collected figure taken
// from the closing statement of the old billing system. From RealCutover
// onward nothing is overridden.
type Policy struct {
	HistoricalCutover time.Time
	TransitionMonths  [2]time.Time
	TransitionActual  decimal.Decimal
	RealCutover       time.Time
}

// DefaultPolicy reads the configured cutover constants.
func DefaultPolicy() Policy {
	return Policy{
		HistoricalCutover: config.HistoricalCutover,
		TransitionMonths:  config.TransitionMonths,
		TransitionActual:  config.TransitionActual,
		RealCutover:       config.RealCutover,
	}
}

func (p Policy) isTransition(month time.Time) bool {
	m := ledger.MonthStart(month)
	return m.Equal(p.TransitionMonths[0]) || m.Equal(p.TransitionMonths[1])
}

// Apply resolves a month's collected figure, outstanding amount, and
// collection rate under the policy.
func (p Policy) Apply(month time.Time, expected, actual decimal.Decimal) (decimal.Decimal, decimal.Decimal, float64) {
	m := ledger.MonthStart(month)
	switch {
	case p.isTransition(m):
		actual = p.TransitionActual
		outstanding := expected.Sub(actual)
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}
		return actual, outstanding, rateOf(actual, expected)
	case m.Before(p.HistoricalCutover):
		return expected, decimal.Zero, 100
	default:
		// outstanding may go negative on overpayment; not clamped
		return actual, expected.Sub(actual), rateOf(actual, expected)
	}
}

// AdjustRevenue applies the transition override to a cost-series revenue
// figure (used by margin trends and seasonal averages).
func (p Policy) AdjustRevenue(month time.Time, revenue decimal.Decimal) decimal.Decimal {
	if p.isTransition(month) {
		return p.TransitionActual
	}
	return revenue
}

func rateOf(actual, expected decimal.Decimal) float64 {
	if expected.IsZero() {
		return 0
	}
	rate, _ := actual.Div(expected).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return rate
}

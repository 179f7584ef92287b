package metrics

import (
	"time"

	"RevBoardSaas/internal/config"
	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/store"

	"github.com/shopspring/decimal"
)

// MonthlyPerformance is one derived month of the performance series. It is
// recomputed on demand and never persisted.
type MonthlyPerformance struct {
	Month          time.Time       `json:"month"`
	Expected       decimal.Decimal `json:"expected"`
	Actual         decimal.Decimal `json:"actual"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	CollectionRate float64         `json:"collection_rate"`
	Costs          decimal.Decimal `json:"costs"`
	OpIncome       decimal.Decimal `json:"op_income"`
}

// RatePoint pairs a month's collection rate with the chart target.
type RatePoint struct {
	Month  time.Time `json:"month"`
	Rate   float64   `json:"rate"`
	Target float64   `json:"target"`
}

// Engine derives the dashboard's monthly series from live rows, the cost
// series and the historical ledger.
type Engine struct {
	policy Policy
	now    func() time.Time
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy, now: time.Now}
}

// WithClock injects a clock for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ComputeMonthlyPerformance returns the trailing window (at least
// config.TrailingMonths, extended back to the earliest cost row) in ascending
// order, one entry per month. A month missing from the cost series gets zero
// costs rather than being dropped.
func (e *Engine) ComputeMonthlyPerformance(
	clients []store.Client,
	payments []store.PaymentRecord,
	costs []store.MonthlyData,
	ledgerRecords []ledger.Record,
) []MonthlyPerformance {
	current := ledger.MonthStart(e.now())
	start := ledger.AddMonths(current, -(config.TrailingMonths - 1))

	costByMonth := map[time.Time]store.MonthlyData{}
	for _, row := range costs {
		m := ledger.MonthStart(row.Month)
		costByMonth[m] = row
		if m.Before(start) {
			start = m
		}
	}

	clientByID := map[string]store.Client{}
	for _, c := range clients {
		clientByID[c.ID] = c
	}

	// ledger paid totals take precedence over the live join when present
	ledgerPaid := map[time.Time]decimal.Decimal{}
	for _, rec := range ledgerRecords {
		if ledger.NormalizeStatus(rec.Status) != ledger.StatusPaid {
			continue
		}
		m := ledger.MonthStart(rec.Month)
		ledgerPaid[m] = ledgerPaid[m].Add(rec.Amount)
	}

	livePaid := map[time.Time]decimal.Decimal{}
	for _, p := range payments {
		if p.Status != store.PaymentPaid {
			continue
		}
		owner, ok := clientByID[p.ClientID]
		if !ok {
			continue
		}
		m := ledger.MonthStart(p.Month)
		livePaid[m] = livePaid[m].Add(owner.Amount)
	}

	series := make([]MonthlyPerformance, 0, ledger.MonthsBetween(start, current)+1)
	for month := start; !month.After(current); month = ledger.AddMonths(month, 1) {
		expected := decimal.Zero
		for _, c := range clients {
			if c.Status != store.ClientActive {
				continue
			}
			if !ledger.MonthStart(c.StartDate).After(month) {
				expected = expected.Add(c.Amount)
			}
		}

		actual, fromLedger := ledgerPaid[month]
		if !fromLedger {
			actual = livePaid[month]
		}
		actual, outstanding, rate := e.policy.Apply(month, expected, actual)

		costRow := costByMonth[month] // zero value when absent
		series = append(series, MonthlyPerformance{
			Month:          month,
			Expected:       expected,
			Actual:         actual,
			Outstanding:    outstanding,
			CollectionRate: rate,
			Costs:          costRow.Costs,
			OpIncome:       actual.Sub(costRow.Costs),
		})
	}
	return series
}

// CollectionRates pairs each month of the series with the target rate.
func (e *Engine) CollectionRates(series []MonthlyPerformance) []RatePoint {
	out := make([]RatePoint, len(series))
	for i, p := range series {
		out[i] = RatePoint{Month: p.Month, Rate: p.CollectionRate, Target: config.CollectionTarget}
	}
	return out
}

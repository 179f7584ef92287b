package overdue

import (
	"sort"
	"time"

	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/store"

	"github.com/shopspring/decimal"
)

// OverdueClient is an active client whose payment history went quiet.
type OverdueClient struct {
	Client        store.Client    `json:"client"`
	LastPayment   time.Time       `json:"last_payment"`
	MonthsOverdue int             `json:"months_overdue"`
	AmountOwed    decimal.Decimal `json:"amount_owed"`
}

// Analyzer derives overdue state and lifetime totals from the historical
// ledger, alias-folding raw names the same way the processor does.
type Analyzer struct {
	norm *ledger.Normalizer
	now  func() time.Time
}

func NewAnalyzer(norm *ledger.Normalizer) *Analyzer {
	return &Analyzer{norm: norm, now: time.Now}
}

// WithClock injects a clock for tests.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// OverdueClients returns active clients that have paid at least once in the
// ledger but not within the trailing thresholdMonths window. Clients with no
// paid history are too new to judge and never appear. MonthsOverdue is the
// uncapped month delta from the most recent paid record to now.
func (a *Analyzer) OverdueClients(
	clients []store.Client,
	records []ledger.Record,
	thresholdMonths int,
) []OverdueClient {
	latestPaid := map[string]time.Time{}
	for _, rec := range records {
		if ledger.NormalizeStatus(rec.Status) != ledger.StatusPaid {
			continue
		}
		name := a.norm.Canonical(rec.ClientName)
		m := ledger.MonthStart(rec.Month)
		if m.After(latestPaid[name]) {
			latestPaid[name] = m
		}
	}

	nowMonth := ledger.MonthStart(a.now())
	windowStart := ledger.AddMonths(nowMonth, -thresholdMonths)

	out := []OverdueClient{}
	for _, c := range clients {
		if c.Status != store.ClientActive {
			continue
		}
		last, ok := latestPaid[c.Name]
		if !ok {
			// zero paid history: excluded, not overdue
			continue
		}
		if !last.Before(windowStart) {
			continue
		}
		months := ledger.MonthsBetween(last, nowMonth)
		out = append(out, OverdueClient{
			Client:        c,
			LastPayment:   last,
			MonthsOverdue: months,
			AmountOwed:    c.Amount.Mul(decimal.NewFromInt(int64(months))),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MonthsOverdue > out[j].MonthsOverdue
	})
	return out
}

// LifetimeValue sums the client's paid ledger amounts. When the ledger holds
// no paid rows for the name, it falls back to paid live rows times the
// current amount, an imprecise estimate since historical per-period amounts
// are not retained in the live store.
func (a *Analyzer) LifetimeValue(
	client store.Client,
	records []ledger.Record,
	paidLiveCount int,
) decimal.Decimal {
	total := decimal.Zero
	found := false
	for _, rec := range records {
		if ledger.NormalizeStatus(rec.Status) != ledger.StatusPaid {
			continue
		}
		if a.norm.Canonical(rec.ClientName) != client.Name {
			continue
		}
		total = total.Add(rec.Amount)
		found = true
	}
	if found {
		return total
	}
	return client.Amount.Mul(decimal.NewFromInt(int64(paidLiveCount)))
}

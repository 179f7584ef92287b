package metrics

import (
	"sort"
	"time"

	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/store"

	"github.com/shopspring/decimal"
)

// DistributionEntry is one client's slice of the current month's billing.
type DistributionEntry struct {
	ClientName string          `json:"client_name"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	IsPaid     bool            `json:"is_paid"`
}

// ClientDistribution lists the given month's payment rows joined to their
// clients, descending by amount. A paused client displays as paused no matter
// what its payment row says; rows without a resolvable client are skipped.
func (e *Engine) ClientDistribution(
	clients []store.Client,
	payments []store.PaymentRecord,
	month time.Time,
) []DistributionEntry {
	m := ledger.MonthStart(month)
	clientByID := map[string]store.Client{}
	for _, c := range clients {
		clientByID[c.ID] = c
	}
	out := []DistributionEntry{}
	for _, p := range payments {
		if !ledger.MonthStart(p.Month).Equal(m) {
			continue
		}
		owner, ok := clientByID[p.ClientID]
		if !ok {
			continue
		}
		status := p.Status
		if owner.Status == store.ClientPaused {
			status = store.ClientPaused
		}
		out = append(out, DistributionEntry{
			ClientName: owner.Name,
			Amount:     owner.Amount,
			Status:     status,
			IsPaid:     p.Status == store.PaymentPaid,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

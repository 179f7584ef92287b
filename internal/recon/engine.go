package recon

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"RevBoardSaas/internal/config"
	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Report summarizes one reconciliation run.
type Report struct {
	RanAt             time.Time       `json:"ran_at"`
	ClientsProcessed  int             `json:"clients_processed"`
	ClientsCreated    int             `json:"clients_created"`
	PaymentsProcessed int             `json:"payments_processed"`
	PaymentsDropped   int             `json:"payments_dropped"`
	FailedClients     []string        `json:"failed_clients,omitempty"`
	ExpectedRevenue   decimal.Decimal `json:"expected_revenue"`
	PaidRevenue       decimal.Decimal `json:"paid_revenue"`
	UnpaidClients     int             `json:"unpaid_clients"`
}

// Engine replaces live payment rows for the ledger-covered month range with
// ledger-derived truth and upserts the canonical client roster.
type Engine struct {
	store     store.Store
	batchSize int
	now       func() time.Time
}

func New(st store.Store) *Engine {
	return &Engine{store: st, batchSize: config.ResyncBatchSize, now: time.Now}
}

// WithBatchSize overrides the payment insert chunk size.
func (e *Engine) WithBatchSize(n int) *Engine {
	if n > 0 {
		e.batchSize = n
	}
	return e
}

// WithClock injects a clock for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Reconcile is idempotent: running it twice against an unchanged ledger
// produces the same client and payment sets. Client upsert failures are
// collected and skipped; a failure while replacing the covered payment range
// is fatal, since a half-replaced range must not go unnoticed.
func (e *Engine) Reconcile(ctx context.Context, out ledger.Output) (*Report, error) {
	report := &Report{
		RanAt:            e.now().UTC(),
		ClientsProcessed: len(out.Clients),
	}

	existing, err := e.store.Query(ctx, store.TableClients, nil, "name asc")
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	idByName := map[string]string{}
	for _, row := range existing {
		c, err := store.ClientFromRow(row)
		if err != nil {
			log.Printf("[WARN] reconcile: skipping unreadable client row: %v", err)
			continue
		}
		idByName[c.Name] = c.ID
	}

	// 1) upsert roster: amount and status follow the ledger, id and
	// start_date never change once assigned
	for _, c := range out.Clients {
		if id, ok := idByName[c.Name]; ok {
			err := e.store.Update(ctx, store.TableClients,
				store.Filter{"id": id},
				store.Row{"amount": c.Amount.InexactFloat64(), "status": c.Status})
			if err != nil {
				report.FailedClients = append(report.FailedClients, c.Name)
				log.Printf("[WARN] reconcile: update client %s failed: %v", c.Name, err)
			}
			continue
		}
		nc := store.Client{
			ID:        "C" + strings.ToUpper(uuid.New().String()[:8]),
			Name:      c.Name,
			Amount:    c.Amount,
			Status:    c.Status,
			StartDate: c.StartDate,
		}
		if err := e.store.Insert(ctx, store.TableClients, []store.Row{nc.Row()}); err != nil {
			report.FailedClients = append(report.FailedClients, c.Name)
			log.Printf("[WARN] reconcile: insert client %s failed: %v", c.Name, err)
			continue
		}
		idByName[c.Name] = nc.ID
		report.ClientsCreated++
	}

	if len(out.Payments) > 0 {
		// 2) covered month range
		minMonth, maxMonth := out.Payments[0].Month, out.Payments[0].Month
		for _, p := range out.Payments[1:] {
			if p.Month.Before(minMonth) {
				minMonth = p.Month
			}
			if p.Month.After(maxMonth) {
				maxMonth = p.Month
			}
		}

		// 3) destructive resync of the covered window
		err = e.store.Delete(ctx, store.TablePayments,
			store.Filter{"month >=": minMonth, "month <=": maxMonth})
		if err != nil {
			return nil, fmt.Errorf("clear payment range %s..%s: %w",
				minMonth.Format("2006-01"), maxMonth.Format("2006-01"), err)
		}

		// 4) re-insert in order, chunked
		rows := make([]store.Row, 0, len(out.Payments))
		for _, p := range out.Payments {
			clientID, ok := idByName[p.ClientName]
			if !ok {
				report.PaymentsDropped++
				continue
			}
			rec := store.PaymentRecord{
				ID:       uuid.New().String(),
				ClientID: clientID,
				Month:    p.Month,
				Status:   p.Status,
				Notes:    p.Notes,
			}
			if p.Status == store.PaymentPaid {
				d := p.Month
				rec.PaymentDate = &d
			}
			rows = append(rows, rec.Row())
		}
		for start := 0; start < len(rows); start += e.batchSize {
			end := start + e.batchSize
			if end > len(rows) {
				end = len(rows)
			}
			if err := e.store.Insert(ctx, store.TablePayments, rows[start:end]); err != nil {
				return nil, fmt.Errorf("insert payment batch %d-%d: %w", start, end, err)
			}
		}
		report.PaymentsProcessed = len(rows)
	}

	// 5) totals
	unpaidNames := map[string]bool{}
	for _, c := range out.Clients {
		if c.Status == ledger.ClientStatusActive {
			report.ExpectedRevenue = report.ExpectedRevenue.Add(c.Amount)
		}
	}
	for _, p := range out.Payments {
		switch p.Status {
		case store.PaymentPaid:
			report.PaidRevenue = report.PaidRevenue.Add(p.Amount)
		case store.PaymentUnpaid:
			unpaidNames[p.ClientName] = true
		}
	}
	report.UnpaidClients = len(unpaidNames)
	return report, nil
}

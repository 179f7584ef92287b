package api

import (
	"context"
	"log"
	"sync"

	"RevBoardSaas/internal/cache"
	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/store"
)

// Deps is the shared wiring handed to the billing and dash handler closures.
type Deps struct {
	Store store.Store
	Cache *cache.TableCache
}

var (
	ledgerOnce    sync.Once
	ledgerRecords []ledger.Record
)

// LedgerRecords returns the packaged historical ledger, loaded once per
// process. The dataset is immutable; re-imports go through the upload
// endpoint and never touch this copy.
func LedgerRecords() []ledger.Record {
	ledgerOnce.Do(func() {
		records, skipped, err := ledger.Load()
		if err != nil {
			log.Printf("[ERROR] packaged ledger unreadable: %v", err)
			return
		}
		if skipped > 0 {
			log.Printf("[WARN] packaged ledger: %d malformed rows skipped", skipped)
		}
		ledgerRecords = records
	})
	return ledgerRecords
}

// LoadClients reads the client roster through the cache.
func (d *Deps) LoadClients(ctx context.Context) ([]store.Client, error) {
	rows, err := d.Cache.Get(store.TableClients, func() ([]store.Row, error) {
		return d.Store.Query(ctx, store.TableClients, nil, "name asc")
	})
	if err != nil {
		return nil, err
	}
	clients := make([]store.Client, 0, len(rows))
	for _, row := range rows {
		c, err := store.ClientFromRow(row)
		if err != nil {
			log.Printf("[WARN] skipping unreadable client row: %v", err)
			continue
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// LoadPayments reads all payment rows through the cache.
func (d *Deps) LoadPayments(ctx context.Context) ([]store.PaymentRecord, error) {
	rows, err := d.Cache.Get(store.TablePayments, func() ([]store.Row, error) {
		return d.Store.Query(ctx, store.TablePayments, nil, "month asc")
	})
	if err != nil {
		return nil, err
	}
	payments := make([]store.PaymentRecord, 0, len(rows))
	for _, row := range rows {
		p, err := store.PaymentFromRow(row)
		if err != nil {
			log.Printf("[WARN] skipping unreadable payment row: %v", err)
			continue
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// LoadMonthlyData reads the cost/revenue series through the cache.
func (d *Deps) LoadMonthlyData(ctx context.Context) ([]store.MonthlyData, error) {
	rows, err := d.Cache.Get(store.TableMonthly, func() ([]store.Row, error) {
		return d.Store.Query(ctx, store.TableMonthly, nil, "month asc")
	})
	if err != nil {
		return nil, err
	}
	series := make([]store.MonthlyData, 0, len(rows))
	for _, row := range rows {
		m, err := store.MonthlyDataFromRow(row)
		if err != nil {
			log.Printf("[WARN] skipping unreadable monthly_data row: %v", err)
			continue
		}
		series = append(series, m)
	}
	return series, nil
}

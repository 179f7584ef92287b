package jobs

import (
	"context"
	"fmt"
	"log"

	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/recon"
	"RevBoardSaas/internal/store"
)

// RunLedgerResync loads the packaged ledger, processes it and reconciles the
// live store against it. Shared by the cron schedule and the manual
// /billing/reconcile endpoint.
func RunLedgerResync(st store.Store) (*recon.Report, error) {
	records, skipped, err := ledger.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if skipped > 0 {
		log.Printf("[Resync] %d malformed ledger rows skipped", skipped)
	}
	processor := ledger.NewProcessor(ledger.NewNormalizer(ledger.DefaultAliases()))
	out := processor.Process(records)
	return recon.New(st).Reconcile(context.Background(), out)
}

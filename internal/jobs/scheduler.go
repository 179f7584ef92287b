package jobs

import (
	"fmt"
	"log"
	"time"

	"RevBoardSaas/internal/cache"
	"RevBoardSaas/internal/config"
	"RevBoardSaas/internal/logger"
	"RevBoardSaas/internal/serviceiface"
	"RevBoardSaas/internal/store"

	"github.com/robfig/cron/v3"
)

// CronService schedules the nightly ledger resync.
type CronService struct {
	cfg   map[string]interface{}
	store store.Store
	cache *cache.TableCache
	cron  *cron.Cron
}

func NewCronService(cfg map[string]interface{}, st store.Store, tc *cache.TableCache) serviceiface.Service {
	return &CronService{cfg: cfg, store: st, cache: tc}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	schedule := config.DefaultResyncSchedule
	if s.cfg != nil {
		if v, ok := s.cfg["resync_schedule"].(string); ok && v != "" {
			schedule = v
		}
	}

	loc, err := time.LoadLocation(config.DefaultTimeZone)
	if err != nil {
		loc = time.UTC
	}
	s.cron = cron.New(cron.WithLocation(loc))

	_, err = s.cron.AddFunc(schedule, func() {
		log.Println("[Cron] Ledger resync starting")
		err := RetryWithBackoff(3, 30*time.Second, func() error {
			report, err := RunLedgerResync(s.store)
			if err != nil {
				return err
			}
			if s.cache != nil {
				s.cache.Invalidate(store.TableClients, store.TablePayments)
			}
			msg := fmt.Sprintf("Ledger resync: %d clients, %d payments, %d dropped",
				report.ClientsProcessed, report.PaymentsProcessed, report.PaymentsDropped)
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(msg)
			}
			log.Println("[Cron]", msg)
			return nil
		})
		if err != nil {
			log.Printf("[Cron][ERROR] Ledger resync failed after retries: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule ledger resync: %v", err)
	}

	s.cron.Start()
	log.Println("Cron service started, ledger resync scheduled", schedule)
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Println("Cron service stopped.")
	return nil
}

// RetryWithBackoff retries fn with doubling delays.
func RetryWithBackoff(maxRetries int, initialDelay time.Duration, fn func() error) error {
	var lastErr error
	delay := initialDelay
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		log.Printf("[Cron] attempt %d failed: %v", attempt+1, lastErr)
	}
	return lastErr
}

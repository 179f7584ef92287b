package config

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultTimeZone = "Asia/Kolkata"

	// ResyncBatchSize bounds each payment insert batch during a ledger resync.
	ResyncBatchSize = 200

	// DefaultResyncSchedule runs the nightly ledger resync at 02:30.
	DefaultResyncSchedule = "30 2 * * *"

	// TrailingMonths is the minimum window of the monthly performance series.
	TrailingMonths = 24

	// CollectionTarget is the collection-rate target percentage shown on charts.
	CollectionTarget = 90

	// OverdueThresholdMonths is the default trailing window for overdue checks.
	OverdueThresholdMonths = 2
)

// Billing cutover policy. Months strictly before HistoricalCutover report a
// 100% collection rate with actual pinned to expected. The two transition
// months report TransitionActual as collected. From RealCutover onward the
// rate is computed from live payment rows.
var (
	HistoricalCutover = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	TransitionMonths  = [2]time.Time{
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
	TransitionActual = decimal.RequireFromString("11700")
	RealCutover      = time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
)

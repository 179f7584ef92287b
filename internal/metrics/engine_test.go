package metrics

import (
	"testing"
	"time"

	"RevBoardSaas/internal/config"
	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, time.June, 15, 9, 30, 0, 0, time.UTC)
}

func testEngine() *Engine {
	return NewEngine(DefaultPolicy()).WithClock(fixedClock)
}

func findMonth(t *testing.T, series []MonthlyPerformance, m time.Time) MonthlyPerformance {
	t.Helper()
	for _, p := range series {
		if p.Month.Equal(m) {
			return p
		}
	}
	t.Fatalf("month %s not in series", m.Format("2006-01"))
	return MonthlyPerformance{}
}

func TestPerformanceWindowEndsAtCurrentMonth(t *testing.T) {
	series := testEngine().ComputeMonthlyPerformance(nil, nil, nil, nil)
	require.Len(t, series, config.TrailingMonths)
	assert.Equal(t, month(2023, 7), series[0].Month)
	assert.Equal(t, month(2025, 6), series[len(series)-1].Month)
}

func TestPerformanceWindowExtendsToEarliestCostRow(t *testing.T) {
	costs := []store.MonthlyData{
		{Month: month(2023, 1), Costs: decimal.NewFromInt(400), Revenue: decimal.NewFromInt(900)},
	}
	series := testEngine().ComputeMonthlyPerformance(nil, nil, costs, nil)
	assert.Equal(t, month(2023, 1), series[0].Month)
	assert.Equal(t, month(2025, 6), series[len(series)-1].Month)
}

func TestPerformanceExpectedRespectsStartDate(t *testing.T) {
	clients := []store.Client{
		{ID: "c1", Name: "Early", Amount: decimal.NewFromInt(500), Status: store.ClientActive, StartDate: month(2023, 7)},
		{ID: "c2", Name: "Late", Amount: decimal.NewFromInt(300), Status: store.ClientActive, StartDate: month(2025, 6)},
		{ID: "c3", Name: "Gone", Amount: decimal.NewFromInt(900), Status: store.ClientChurned, StartDate: month(2023, 7)},
	}
	series := testEngine().ComputeMonthlyPerformance(clients, nil, nil, nil)

	may := findMonth(t, series, month(2025, 5))
	assert.True(t, may.Expected.Equal(decimal.NewFromInt(500)))

	june := findMonth(t, series, month(2025, 6))
	assert.True(t, june.Expected.Equal(decimal.NewFromInt(800)))
}

func TestPerformanceLedgerPaidPreferredOverLiveJoin(t *testing.T) {
	clients := []store.Client{
		{ID: "c1", Name: "Acme", Amount: decimal.NewFromInt(500), Status: store.ClientActive, StartDate: month(2023, 7)},
	}
	m := month(2025, 6)
	payments := []store.PaymentRecord{
		{ID: "p1", ClientID: "c1", Month: m, Status: store.PaymentPaid},
	}
	records := []ledger.Record{
		{ClientName: "Acme", Month: m, Amount: decimal.NewFromInt(725), Status: ledger.StatusPaid},
	}

	series := testEngine().ComputeMonthlyPerformance(clients, payments, nil, records)
	june := findMonth(t, series, m)
	assert.True(t, june.Actual.Equal(decimal.NewFromInt(725)))
}

func TestPerformanceFallsBackToLiveJoin(t *testing.T) {
	clients := []store.Client{
		{ID: "c1", Name: "Acme", Amount: decimal.NewFromInt(500), Status: store.ClientActive, StartDate: month(2023, 7)},
	}
	m := month(2025, 6)
	payments := []store.PaymentRecord{
		{ID: "p1", ClientID: "c1", Month: m, Status: store.PaymentPaid},
		{ID: "p2", ClientID: "orphan", Month: m, Status: store.PaymentPaid},
	}

	series := testEngine().ComputeMonthlyPerformance(clients, payments, nil, nil)
	june := findMonth(t, series, m)
	// the orphan row has no owner to price it and contributes nothing
	assert.True(t, june.Actual.Equal(decimal.NewFromInt(500)))
}

func TestPerformanceMissingCostMonthGetsZeroCosts(t *testing.T) {
	clients := []store.Client{
		{ID: "c1", Name: "Acme", Amount: decimal.NewFromInt(500), Status: store.ClientActive, StartDate: month(2023, 7)},
	}
	m := month(2025, 6)
	records := []ledger.Record{
		{ClientName: "Acme", Month: m, Amount: decimal.NewFromInt(500), Status: ledger.StatusPaid},
	}
	series := testEngine().ComputeMonthlyPerformance(clients, nil, nil, records)
	june := findMonth(t, series, m)
	assert.True(t, june.Costs.IsZero())
	assert.True(t, june.OpIncome.Equal(decimal.NewFromInt(500)))
}

func TestCollectionRatesCarryTarget(t *testing.T) {
	series := []MonthlyPerformance{
		{Month: month(2025, 5), CollectionRate: 80},
		{Month: month(2025, 6), CollectionRate: 95},
	}
	points := testEngine().CollectionRates(series)
	require.Len(t, points, 2)
	assert.Equal(t, float64(config.CollectionTarget), points[0].Target)
	assert.Equal(t, float64(80), points[0].Rate)
}

func TestGrowthTrendsZeroGuard(t *testing.T) {
	series := []MonthlyPerformance{
		{Month: month(2025, 4), Actual: decimal.Zero, OpIncome: decimal.Zero},
		{Month: month(2025, 5), Actual: decimal.NewFromInt(100), OpIncome: decimal.NewFromInt(50)},
		{Month: month(2025, 6), Actual: decimal.NewFromInt(150), OpIncome: decimal.NewFromInt(25)},
	}
	points := testEngine().GrowthTrends(series)
	require.Len(t, points, 2)

	// zero previous month yields 0, not a blowup
	assert.Equal(t, float64(0), points[0].RevenueGrowth)
	assert.Equal(t, float64(50), points[1].RevenueGrowth)
	assert.Equal(t, float64(-50), points[1].MarginGrowth)
}

func TestGrowthTrendsNeedsTwoMonths(t *testing.T) {
	points := testEngine().GrowthTrends([]MonthlyPerformance{{Month: month(2025, 6)}})
	assert.Nil(t, points)
}

func TestMarginTrendsLastTwelveWithOverride(t *testing.T) {
	costs := []store.MonthlyData{}
	for i := 0; i < 15; i++ {
		costs = append(costs, store.MonthlyData{
			Month:   ledger.AddMonths(month(2024, 4), i),
			Costs:   decimal.NewFromInt(1000),
			Revenue: decimal.NewFromInt(5000),
		})
	}

	points := testEngine().MarginTrends(costs)
	require.Len(t, points, 12)
	assert.Equal(t, month(2024, 7), points[0].Month)
	assert.Equal(t, month(2025, 6), points[11].Month)

	march := points[8]
	require.Equal(t, month(2025, 3), march.Month)
	assert.True(t, march.Revenue.Equal(config.TransitionActual))
	assert.True(t, march.Margin.Equal(config.TransitionActual.Sub(decimal.NewFromInt(1000))))

	jan := points[6]
	require.Equal(t, month(2025, 1), jan.Month)
	assert.True(t, jan.Revenue.Equal(decimal.NewFromInt(5000)))
	assert.True(t, jan.Margin.Equal(decimal.NewFromInt(4000)))
}

func TestSeasonalPatternsAverageAcrossYears(t *testing.T) {
	costs := []store.MonthlyData{
		{Month: month(2023, 6), Revenue: decimal.NewFromInt(100)},
		{Month: month(2024, 6), Revenue: decimal.NewFromInt(300)},
		{Month: month(2024, 9), Revenue: decimal.NewFromInt(700)},
	}
	out := testEngine().SeasonalPatterns(costs)
	require.Len(t, out, 2)

	assert.Equal(t, 6, out[0].MonthOfYear)
	assert.True(t, out[0].AvgRevenue.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 2, out[0].Samples)

	assert.Equal(t, 9, out[1].MonthOfYear)
	assert.True(t, out[1].AvgRevenue.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, 1, out[1].Samples)
}

func TestClientDistributionSortAndPausedOverride(t *testing.T) {
	clients := []store.Client{
		{ID: "c1", Name: "Big", Amount: decimal.NewFromInt(900), Status: store.ClientActive},
		{ID: "c2", Name: "Small", Amount: decimal.NewFromInt(100), Status: store.ClientPaused},
	}
	m := month(2025, 6)
	payments := []store.PaymentRecord{
		{ID: "p1", ClientID: "c2", Month: m, Status: store.PaymentPaid},
		{ID: "p2", ClientID: "c1", Month: m, Status: store.PaymentUnpaid},
		{ID: "p3", ClientID: "ghost", Month: m, Status: store.PaymentPaid},
		{ID: "p4", ClientID: "c1", Month: month(2025, 5), Status: store.PaymentPaid},
	}

	out := testEngine().ClientDistribution(clients, payments, m)
	require.Len(t, out, 2)

	assert.Equal(t, "Big", out[0].ClientName)
	assert.Equal(t, store.PaymentUnpaid, out[0].Status)
	assert.False(t, out[0].IsPaid)

	assert.Equal(t, "Small", out[1].ClientName)
	assert.Equal(t, store.ClientPaused, out[1].Status)
	assert.True(t, out[1].IsPaid)
}

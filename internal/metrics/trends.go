package metrics

import (
	"sort"
	"time"

	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/store"

	"github.com/shopspring/decimal"
)

// GrowthPoint is the month-over-month percentage change of collected revenue
// and operating income.
type GrowthPoint struct {
	Month         time.Time `json:"month"`
	RevenueGrowth float64   `json:"revenue_growth"`
	MarginGrowth  float64   `json:"margin_growth"`
}

// MarginPoint is one override-adjusted row of the cost series.
type MarginPoint struct {
	Month   time.Time       `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Costs   decimal.Decimal `json:"costs"`
	Margin  decimal.Decimal `json:"margin"`
}

// SeasonalAverage is the mean revenue for one calendar month across all years
// present in the cost series.
type SeasonalAverage struct {
	MonthOfYear int             `json:"month_of_year"`
	AvgRevenue  decimal.Decimal `json:"avg_revenue"`
	Samples     int             `json:"samples"`
}

// GrowthTrends computes percentage deltas between consecutive months. A zero
// previous value yields 0, never a division blowup.
func (e *Engine) GrowthTrends(series []MonthlyPerformance) []GrowthPoint {
	if len(series) < 2 {
		return nil
	}
	out := make([]GrowthPoint, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1], series[i]
		out = append(out, GrowthPoint{
			Month:         curr.Month,
			RevenueGrowth: pctChange(prev.Actual, curr.Actual),
			MarginGrowth:  pctChange(prev.OpIncome, curr.OpIncome),
		})
	}
	return out
}

// MarginTrends returns the last 12 cost-series rows ascending by month, with
// the transition-month revenue override applied and margin recomputed.
func (e *Engine) MarginTrends(costs []store.MonthlyData) []MarginPoint {
	rows := make([]store.MonthlyData, len(costs))
	copy(rows, costs)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month.Before(rows[j].Month) })
	if len(rows) > 12 {
		rows = rows[len(rows)-12:]
	}
	out := make([]MarginPoint, len(rows))
	for i, row := range rows {
		month := ledger.MonthStart(row.Month)
		revenue := e.policy.AdjustRevenue(month, row.Revenue)
		out[i] = MarginPoint{
			Month:   month,
			Revenue: revenue,
			Costs:   row.Costs,
			Margin:  revenue.Sub(row.Costs),
		}
	}
	return out
}

// SeasonalPatterns averages override-adjusted revenue per calendar month
// across every year in the cost series. Months with no data are omitted, not
// fabricated.
func (e *Engine) SeasonalPatterns(costs []store.MonthlyData) []SeasonalAverage {
	sums := map[int]decimal.Decimal{}
	counts := map[int]int{}
	for _, row := range costs {
		month := ledger.MonthStart(row.Month)
		moy := int(month.Month())
		sums[moy] = sums[moy].Add(e.policy.AdjustRevenue(month, row.Revenue))
		counts[moy]++
	}
	out := []SeasonalAverage{}
	for moy := 1; moy <= 12; moy++ {
		n := counts[moy]
		if n == 0 {
			continue
		}
		out = append(out, SeasonalAverage{
			MonthOfYear: moy,
			AvgRevenue:  sums[moy].Div(decimal.NewFromInt(int64(n))).Round(2),
			Samples:     n,
		})
	}
	return out
}

func pctChange(prev, curr decimal.Decimal) float64 {
	if prev.IsZero() {
		return 0
	}
	v, _ := curr.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return v
}

package dash

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"RevBoardSaas/api"
	"RevBoardSaas/api/constants"
	"RevBoardSaas/internal/config"
	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/metrics"
	"RevBoardSaas/internal/overdue"
	"RevBoardSaas/internal/store"
)

// GetMonthlyPerformance returns the trailing monthly series plus the
// collection-rate chart points.
func GetMonthlyPerformance(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := loadState(r.Context(), deps)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		engine := metrics.NewEngine(metrics.DefaultPolicy())
		series := engine.ComputeMonthlyPerformance(state.Clients, state.Payments, state.Costs, api.LedgerRecords())
		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"performance":          series,
			"collection_rates":     engine.CollectionRates(series),
		})
	}
}

// GetTrends returns month-over-month growth plus the last-12-months margin view.
func GetTrends(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := loadState(r.Context(), deps)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		engine := metrics.NewEngine(metrics.DefaultPolicy())
		series := engine.ComputeMonthlyPerformance(state.Clients, state.Payments, state.Costs, api.LedgerRecords())
		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"growth":               engine.GrowthTrends(series),
			"margins":              engine.MarginTrends(state.Costs),
		})
	}
}

// GetSeasonalPatterns returns the month-of-year revenue averages.
func GetSeasonalPatterns(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := loadState(r.Context(), deps)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		engine := metrics.NewEngine(metrics.DefaultPolicy())
		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"seasonal":             engine.SeasonalPatterns(state.Costs),
		})
	}
}

// GetClientDistribution returns the requested month's per-client billing
// slices, defaulting to the current month.
func GetClientDistribution(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Month string `json:"month,omitempty"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		month := ledger.MonthStart(time.Now().UTC())
		if req.Month != "" {
			if m, ok := ledger.ParseMonth(req.Month); ok {
				month = m
			}
		}
		state, err := loadState(r.Context(), deps)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		engine := metrics.NewEngine(metrics.DefaultPolicy())
		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"month":                month.Format(constants.MonthFormat),
			"distribution":         engine.ClientDistribution(state.Clients, state.Payments, month),
		})
	}
}

// GetOverdueClients returns active clients with stale payment history,
// including each client's ledger-derived lifetime value.
func GetOverdueClients(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ThresholdMonths int `json:"threshold_months,omitempty"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		threshold := req.ThresholdMonths
		if threshold <= 0 {
			threshold = config.OverdueThresholdMonths
		}

		state, err := loadState(r.Context(), deps)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		records := api.LedgerRecords()
		analyzer := overdue.NewAnalyzer(ledger.NewNormalizer(ledger.DefaultAliases()))
		list := analyzer.OverdueClients(state.Clients, records, threshold)

		paidCounts := map[string]int{}
		for _, p := range state.Payments {
			if p.Status == store.PaymentPaid {
				paidCounts[p.ClientID]++
			}
		}
		type entry struct {
			Client        string `json:"client"`
			Amount        string `json:"amount"`
			LastPayment   string `json:"last_payment"`
			MonthsOverdue string `json:"months_overdue"`
			AmountOwed    string `json:"amount_owed"`
			LifetimeValue string `json:"lifetime_value"`
		}
		out := make([]entry, 0, len(list))
		for _, oc := range list {
			ltv := analyzer.LifetimeValue(oc.Client, records, paidCounts[oc.Client.ID])
			out = append(out, entry{
				Client:        oc.Client.Name,
				Amount:        oc.Client.Amount.StringFixed(2),
				LastPayment:   oc.LastPayment.Format(constants.MonthFormat),
				MonthsOverdue: strconv.Itoa(oc.MonthsOverdue),
				AmountOwed:    oc.AmountOwed.StringFixed(2),
				LifetimeValue: ltv.StringFixed(2),
			})
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"threshold_months":     threshold,
			"overdue":              out,
		})
	}
}

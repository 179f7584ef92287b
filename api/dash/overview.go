package dash

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"RevBoardSaas/api"
	"RevBoardSaas/api/constants"
	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/metrics"
	"RevBoardSaas/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
	w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{constants.ValueSuccess: false, constants.ValueError: msg})
}

type dashState struct {
	Clients  []store.Client
	Payments []store.PaymentRecord
	Costs    []store.MonthlyData
}

func loadState(ctx context.Context, deps *api.Deps) (*dashState, error) {
	clients, err := deps.LoadClients(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := deps.LoadPayments(ctx)
	if err != nil {
		return nil, err
	}
	costs, err := deps.LoadMonthlyData(ctx)
	if err != nil {
		return nil, err
	}
	return &dashState{Clients: clients, Payments: payments, Costs: costs}, nil
}

// GetOverview returns the landing KPIs for the current month: expected and
// collected revenue, collection rate, outstanding, and roster counts.
func GetOverview(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := loadState(r.Context(), deps)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		engine := metrics.NewEngine(metrics.DefaultPolicy())
		series := engine.ComputeMonthlyPerformance(state.Clients, state.Payments, state.Costs, api.LedgerRecords())
		if len(series) == 0 {
			writeError(w, http.StatusInternalServerError, "empty performance series")
			return
		}
		current := series[len(series)-1]

		activeClients := 0
		pausedClients := 0
		for _, c := range state.Clients {
			switch c.Status {
			case store.ClientActive:
				activeClients++
			case store.ClientPaused:
				pausedClients++
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"month":                ledger.MonthStart(time.Now().UTC()).Format(constants.MonthFormat),
			"kpis": []map[string]interface{}{
				{"title": "Expected Revenue", "value": current.Expected},
				{"title": "Collected Revenue", "value": current.Actual},
				{"title": "Outstanding", "value": current.Outstanding},
				{"title": "Collection Rate", "value": current.CollectionRate},
				{"title": "Operating Income", "value": current.OpIncome},
			},
			"active_clients": activeClients,
			"paused_clients": pausedClients,
			"total_clients":  len(state.Clients),
		})
	}
}

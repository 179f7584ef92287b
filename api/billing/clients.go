package billing

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"RevBoardSaas/api"
	"RevBoardSaas/api/constants"
	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func writeJSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
	w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{constants.ValueSuccess: false, constants.ValueError: msg})
}

// CreateClient adds a client to the roster with today's month as start date
// unless one is supplied.
func CreateClient(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name      string  `json:"name"`
			Amount    float64 `json:"amount"`
			Status    string  `json:"status,omitempty"`
			StartDate string  `json:"start_date,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, constants.ErrNameRequired)
			return
		}
		status := req.Status
		if status == "" {
			status = store.ClientActive
		}
		start := ledger.MonthStart(time.Now().UTC())
		if req.StartDate != "" {
			if m, ok := ledger.ParseMonth(req.StartDate); ok {
				start = m
			}
		}

		ctx := r.Context()
		// name is unique among live clients
		existing, err := deps.Store.Query(ctx, store.TableClients, store.Filter{"name": name}, "")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(existing) > 0 {
			writeError(w, http.StatusConflict, "client already exists: "+name)
			return
		}

		client := store.Client{
			ID:        "C" + strings.ToUpper(uuid.New().String()[:8]),
			Name:      name,
			Amount:    decimal.NewFromFloat(req.Amount),
			Status:    status,
			StartDate: start,
		}
		deps.Cache.Invalidate(store.TableClients)
		if err := deps.Store.Insert(ctx, store.TableClients, []store.Row{client.Row()}); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"client_id":            client.ID,
			"name":                 client.Name,
		})
	}
}

// DeleteClient removes a client and all of its payment rows.
func DeleteClient(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClientID string `json:"client_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientID == "" {
			writeError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		ctx := r.Context()
		deps.Cache.Invalidate(store.TableClients, store.TablePayments)
		// cascade before the client row so a failure leaves the client visible
		if err := deps.Store.Delete(ctx, store.TablePayments, store.Filter{"client_id": req.ClientID}); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := deps.Store.Delete(ctx, store.TableClients, store.Filter{"id": req.ClientID}); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{constants.ValueSuccess: true})
	}
}

// UpdateClientAmount changes what the client is billed going forward. Past
// payment rows are untouched.
func UpdateClientAmount(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClientID string  `json:"client_id"`
			Amount   float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientID == "" {
			writeError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if req.Amount < 0 {
			writeError(w, http.StatusBadRequest, "amount must be >= 0")
			return
		}
		deps.Cache.Invalidate(store.TableClients)
		err := deps.Store.Update(r.Context(), store.TableClients,
			store.Filter{"id": req.ClientID}, store.Row{"amount": req.Amount})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{constants.ValueSuccess: true})
	}
}

var validClientStatuses = map[string]bool{
	store.ClientActive:  true,
	store.ClientPaused:  true,
	store.ClientHidden:  true,
	store.ClientChurned: true,
}

// UpdateClientStatus moves a client between active/paused/hidden/churned.
func UpdateClientStatus(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClientID string `json:"client_id"`
			Status   string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientID == "" {
			writeError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		status := strings.ToLower(strings.TrimSpace(req.Status))
		if !validClientStatuses[status] {
			writeError(w, http.StatusBadRequest, "unknown status: "+req.Status)
			return
		}
		deps.Cache.Invalidate(store.TableClients)
		err := deps.Store.Update(r.Context(), store.TableClients,
			store.Filter{"id": req.ClientID}, store.Row{"status": status})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{constants.ValueSuccess: true})
	}
}

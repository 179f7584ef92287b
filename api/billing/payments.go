package billing

import (
	"encoding/json"
	"net/http"
	"time"

	"RevBoardSaas/api"
	"RevBoardSaas/api/constants"
	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/store"

	"github.com/google/uuid"
)

// TogglePayment flips a payment row between paid and unpaid, stamping or
// clearing the payment date.
func TogglePayment(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClientID string `json:"client_id"`
			Month    string `json:"month"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientID == "" {
			writeError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		month, ok := ledger.ParseMonth(req.Month)
		if !ok {
			writeError(w, http.StatusBadRequest, constants.ErrMonthRequired)
			return
		}

		ctx := r.Context()
		rows, err := deps.Store.Query(ctx, store.TablePayments,
			store.Filter{"client_id": req.ClientID, "month": month}, "")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(rows) == 0 {
			writeError(w, http.StatusNotFound, constants.ErrPaymentNotFound)
			return
		}
		current, err := store.PaymentFromRow(rows[0])
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		patch := store.Row{}
		var newStatus string
		if current.Status == store.PaymentPaid {
			newStatus = store.PaymentUnpaid
			patch["status"] = newStatus
			patch["payment_date"] = nil
		} else {
			newStatus = store.PaymentPaid
			patch["status"] = newStatus
			patch["payment_date"] = time.Now().UTC()
		}

		deps.Cache.Invalidate(store.TablePayments)
		err = deps.Store.Update(ctx, store.TablePayments,
			store.Filter{"client_id": req.ClientID, "month": month}, patch)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"status":               newStatus,
		})
	}
}

// UpdatePaymentNote sets the free-text note on a payment row.
func UpdatePaymentNote(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClientID string `json:"client_id"`
			Month    string `json:"month"`
			Notes    string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientID == "" {
			writeError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		month, ok := ledger.ParseMonth(req.Month)
		if !ok {
			writeError(w, http.StatusBadRequest, constants.ErrMonthRequired)
			return
		}
		deps.Cache.Invalidate(store.TablePayments)
		err := deps.Store.Update(r.Context(), store.TablePayments,
			store.Filter{"client_id": req.ClientID, "month": month},
			store.Row{"notes": req.Notes})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{constants.ValueSuccess: true})
	}
}

// BackfillMonth creates an unpaid row for every non-hidden client that has no
// payment record for the month yet. The dashboard calls this when a month is
// first viewed.
func BackfillMonth(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Month string `json:"month"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		month, ok := ledger.ParseMonth(req.Month)
		if !ok {
			writeError(w, http.StatusBadRequest, constants.ErrMonthRequired)
			return
		}

		ctx := r.Context()
		deps.Cache.Invalidate(store.TablePayments)
		clients, err := deps.LoadClients(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		existing, err := deps.Store.Query(ctx, store.TablePayments,
			store.Filter{"month": month}, "")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		have := map[string]bool{}
		for _, row := range existing {
			p, err := store.PaymentFromRow(row)
			if err != nil {
				continue
			}
			have[p.ClientID] = true
		}

		created := []store.Row{}
		for _, c := range clients {
			if c.Status == store.ClientHidden || have[c.ID] {
				continue
			}
			rec := store.PaymentRecord{
				ID:       uuid.New().String(),
				ClientID: c.ID,
				Month:    month,
				Status:   store.PaymentUnpaid,
			}
			created = append(created, rec.Row())
		}
		if len(created) > 0 {
			deps.Cache.Invalidate(store.TablePayments)
			if err := deps.Store.Insert(ctx, store.TablePayments, created); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"created":              len(created),
			"month":                month.Format(constants.MonthFormat),
		})
	}
}

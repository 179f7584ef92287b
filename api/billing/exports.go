package billing

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"RevBoardSaas/api"
	"RevBoardSaas/api/constants"
	"RevBoardSaas/internal/config"
	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/overdue"
	"RevBoardSaas/internal/store"

	"github.com/xuri/excelize/v2"
)

var paymentExportHeader = []string{"client", "month", "amount", "status", "payment_date", "notes"}

func paymentExportRows(clients []store.Client, payments []store.PaymentRecord) [][]string {
	byID := map[string]store.Client{}
	for _, c := range clients {
		byID[c.ID] = c
	}
	rows := [][]string{}
	for _, p := range payments {
		owner, ok := byID[p.ClientID]
		if !ok {
			continue
		}
		status := p.Status
		if owner.Status == store.ClientPaused {
			status = store.ClientPaused
		}
		paidDate := ""
		if p.PaymentDate != nil {
			paidDate = p.PaymentDate.Format(constants.DateFormat)
		}
		rows = append(rows, []string{
			owner.Name,
			p.Month.Format(constants.MonthFormat),
			owner.Amount.StringFixed(2),
			status,
			paidDate,
			p.Notes,
		})
	}
	return rows
}

// ExportPaymentsCSV streams the full payment snapshot.
func ExportPaymentsCSV(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clients, err := deps.LoadClients(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		payments, err := deps.LoadPayments(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeCSV)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=payments_%s.csv", time.Now().UTC().Format("20060102")))
		cw := csv.NewWriter(w)
		cw.Write(paymentExportHeader)
		for _, row := range paymentExportRows(clients, payments) {
			cw.Write(row)
		}
		cw.Flush()
	}
}

// ExportOverdueCSV streams the overdue-client list. The trailing window
// defaults to the configured threshold; override with ?threshold=N.
func ExportOverdueCSV(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold := config.OverdueThresholdMonths
		if v := r.URL.Query().Get("threshold"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				threshold = n
			}
		}
		clients, err := deps.LoadClients(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		analyzer := overdue.NewAnalyzer(ledger.NewNormalizer(ledger.DefaultAliases()))
		list := analyzer.OverdueClients(clients, api.LedgerRecords(), threshold)

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeCSV)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=overdue_%s.csv", time.Now().UTC().Format("20060102")))
		cw := csv.NewWriter(w)
		cw.Write([]string{"client", "monthly_amount", "last_payment", "months_overdue", "amount_owed"})
		for _, oc := range list {
			cw.Write([]string{
				oc.Client.Name,
				oc.Client.Amount.StringFixed(2),
				oc.LastPayment.Format(constants.MonthFormat),
				strconv.Itoa(oc.MonthsOverdue),
				oc.AmountOwed.StringFixed(2),
			})
		}
		cw.Flush()
	}
}

// ExportPaymentsXLSX writes the payment snapshot as a workbook.
func ExportPaymentsXLSX(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clients, err := deps.LoadClients(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		payments, err := deps.LoadPayments(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		f := excelize.NewFile()
		sheet := "Payments"
		f.SetSheetName(f.GetSheetName(0), sheet)
		for col, h := range paymentExportHeader {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet, cell, h)
		}
		for i, row := range paymentExportRows(clients, payments) {
			for col, val := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
				f.SetCellValue(sheet, cell, val)
			}
		}

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeXLSX)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=payments_%s.xlsx", time.Now().UTC().Format("20060102")))
		if err := f.Write(w); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

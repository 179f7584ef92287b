package billing

import (
	"net/http"
	"path/filepath"
	"strings"

	"RevBoardSaas/api"
	"RevBoardSaas/api/constants"
	"RevBoardSaas/internal/jobs"
	"RevBoardSaas/internal/ledger"
	"RevBoardSaas/internal/logger"
	"RevBoardSaas/internal/recon"
	"RevBoardSaas/internal/store"
)

// RunReconciliation resyncs the live store from the packaged ledger and
// returns the report.
func RunReconciliation(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Cache.Invalidate(store.TableClients, store.TablePayments)
		report, err := jobs.RunLedgerResync(deps.Store)
		if err != nil {
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogError("manual reconcile failed", err)
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"report":               report,
		})
	}
}

// UploadLedger accepts a replacement ledger file (csv/xls/xlsx), processes it
// and reconciles the live store against it. The packaged dataset is not
// modified; this is a one-off resync from the uploaded rows.
func UploadLedger(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "Failed to parse multipart form")
			return
		}
		files := r.MultipartForm.File["file"]
		if len(files) == 0 {
			writeError(w, http.StatusBadRequest, "No files uploaded")
			return
		}
		fileHeader := files[0]
		file, err := fileHeader.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to open file: "+fileHeader.Filename)
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		records, skipped, err := ledger.ParseFile(file, ext)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid ledger file: "+err.Error())
			return
		}

		processor := ledger.NewProcessor(ledger.NewNormalizer(ledger.DefaultAliases()))
		out := processor.Process(records)

		deps.Cache.Invalidate(store.TableClients, store.TablePayments)
		report, err := recon.New(deps.Store).Reconcile(r.Context(), out)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			constants.ValueSuccess: true,
			"rows_skipped":         skipped + out.Skipped,
			"report":               report,
		})
	}
}

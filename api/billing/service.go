package billing

import (
	"log"
	"net/http"

	"RevBoardSaas/api"
	"RevBoardSaas/internal/serviceiface"

	"github.com/gorilla/mux"
)

type BillingService struct {
	config map[string]interface{}
	deps   *api.Deps
}

func NewBillingService(cfg map[string]interface{}, deps *api.Deps) serviceiface.Service {
	return &BillingService{config: cfg, deps: deps}
}

func (s *BillingService) Name() string {
	return "billing"
}

func (s *BillingService) Start() error {
	go StartBillingService(s.deps)
	return nil
}

func (s *BillingService) Stop() error {
	return nil
}

func StartBillingService(deps *api.Deps) {
	router := mux.NewRouter()

	router.HandleFunc("/billing/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from Billing Service"))
	}).Methods("GET")

	router.HandleFunc("/billing/clients/create", CreateClient(deps)).Methods("POST")
	router.HandleFunc("/billing/clients/delete", DeleteClient(deps)).Methods("POST")
	router.HandleFunc("/billing/clients/update-amount", UpdateClientAmount(deps)).Methods("POST")
	router.HandleFunc("/billing/clients/update-status", UpdateClientStatus(deps)).Methods("POST")

	router.HandleFunc("/billing/payments/toggle", TogglePayment(deps)).Methods("POST")
	router.HandleFunc("/billing/payments/note", UpdatePaymentNote(deps)).Methods("POST")
	router.HandleFunc("/billing/payments/backfill", BackfillMonth(deps)).Methods("POST")

	router.HandleFunc("/billing/reconcile", RunReconciliation(deps)).Methods("POST")
	router.HandleFunc("/billing/ledger/upload", UploadLedger(deps)).Methods("POST")

	router.HandleFunc("/billing/exports/payments.csv", ExportPaymentsCSV(deps)).Methods("GET")
	router.HandleFunc("/billing/exports/overdue.csv", ExportOverdueCSV(deps)).Methods("GET")
	router.HandleFunc("/billing/exports/payments.xlsx", ExportPaymentsXLSX(deps)).Methods("GET")

	log.Println("Billing Service started on :6455")
	if err := http.ListenAndServe(":6455", router); err != nil {
		log.Fatalf("Billing Service failed: %v", err)
	}
}

package dash

import (
	"log"
	"net/http"

	"RevBoardSaas/api"
	"RevBoardSaas/internal/serviceiface"

	"github.com/gorilla/mux"
)

type DashService struct {
	config map[string]interface{}
	deps   *api.Deps
}

func NewDashService(cfg map[string]interface{}, deps *api.Deps) serviceiface.Service {
	return &DashService{config: cfg, deps: deps}
}

func (s *DashService) Name() string {
	return "dash"
}

func (s *DashService) Start() error {
	go StartDashService(s.deps)
	return nil
}

func (s *DashService) Stop() error {
	return nil
}

func StartDashService(deps *api.Deps) {
	router := mux.NewRouter()

	router.HandleFunc("/dash/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from Dashboard Service"))
	}).Methods("GET")

	router.HandleFunc("/dash/overview", GetOverview(deps)).Methods("POST")
	router.HandleFunc("/dash/performance", GetMonthlyPerformance(deps)).Methods("POST")
	router.HandleFunc("/dash/trends", GetTrends(deps)).Methods("POST")
	router.HandleFunc("/dash/seasonal", GetSeasonalPatterns(deps)).Methods("POST")
	router.HandleFunc("/dash/distribution", GetClientDistribution(deps)).Methods("POST")
	router.HandleFunc("/dash/overdue", GetOverdueClients(deps)).Methods("POST")

	log.Println("Dashboard Service started on :6456")
	if err := http.ListenAndServe(":6456", router); err != nil {
		log.Fatalf("Dashboard Service failed: %v", err)
	}
}

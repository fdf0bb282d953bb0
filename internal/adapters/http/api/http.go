// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/bikelog/internal/adapters/search"
	"github.com/okian/bikelog/internal/domain/history"
	"github.com/okian/bikelog/internal/domain/model"
	"github.com/okian/bikelog/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RecordDependencies
	SearchDependencies
	StoreDependencies
	OptionsProvider
}

// RecordDependencies covers the write and read paths of the log.
type RecordDependencies interface {
	Submit(ctx context.Context, sub model.Submission) (model.Record, error)
	History(ctx context.Context) (history.Report, error)
}

// SearchDependencies covers the manual search adapter.
type SearchDependencies interface {
	Search(ctx context.Context, q search.Query) (search.Result, error)
	ClearSearchCache(ctx context.Context)
}

// StoreDependencies exposes the store reset entry point.
type StoreDependencies interface {
	ResetStore(ctx context.Context)
}

// OptionsProvider returns the form choices.
type OptionsProvider interface {
	Options() types.FormOptions
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	recordsHandler *RecordsHandler
	searchHandler  *SearchHandler
	storeHandler   *StoreHandler
	optionsHandler *OptionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		recordsHandler: NewRecordsHandler(deps),
		searchHandler:  NewSearchHandler(deps),
		storeHandler:   NewStoreHandler(deps),
		optionsHandler: NewOptionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/records", MetricsMiddleware(s.recordsHandler.HandleRecords, "records"))
	mux.HandleFunc("/api/store/reset", MetricsMiddleware(s.storeHandler.HandleReset, "store_reset"))
	mux.HandleFunc("/api/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("/api/search/cache", MetricsMiddleware(s.searchHandler.HandleClearCache, "search_cache"))
	mux.HandleFunc("/api/options", MetricsMiddleware(s.optionsHandler.HandleOptions, "options"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFault maps a kinded error to its status and code.
func writeFault(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	writeError(w, status, code, err)
}

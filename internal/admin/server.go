package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/notifier/internal/core/state"
	"github.com/vietddude/notifier/internal/health"
)

// Server exposes the administrative operations and the introspection
// endpoints over HTTP.
type Server struct {
	service *Service
	state   *state.Container
	monitor *health.Monitor
	server  *http.Server
}

// NewServer creates the admin HTTP server.
func NewServer(service *Service, container *state.Container, monitor *health.Monitor, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		service: service,
		state:   container,
		monitor: monitor,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("POST /v1/tokens", s.handleAddToken)
	mux.HandleFunc("POST /v1/tokens/config", s.handleUpdateTokenConfig)
	mux.HandleFunc("GET /v1/tokens", s.handleSupportedTokens)
	mux.HandleFunc("POST /v1/subscriptions", s.handleSubscribe)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleAddToken(w http.ResponseWriter, r *http.Request) {
	var args AddTokenArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, s.service.AddToken(r.Context(), args))
}

func (s *Server) handleUpdateTokenConfig(w http.ResponseWriter, r *http.Request) {
	var args UpdateTokenConfigArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, s.service.UpdateTokenConfig(r.Context(), args))
}

func (s *Server) handleSupportedTokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string][]string{"tokens": s.service.SupportedTokens()})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var args struct {
		Subscriptions []state.SubscriptionRequest `json:"subscriptions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, s.service.Subscribe(r.Context(), args.Subscriptions))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.state.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, snapshot)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth(r.Context())
	status := health.Overall(report)

	w.Header().Set("Content-Type", "application/json")
	if status == health.StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(map[string]any{
		"status": status,
		"tokens": report,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

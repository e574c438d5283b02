// internal/monitoring/server.go
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/utils"
)

// Pinger is the subset of the store the health endpoint depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves /healthz and the Prometheus scrape endpoint while a run is
// in progress.
type Server struct {
	cfg   config.MonitoringConfig
	store Pinger
	http  *http.Server
	log   utils.Logger
	start time.Time
}

// NewServer wires the monitoring HTTP surface. The store may be nil, in
// which case the health check only reports process liveness.
func NewServer(cfg config.MonitoringConfig, store Pinger) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		log:   utils.NewComponentLogger("monitoring"),
		start: time.Now(),
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle(cfg.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	s.log.Infof("monitoring listening on %s", s.cfg.ListenAddress)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("monitoring server: %v", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status  string `json:"status"`
		Uptime  string `json:"uptime"`
		Storage string `json:"storage,omitempty"`
	}

	resp := health{Status: "ok", Uptime: time.Since(s.start).Round(time.Second).String()}
	code := http.StatusOK

	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Storage = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			resp.Storage = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

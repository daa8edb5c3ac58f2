// server package exposes the webhook over HTTP. A single PATCH route
// receives git-sync notifications; health and metrics probes round out the
// surface.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gitsync-reloader/webhook-adapter/internal/config"
	"github.com/gitsync-reloader/webhook-adapter/internal/logging"
	"github.com/gitsync-reloader/webhook-adapter/internal/metrics"
	"github.com/gitsync-reloader/webhook-adapter/internal/server/types"
	"github.com/gitsync-reloader/webhook-adapter/internal/webhook"
)

type Server struct {
	config  *config.Service
	handler *webhook.Handler
	router  *http.ServeMux
	log     *logging.Logger
}

func New() *Server {
	return &Server{log: logging.NewNopLogger()}
}

func (s *Server) WithConfig(cfg *config.Service) *Server {
	s.config = cfg
	return s
}

func (s *Server) WithHandler(handler *webhook.Handler) *Server {
	s.handler = handler
	return s
}

func (s *Server) WithRouter(router *http.ServeMux) *Server {
	s.router = router
	return s
}

func (s *Server) WithLogger(log *logging.Logger) *Server {
	s.log = log
	return s
}

// Init registers the HTTP routes on the router, allocating one if none was
// provided.
func (s *Server) Init() *Server {
	if s.router == nil {
		s.router = http.NewServeMux()
	}
	s.router.HandleFunc("PATCH /webhook/{namespace}/{name}", s.handleWebhook)
	s.router.HandleFunc("GET /healthz", s.handleHealth)
	s.router.Handle("GET /metrics", promhttp.Handler())
	return s
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// for at most the configured graceful shutdown window.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.ListenAddr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	s.log.Infof("listening on %s", srv.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warnf("graceful shutdown did not complete: %v", err)
		return srv.Close()
	}
	return nil
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ref := config.ResourceRef{
		Namespace: r.PathValue("namespace"),
		Name:      r.PathValue("name"),
	}

	result := s.handler.Handle(r.Context(), ref, r.Header)
	metrics.RequestHandled(result.Outcome.String(), start)

	switch result.Outcome {
	case webhook.Updated, webhook.Unchanged:
		if result.Outcome == webhook.Updated {
			metrics.HashUpdated(ref.Namespace, ref.Name)
		}
		s.writeJSON(w, http.StatusOK, types.SyncResponseV1{
			Status:  types.StatusSuccess,
			GitHash: result.Hash,
			Updated: result.Outcome == webhook.Updated,
		})
	case webhook.Denied:
		// Record only that the target was denied, never the payload.
		metrics.RequestDenied()
		s.log.Warnf("denied webhook for %v", ref)
		w.WriteHeader(http.StatusForbidden)
	case webhook.MissingHash:
		s.log.Warnf("webhook for %v carried no %s header", ref, webhook.HeaderSyncHash)
		w.WriteHeader(http.StatusBadRequest)
	case webhook.StoreError:
		s.log.Errorf("webhook for %v failed: %v", ref, result.Err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("failed to write response: %v", err)
	}
}

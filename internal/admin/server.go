package admin

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nodego-run/nodego/middleware"
)

// Server is the admin/observability HTTP surface. It is an entirely
// separate net/http.Server from the script-controlled raw-socket server;
// nothing it serves is reachable from script.
type Server struct {
	httpServer *http.Server
}

// New builds the admin surface, reading live counters from src.
func New(addr string, src Sources) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registerMetrics(reg, src)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/debug/stats", statsHandler(src))

	handler := middleware.CORS(middleware.DefaultCORSConfig())(mux)

	return &Server{httpServer: &http.Server{Addr: addr, Handler: handler}}
}

// ListenAndServe runs the admin surface until the process exits or Shutdown
// is called; http.ErrServerClosed is swallowed, matching net/http's own
// convention for a clean shutdown.
func (s *Server) ListenAndServe() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the admin surface.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

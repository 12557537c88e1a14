package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server exposes the metrics registry for scraping.
type Server struct {
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
}

func NewServer(l *zap.Logger, g prometheus.Gatherer) *Server {
	return &Server{Logger: l, Gatherer: g}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{
		ErrorLog:      zap.NewStdLog(s.Logger),
		ErrorHandling: promhttp.ContinueOnError,
	}))

	return r
}

// Serve blocks until ctx is cancelled or the listener fails. Shutdown closes
// open connections straight away.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	s.Logger.Info("exporter_listen", zap.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
		err := srv.Close()
		<-errc
		return err
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

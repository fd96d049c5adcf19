package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"
	"txwatch/internal/core/handler"
	"txwatch/internal/core/logger"
	middlWre "txwatch/internal/core/middleware"
	"txwatch/internal/core/notifier"
	"txwatch/internal/core/repository/sqlstore"
	"txwatch/internal/core/simulator"
	"txwatch/internal/core/usecase"
	"txwatch/pkg/config"
	"txwatch/pkg/sqldb"
)

type Server struct {
	router             *mux.Router
	log                logger.Logger
	httpServer         *http.Server
	transactionHandler *handler.TransactionHandler
	insightsHandler    *handler.InsightsHandler
	healthHandler      *handler.HealthHandler
	dispatcher         *notifier.Dispatcher
	db                 *sqldb.Database
}

func NewServer(cfg *config.Config, log logger.Logger) (*Server, error) {
	db, err := sqldb.NewDatabase(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	transactionRepository, err := sqlstore.NewTransactionStore(db.DB, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	var alertNotifier notifier.Notifier
	if cfg.Notifier.Enabled {
		alertNotifier = notifier.NewMailer(cfg.Notifier)
	}
	dispatcher := notifier.NewDispatcher(alertNotifier, cfg.Notifier.QueueSize, log)

	transactionUsecase := usecase.NewTransactionUsecase(transactionRepository, dispatcher, simulator.New(0), log)
	insightsUsecase := usecase.NewInsightsUsecase(transactionRepository, log)

	server := &Server{
		log:                log,
		router:             mux.NewRouter(),
		transactionHandler: handler.NewTransactionHandler(transactionUsecase, log),
		insightsHandler:    handler.NewInsightsHandler(insightsUsecase, log),
		healthHandler:      handler.NewHealthHandler(db.DB, log),
		dispatcher:         dispatcher,
		db:                 db,
	}

	server.router.Use(middlWre.WithRequestLogging(server.log))

	mw := middleware.New(middleware.Config{
		Recorder: prometheus.NewRecorder(prometheus.Config{}),
	})

	server.router.Use(func(next http.Handler) http.Handler {
		return std.Handler("", mw, next)
	})

	server.RegisterRoutes()

	return server, nil
}

func (s *Server) RegisterRoutes() {
	s.router.Use(middlWre.Recovery(s.log))

	s.transactionHandler.RegisterRoutes(s.router)
	s.insightsHandler.RegisterRoutes(s.router)
	s.healthHandler.RegisterRoutes(s.router)

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
}

func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      12 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	s.httpServer = srv

	return srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	var shutdownErr error

	go func() {
		if s.httpServer != nil {
			err := s.httpServer.Shutdown(ctx)
			if err != nil {
				s.log.Error("failed to shutdown HTTP server", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("HTTP server shutdown error: %w", err)
			}
		}

		// Queued fraud alerts drain before the process exits.
		if s.dispatcher != nil {
			s.dispatcher.Close()
		}

		if s.db != nil {
			err := s.db.Close()
			if err != nil {
				s.log.Error("failed to close database connection", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("database shutdown error: %w", err)
			}
		}

		close(done)
	}()

	select {
	case <-done:
		return shutdownErr
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (s *Server) RunTLS(addr, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      9 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 6 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	s.httpServer = srv
	return srv.ListenAndServeTLS(certFile, keyFile)
}

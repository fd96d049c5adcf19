package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"txwatch/internal/core/logger"
	"txwatch/internal/server"
	"txwatch/pkg/config"
)

func main() {
	log, cleanup := logger.NewLogger()
	defer cleanup()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", logger.ErrorField("error", err))
		return
	}

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		log.Error("Failed to create server", logger.ErrorField("error", err))
		return
	}

	go func() {
		log.Info("Starting server",
			logger.StringField("addr", cfg.HTTPAddr),
			logger.BoolField("tls", cfg.TLSCertFile != ""),
		)
		var err error
		if cfg.TLSCertFile != "" {
			err = srv.RunTLS(cfg.HTTPAddr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.Run(cfg.HTTPAddr)
		}
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", logger.ErrorField("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", logger.ErrorField("error", err))
	}

	log.Info("Server exited properly")
}

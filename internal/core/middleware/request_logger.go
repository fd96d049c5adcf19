package middleware

import (
	"net/http"
	"time"

	"txwatch/internal/core/logger"
)

type RequestLogger struct {
	handler http.Handler
	log     logger.Logger
}

func WithRequestLogging(log logger.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return &RequestLogger{handler: h, log: log}
	}
}

func (rl *RequestLogger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rl.handler.ServeHTTP(w, r)

	rl.log.Debug("request handled",
		logger.StringField("method", r.Method),
		logger.StringField("path", r.URL.Path),
		logger.StringField("remote_addr", r.RemoteAddr),
		logger.Int64Field("duration_ms", time.Since(start).Milliseconds()),
	)
}

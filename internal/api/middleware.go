package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/halftone/pkg/observability"
)

// requestLogger logs each request with its status and latency and reports
// it to the HTTP hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			dur := time.Since(start)
			observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, status, dur)

			logFn := s.logger.Info
			if status >= http.StatusInternalServerError {
				logFn = s.logger.Error
			}
			logFn("request",
				"id", middleware.GetReqID(ctx),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", dur)
		}()

		next.ServeHTTP(ww, r)
	})
}

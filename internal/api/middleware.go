package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mmrzaf/datadash/internal/logging"
	"github.com/mmrzaf/datadash/internal/web"
)

// NewRouter returns the full HTTP surface: the dashboard page, the API and the
// middleware stack around them.
func NewRouter(h *Handler, logger *logging.Logger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger.WithComponent("http")))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Dataset-Seed"},
		MaxAge:         300,
	}))

	r.Get("/", web.IndexHandler)
	h.RegisterRoutes(r)
	return r
}

// RequestLogger logs one request.completed line per request, at warn for 4xx and
// error for 5xx.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(started).Milliseconds(),
				"remote":      r.RemoteAddr,
			}
			if id := middleware.GetReqID(r.Context()); id != "" {
				fields["request_id"] = id
			}
			if status >= 500 {
				logger.Errorw("request.completed", fields)
				return
			}
			if status >= 400 {
				logger.Warnw("request.completed", fields)
				return
			}
			logger.Infow("request.completed", fields)
		})
	}
}

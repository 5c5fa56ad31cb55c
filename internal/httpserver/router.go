package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mediwallet/internal/config"
	"mediwallet/internal/domain"

	_ "mediwallet/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// maxUploadBytes limits multipart test result uploads.
const maxUploadBytes = 50 << 20

// NewRouter constructs the main HTTP router and wires routes and middleware.
func NewRouter(cfg *config.Config, backend domain.Backend, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": cfg.AppName + " API",
			"version": "1.0.0",
			"docs":    "/docs",
		})
	})

	r.Get("/health", handleHealth(backend))

	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	errs := &errorWriter{logger: logger}

	r.Route("/api", func(r chi.Router) {
		r.Route("/test-results", func(r chi.Router) {
			r.Get("/", handleListTestResults(backend, errs))
			r.Post("/", handleCreateTestResult(backend, errs))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handleGetTestResult(backend, errs))
				r.Patch("/", handleUpdateTestResult(backend, errs))
				r.Delete("/", handleDeleteTestResult(backend, errs))
				r.Get("/image", handleTestResultImage(backend, errs))
				r.Post("/analysis", handleAnalyzeTestResult(backend, errs))
				r.Get("/shares", handleListShares(backend, errs))
				r.Post("/shares", handleCreateShare(backend, errs))
			})
		})

		r.Post("/images", handleUploadImage(backend, errs))
		r.Get("/stats", handleStats(backend, errs))

		r.Get("/settings", handleGetSettings(backend, errs))
		r.Patch("/settings", handleSaveSettings(backend, errs))

		r.Route("/chat", func(r chi.Router) {
			r.Post("/messages", handleSendMessage(backend, errs))
			r.Get("/messages", handleListMessages(backend, errs))
			r.Post("/read", handleMarkRead(backend, errs))
			r.Get("/conversations", handleListConversations(backend, errs))
		})

		r.Get("/shared/{token}", handleOpenShare(backend, errs))
	})

	return r
}

func handleHealth(backend domain.Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		if _, err := backend.GetDatabaseStats(r.Context()); err != nil {
			status = "degraded"
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": status})
	}
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

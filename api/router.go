package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rental-listings-importer/utils"
)

// NewRouter wires the import and health routes.
func NewRouter(h *ListingImportHandler, logger *utils.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(requestLogger(logger))

	mux.Get("/healthz", h.HandleHealth)
	mux.Route("/api/web/v1", func(r chi.Router) {
		r.Post("/rental_listings", h.HandleImport)
	})
	return mux
}

func requestLogger(logger *utils.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("[http] %s %s %d %v request_id=%s",
				r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond),
				middleware.GetReqID(r.Context()))
		})
	}
}

package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/requirements-testgen/internal/config"
	"github.com/BerylCAtieno/requirements-testgen/internal/handlers"
	"github.com/BerylCAtieno/requirements-testgen/internal/middleware"
	"github.com/BerylCAtieno/requirements-testgen/internal/services"
	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

const apiPrefix = "/api/v1"

// NewRouter wires every route. CORS wraps the whole router so preflight
// requests are answered before route matching.
func NewRouter(service services.GenerationService, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	h := handlers.NewGenerationHandler(service, cfg.MaxFileSize, logger)
	limiter := middleware.NewRateLimiter(cfg.GenerateRateLimit, cfg.GenerateBurst)
	formLimited := limiter.LimitWith(http.HandlerFunc(h.FormRateLimited))

	// Browser form
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.Handle("/generate", formLimited(http.HandlerFunc(h.SubmitForm))).Methods(http.MethodPost)
	r.HandleFunc("/runs/{id}/download", h.DownloadJSON).Methods(http.MethodGet)
	r.HandleFunc("/runs/{id}/download.xlsx", h.DownloadXLSX).Methods(http.MethodGet)

	// API routes sit on the root router so a method mismatch answers 405.
	r.HandleFunc(apiPrefix+"/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/models", h.ListModels).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/models/available", h.AvailableModels).Methods(http.MethodGet)
	r.Handle(apiPrefix+"/generate", limiter.Limit(http.HandlerFunc(h.Generate))).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/runs", h.ListRuns).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/runs/{id}", h.GetRun).Methods(http.MethodGet)

	return middleware.CORS()(r)
}

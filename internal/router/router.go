package router

import (
	"database/sql"
	"net/http"

	"cardbank/internal/handlers"
	"cardbank/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(db *sql.DB, jwtSecret string, logger zerolog.Logger) *mux.Router {
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		logger.Warn().Msg("JWT_SECRET not set, using default key")
	}

	authHandler := handlers.NewAuthHandler(db, jwtSecret, logger)
	cardHandler := handlers.NewCardHandler(db, logger)
	adminHandler := handlers.NewAdminHandler(db, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(middleware.RequestValidation())
	auth.HandleFunc("", authHandler.Handle).Methods("POST")

	cards := api.PathPrefix("/cards").Subrouter()
	cards.Use(middleware.Authentication(jwtSecret, logger))
	cards.Use(middleware.RequestValidation())
	cards.HandleFunc("", cardHandler.Get).Methods("GET")
	cards.HandleFunc("", cardHandler.Post).Methods("POST")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Authentication(jwtSecret, logger))
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RequestValidation())
	admin.HandleFunc("", adminHandler.Get).Methods("GET")
	admin.HandleFunc("", adminHandler.Post).Methods("POST")
	admin.HandleFunc("", adminHandler.Delete).Methods("DELETE")

	// Preflight requests must match a route for the middleware chain to
	// run; the cors middleware answers them before this handler is hit.
	r.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

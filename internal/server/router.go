package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"go-chi-keypad/internal/calculator"
	"go-chi-keypad/internal/handlers"
	"go-chi-keypad/internal/observability"
)

// NewRouter wires the middleware stack and every route; sessions live in
// store.
func NewRouter(store *calculator.Store) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, calculator.NewHandler(store))

	return r
}

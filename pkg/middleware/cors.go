package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS lets the browser frontend send the token cookie cross-origin, so
// origins must be listed explicitly rather than wildcarded.
func CORS(origins []string) func(http.Handler) http.Handler {
	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", RequestIDHeader, IdempotencyHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		MaxAge:           3600,
		AllowCredentials: true,
	})

	return handler.Handler
}

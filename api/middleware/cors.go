package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware applying the configured allowed-origin policy.
// Agent traffic is server-to-server, so this mostly serves local tooling.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "Request-Id"},
		ExposedHeaders:   []string{"Idempotency-Key", "Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}

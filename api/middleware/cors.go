package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",       // local storefront dev server
	"https://wickhaven.example",   // production storefront
	"https://www.wickhaven.example",
}

// CORS returns middleware that applies the storefront's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-WH-Session", "X-Requested-With"},
		ExposedHeaders:   []string{"X-WH-Session"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

package middleware

import (
	"github.com/go-chi/cors"
)

// CORS builds the cors.Options for the browser player. A wildcard origin
// forces AllowCredentials off, since browsers reject
// Access-Control-Allow-Credentials: true together with "*".
func CORS(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		// Local player dev server.
		allowedOrigins = []string{"http://localhost:3000"}
	}

	allowCredentials := true
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	return cors.Options{
		AllowedOrigins: allowedOrigins,
		// The API surface is read/create/delete only; there is no PUT.
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}
}

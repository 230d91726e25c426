package middleware

import "net/http"

// SecurityHeaders adds standard security headers to every response.
// frame-ancestors is not denied outright: the chat page embeds YouTube
// players and the proxied MP4 stream in media elements, but this API
// itself must never be framed.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "camera=(), geolocation=()")
		next.ServeHTTP(w, r)
	})
}

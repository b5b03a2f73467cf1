package middleware

import "net/http"

// CORS sets the permissive cross-origin headers the public website
// relies on and short-circuits OPTIONS preflight requests with 200.
// allowMethods is the per-route method list, e.g. "GET, OPTIONS".
func CORS(allowMethods string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", allowMethods)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

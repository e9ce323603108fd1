package middleware

import "net/http"

// CORS header values sent on every task endpoint response.
const (
	CORSAllowOrigin      = "*"
	CORSAllowHeaders     = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Amz-User-Agent"
	CORSAllowCredentials = "false"
)

// Allowed method lists for the two kinds of endpoints.
const (
	MethodsStart = "OPTIONS,GET"
	MethodsTask  = "OPTIONS,GET,POST"
)

// CORS returns middleware that sets the permissive cross-origin headers with
// the given allowed methods. Headers are written before the handler runs so
// that error responses carry them too.
func CORS(methods string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", CORSAllowOrigin)
			h.Set("Access-Control-Allow-Headers", CORSAllowHeaders)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Credentials", CORSAllowCredentials)

			next.ServeHTTP(w, r)
		})
	}
}

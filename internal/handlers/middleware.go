package handlers

import (
	"net/http"
)

// MiddlewareRequireAuth guards the JSON admin API. Pages use the gate's
// redirecting variant instead.
func (h *Handler) MiddlewareRequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.gate.IsAuthenticated(r) {
			writeJSON(w, http.StatusUnauthorized, &errorResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// noStore keeps admin pages out of shared caches.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
